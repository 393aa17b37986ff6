// Package analytics aggregates stored reviews into dashboard series, rankings and recommendations.
package analytics

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/review-portal/internal/types"
)

type countEntry struct {
	name  string
	count int
}

// normalizeKey folds a location or company the way types.JobKey does.
func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// countBy tallies reviews by key, ordered by count descending then name.
// Keys differing only in case or surrounding space are one entry, labeled
// with the first spelling seen. Blank keys are skipped.
func countBy(reviews []types.Review, key func(*types.Review) string) ([]string, []float64) {
	counts := make(map[string]int)
	labels := make(map[string]string)
	for i := range reviews {
		raw := key(&reviews[i])
		k := normalizeKey(raw)
		if k == "" {
			continue
		}
		if _, seen := labels[k]; !seen {
			labels[k] = strings.TrimSpace(raw)
		}
		counts[k]++
	}

	entries := make([]countEntry, 0, len(counts))
	for k, c := range counts {
		entries = append(entries, countEntry{name: labels[k], count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})

	names := make([]string, len(entries))
	values := make([]float64, len(entries))
	for i, e := range entries {
		names[i] = e.name
		values[i] = float64(e.count)
	}
	return names, values
}

// LocationData returns the number of reviews per location.
func LocationData(reviews []types.Review) (cities []string, counts []float64) {
	return countBy(reviews, func(r *types.Review) string { return r.Location })
}

// CompanyData returns the number of reviews per company.
func CompanyData(reviews []types.Review) (companies []string, counts []float64) {
	return countBy(reviews, func(r *types.Review) string { return r.Company })
}

// HourlyPayData returns the average hourly pay per job title, ordered by title.
func HourlyPayData(reviews []types.Review) (titles []string, pays []float64) {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range reviews {
		t := strings.TrimSpace(r.Title)
		if t == "" {
			continue
		}
		sums[t] += r.HourlyPay
		counts[t]++
	}

	titles = make([]string, 0, len(sums))
	for t := range sums {
		titles = append(titles, t)
	}
	sort.Strings(titles)

	pays = make([]float64, len(titles))
	for i, t := range titles {
		pays[i] = round2(sums[t] / float64(counts[t]))
	}
	return titles, pays
}

// RatingData returns how many reviews gave each rating, for the ratings present,
// in ascending order.
func RatingData(reviews []types.Review) (ratings []string, counts []float64) {
	byRating := make(map[int]int)
	for _, r := range reviews {
		byRating[r.Rating]++
	}

	values := make([]int, 0, len(byRating))
	for v := range byRating {
		values = append(values, v)
	}
	sort.Ints(values)

	ratings = make([]string, len(values))
	counts = make([]float64, len(values))
	for i, v := range values {
		ratings[i] = strconv.Itoa(v)
		counts[i] = float64(byRating[v])
	}
	return ratings, counts
}

// BuildChartData assembles the four chart series from reviews.
func BuildChartData(reviews []types.Review) *types.ChartData {
	d := &types.ChartData{}
	d.Cities, d.JobCounts = LocationData(reviews)
	d.Companies, d.CompanyJobCounts = CompanyData(reviews)
	d.Titles, d.HourlyPays = HourlyPayData(reviews)
	d.Ratings, d.RatingCounts = RatingData(reviews)
	return d
}

// Statistics summarizes the reviews for the dashboard header.
func Statistics(reviews []types.Review, totalUsers int) types.Statistics {
	stats := types.Statistics{
		TotalReviews: len(reviews),
		TotalUsers:   totalUsers,
	}
	if len(reviews) == 0 {
		return stats
	}

	companies := make(map[string]struct{})
	locations := make(map[string]struct{})
	var paySum, ratingSum float64
	for _, r := range reviews {
		if k := normalizeKey(r.Company); k != "" {
			companies[k] = struct{}{}
		}
		if k := normalizeKey(r.Location); k != "" {
			locations[k] = struct{}{}
		}
		paySum += r.HourlyPay
		ratingSum += float64(r.Rating)
	}

	stats.TotalCompanies = len(companies)
	stats.TotalLocations = len(locations)
	stats.AverageHourlyPay = round2(paySum / float64(len(reviews)))
	stats.AverageRating = round2(ratingSum / float64(len(reviews)))
	return stats
}

// AveragePayByLocation returns location -> title -> average hourly pay.
func AveragePayByLocation(reviews []types.Review) map[string]map[string]float64 {
	type acc struct {
		sum float64
		n   int
	}
	grouped := make(map[string]map[string]*acc)
	for _, r := range reviews {
		loc, title := strings.TrimSpace(r.Location), strings.TrimSpace(r.Title)
		if loc == "" || title == "" {
			continue
		}
		if grouped[loc] == nil {
			grouped[loc] = make(map[string]*acc)
		}
		a := grouped[loc][title]
		if a == nil {
			a = &acc{}
			grouped[loc][title] = a
		}
		a.sum += r.HourlyPay
		a.n++
	}

	out := make(map[string]map[string]float64, len(grouped))
	for loc, titles := range grouped {
		out[loc] = make(map[string]float64, len(titles))
		for title, a := range titles {
			out[loc][title] = round2(a.sum / float64(a.n))
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
