package analytics

import (
	"errors"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/jonathan/review-portal/internal/types"
)

var (
	// ErrInvalidTopN is returned when a negative number of recommendations is requested.
	ErrInvalidTopN = errors.New("topN must not be negative")
	// ErrUnknownAuthor is returned when the author has no reviews to compare against.
	ErrUnknownAuthor = errors.New("author has no reviews")
)

// Recommendation is a job the author has not reviewed, with its predicted score.
type Recommendation struct {
	Review         types.Review `json:"review"`
	PredictedScore float64      `json:"predicted_score"`
}

// ReviewScore combines rating (1-5) and recommendation (0-10) into a 0-1 score
// weighted equally.
func ReviewScore(r *types.Review) float64 {
	return 0.5*float64(r.Rating)/5 + 0.5*float64(r.Recommendation)/10
}

// scoreMatrix maps author -> job key -> mean score. Absent entries count as 0.
type scoreMatrix map[uuid.UUID]map[string]float64

func buildMatrix(reviews []types.Review) (scoreMatrix, map[string]types.Review, []string) {
	sums := make(map[uuid.UUID]map[string]float64)
	counts := make(map[uuid.UUID]map[string]int)
	representative := make(map[string]types.Review)
	var jobs []string

	for _, r := range reviews {
		key := r.JobKey()
		if _, seen := representative[key]; !seen {
			representative[key] = r
			jobs = append(jobs, key)
		}
		if sums[r.AuthorID] == nil {
			sums[r.AuthorID] = make(map[string]float64)
			counts[r.AuthorID] = make(map[string]int)
		}
		sums[r.AuthorID][key] += ReviewScore(&r)
		counts[r.AuthorID][key]++
	}

	m := make(scoreMatrix, len(sums))
	for author, row := range sums {
		m[author] = make(map[string]float64, len(row))
		for key, s := range row {
			m[author][key] = s / float64(counts[author][key])
		}
	}
	return m, representative, jobs
}

// cosine computes the cosine similarity of two sparse score rows.
func cosine(a, b map[string]float64) float64 {
	var dot, na, nb float64
	for k, va := range a {
		na += va * va
		if vb, ok := b[k]; ok {
			dot += va * vb
		}
	}
	for _, vb := range b {
		nb += vb * vb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Recommend suggests up to topN jobs for author using user-based collaborative
// filtering over review scores. Each job is represented by its first review.
func Recommend(reviews []types.Review, author uuid.UUID, topN int) ([]Recommendation, error) {
	if topN < 0 {
		return nil, ErrInvalidTopN
	}
	if len(reviews) == 0 || topN == 0 {
		return []Recommendation{}, nil
	}

	matrix, representative, jobs := buildMatrix(reviews)
	own, ok := matrix[author]
	if !ok {
		return nil, ErrUnknownAuthor
	}

	similarity := make(map[uuid.UUID]float64, len(matrix)-1)
	for other, row := range matrix {
		if other == author {
			continue
		}
		similarity[other] = cosine(own, row)
	}

	recs := []Recommendation{}
	for _, job := range jobs {
		if _, rated := own[job]; rated {
			continue
		}
		var weighted, simSum float64
		for other, sim := range similarity {
			score := matrix[other][job]
			if score <= 0 {
				continue
			}
			weighted += sim * score
			simSum += sim
		}
		if simSum == 0 {
			continue
		}
		recs = append(recs, Recommendation{
			Review:         representative[job],
			PredictedScore: round2(weighted / simSum),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].PredictedScore > recs[j].PredictedScore
	})
	if len(recs) > topN {
		recs = recs[:topN]
	}
	return recs, nil
}
