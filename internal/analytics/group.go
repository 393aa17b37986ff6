package analytics

import (
	"strings"

	"github.com/jonathan/review-portal/internal/types"
)

// GroupReviews groups reviews of the same job (title, company, location and department)
// in first-seen order. Matching is case-insensitive; the group keeps the first spelling.
func GroupReviews(reviews []types.Review) []types.ReviewGroup {
	groups := []types.ReviewGroup{}
	index := make(map[string]int)

	for _, r := range reviews {
		key := r.JobKey() + "|" + strings.ToLower(strings.TrimSpace(r.Department))
		i, ok := index[key]
		if !ok {
			groups = append(groups, types.ReviewGroup{
				Title:      r.Title,
				Company:    r.Company,
				Location:   r.Location,
				Department: r.Department,
				Reviews:    []types.ReviewAttribute{},
			})
			i = len(groups) - 1
			index[key] = i
		}
		groups[i].Reviews = append(groups[i].Reviews, types.ReviewAttribute{
			ID:             r.ID,
			Description:    r.Description,
			HourlyPay:      r.HourlyPay,
			Benefits:       r.Benefits,
			Body:           r.Body,
			Rating:         r.Rating,
			Recommendation: r.Recommendation,
			Author:         r.Author,
			Upvotes:        r.Upvotes,
		})
	}
	return groups
}
