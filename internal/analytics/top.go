package analytics

import (
	"sort"

	"github.com/jonathan/review-portal/internal/types"
)

// TopReviews returns up to n reviews with the highest rating plus recommendation.
// Ties keep their input order. The input slice is not reordered.
func TopReviews(reviews []types.Review, n int) []types.Review {
	if n <= 0 || len(reviews) == 0 {
		return []types.Review{}
	}

	sorted := make([]types.Review, len(reviews))
	copy(sorted, reviews)
	sort.SliceStable(sorted, func(i, j int) bool {
		return combinedScore(&sorted[i]) > combinedScore(&sorted[j])
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

func combinedScore(r *types.Review) int {
	return r.Rating + r.Recommendation
}
