package server

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jonathan/review-portal/internal/analytics"
	"github.com/jonathan/review-portal/internal/config"
	"github.com/jonathan/review-portal/internal/db"
	"github.com/jonathan/review-portal/internal/server/middleware"
	"github.com/jonathan/review-portal/internal/types"
)

// parseReviewFilter reads search, filter and pagination parameters.
// Filter fields accept repeated or comma-separated values.
func parseReviewFilter(q url.Values, defaultPerPage int) (types.ReviewFilter, error) {
	f := types.ReviewFilter{
		Search:      strings.TrimSpace(q.Get("search")),
		Departments: multiValue(q, "department"),
		Companies:   multiValue(q, "company"),
		Locations:   multiValue(q, "location"),
		Page:        1,
		PerPage:     defaultPerPage,
	}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return f, &ErrValidation{Field: "page", Message: "must be a positive integer"}
		}
		f.Page = page
	}
	if raw := q.Get("per_page"); raw != "" {
		perPage, err := strconv.Atoi(raw)
		if err != nil || perPage < 1 {
			return f, &ErrValidation{Field: "per_page", Message: "must be a positive integer"}
		}
		f.PerPage = min(perPage, config.MaxReviewsPerPage)
	}
	return f, nil
}

func multiValue(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	f, err := parseReviewFilter(r.URL.Query(), s.cfg.ReviewsPerPage)
	if err != nil {
		serviceError(w, err)
		return
	}

	reviews, total, err := s.store.ListReviews(r.Context(), f)
	if err != nil {
		serviceError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, types.ReviewPage{
		Reviews:    orEmptyReviews(reviews),
		Page:       f.Page,
		PerPage:    f.PerPage,
		Total:      total,
		TotalPages: (total + f.PerPage - 1) / f.PerPage,
	})
}

func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		serviceError(w, err)
		return
	}

	review, err := s.store.GetReview(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}
	if review == nil {
		serviceError(w, &ErrReviewNotFound{ReviewID: id})
		return
	}
	jsonResponse(w, http.StatusOK, review)
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req types.CreateReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		serviceError(w, err)
		return
	}

	review, err := s.store.CreateReview(r.Context(), userID, &req)
	switch {
	case errors.Is(err, db.ErrDuplicate):
		serviceError(w, &ErrDuplicateReview{})
		return
	case errors.Is(err, db.ErrNotFound):
		serviceError(w, &ErrUserNotFound{UserID: userID})
		return
	case err != nil:
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, review)
}

// handleDeleteReview lets authors delete their own reviews.
func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		serviceError(w, err)
		return
	}

	review, err := s.store.GetReview(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}
	if review == nil {
		serviceError(w, &ErrReviewNotFound{ReviewID: id})
		return
	}
	if review.AuthorID != userID {
		serviceError(w, &ErrForbidden{Action: "delete this review"})
		return
	}

	if err := s.store.DeleteReview(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			err = &ErrReviewNotFound{ReviewID: id}
		}
		serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleVote(delta int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			serviceError(w, err)
			return
		}

		upvotes, err := s.store.AdjustVotes(r.Context(), id, delta)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				err = &ErrReviewNotFound{ReviewID: id}
			}
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, types.VoteResponse{ID: id, Upvotes: upvotes})
	}
}

func (s *Server) handleMyReviews(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	reviews, err := s.store.ListReviewsByAuthor(r.Context(), userID)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, orEmptyReviews(reviews))
}

func (s *Server) handleFilterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.store.FilterOptions(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, opts)
}

func (s *Server) handleTopReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.store.ListAllReviews(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, analytics.TopReviews(reviews, s.cfg.TopReviewsLimit))
}

func (s *Server) handleGroupedReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.store.ListAllReviews(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, analytics.GroupReviews(reviews))
}

// handleRecommendations suggests jobs the caller has not reviewed.
// A caller without reviews gets an empty list.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := s.cfg.Recommendations
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			serviceError(w, &ErrValidation{Field: "limit", Message: "must be an integer"})
			return
		}
		limit = n
	}

	reviews, err := s.store.ListAllReviews(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}

	recs, err := analytics.Recommend(reviews, userID, limit)
	switch {
	case errors.Is(err, analytics.ErrInvalidTopN):
		serviceError(w, &ErrValidation{Field: "limit", Message: "must not be negative"})
		return
	case errors.Is(err, analytics.ErrUnknownAuthor):
		recs = []analytics.Recommendation{}
	case err != nil:
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, recs)
}

func orEmptyReviews(reviews []types.Review) []types.Review {
	if reviews == nil {
		return []types.Review{}
	}
	return reviews
}
