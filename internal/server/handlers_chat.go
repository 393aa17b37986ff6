package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/jonathan/review-portal/internal/llm"
	"github.com/jonathan/review-portal/internal/types"
)

// handleChat answers a question using only the stored reviews.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.chat == nil {
		errorResponse(w, http.StatusServiceUnavailable, "review chat is not configured")
		return
	}

	var req types.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		serviceError(w, err)
		return
	}

	reviews, err := s.store.ListAllReviews(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}

	answer, err := s.chat.Ask(r.Context(), req.Question, reviews)
	if err != nil {
		if errors.Is(err, llm.ErrEmptyQuestion) {
			serviceError(w, &ErrValidation{Field: "question", Message: "required"})
			return
		}
		log.Printf("[chat] Failed to answer question: %v", err)
		errorResponse(w, http.StatusBadGateway, "failed to get an answer from the model")
		return
	}
	jsonResponse(w, http.StatusOK, types.ChatResponse{Answer: answer})
}
