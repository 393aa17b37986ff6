package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jonathan/review-portal/internal/db"
	"github.com/jonathan/review-portal/internal/server/middleware"
	"github.com/jonathan/review-portal/internal/types"
)

func (s *Server) handleListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := s.store.ListTopics(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	if topics == nil {
		topics = []types.Topic{}
	}
	jsonResponse(w, http.StatusOK, topics)
}

func (s *Server) handleCreateTopic(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req types.CreateTopicRequest
	if err := decodeJSON(w, r, &req); err != nil {
		serviceError(w, err)
		return
	}

	topic, err := s.store.CreateTopic(r.Context(), userID, strings.TrimSpace(req.Title), req.Content)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			err = &ErrUserNotFound{UserID: userID}
		}
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, topic)
}

// handleGetTopic returns a topic with its comments, oldest first.
func (s *Server) handleGetTopic(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		serviceError(w, err)
		return
	}

	topic, err := s.store.GetTopic(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}
	if topic == nil {
		serviceError(w, &ErrTopicNotFound{TopicID: id})
		return
	}
	jsonResponse(w, http.StatusOK, topic)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	topicID, err := pathUUID(r, "id")
	if err != nil {
		serviceError(w, err)
		return
	}

	var req types.CreateCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		serviceError(w, err)
		return
	}

	comment, err := s.store.AddComment(r.Context(), topicID, userID, req.Body)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			err = &ErrTopicNotFound{TopicID: topicID}
		}
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, comment)
}
