// Package server provides the HTTP API and dashboard pages of the review portal.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrUsernameTaken indicates the username is already registered
type ErrUsernameTaken struct {
	Username string
}

func (e *ErrUsernameTaken) Error() string {
	return fmt.Sprintf("username already taken: %s", e.Username)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid username or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrReviewNotFound indicates the review does not exist
type ErrReviewNotFound struct {
	ReviewID uuid.UUID
}

func (e *ErrReviewNotFound) Error() string {
	return fmt.Sprintf("review not found: %s", e.ReviewID)
}

// ErrForbidden indicates the caller may not act on the resource
type ErrForbidden struct {
	Action string
}

func (e *ErrForbidden) Error() string {
	return fmt.Sprintf("not allowed to %s", e.Action)
}

// ErrDuplicateReview indicates the author already reviewed this job
type ErrDuplicateReview struct{}

func (e *ErrDuplicateReview) Error() string {
	return "you have already reviewed this job"
}

// ErrTopicNotFound indicates the forum topic does not exist
type ErrTopicNotFound struct {
	TopicID uuid.UUID
}

func (e *ErrTopicNotFound) Error() string {
	return fmt.Sprintf("topic not found: %s", e.TopicID)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Wrapped errors are unwrapped until a known type is found.
func HTTPStatus(err error) int {
	for e := err; e != nil; e = errors.Unwrap(e) {
		switch e.(type) {
		case *ErrUsernameTaken, *ErrDuplicateReview:
			return http.StatusConflict
		case *ErrInvalidCredentials, *ErrPasswordMismatch:
			return http.StatusUnauthorized
		case *ErrUserNotFound, *ErrReviewNotFound, *ErrTopicNotFound:
			return http.StatusNotFound
		case *ErrValidation:
			return http.StatusBadRequest
		case *ErrForbidden:
			return http.StatusForbidden
		}
	}
	return http.StatusInternalServerError
}
