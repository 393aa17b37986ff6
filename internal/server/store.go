package server

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/review-portal/internal/db"
	"github.com/jonathan/review-portal/internal/types"
)

// UserStore is the persistence the user service needs.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*db.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByUsername(ctx context.Context, username string) (*db.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	CountUsers(ctx context.Context) (int, error)
}

// ReviewStore persists job reviews.
type ReviewStore interface {
	CreateReview(ctx context.Context, authorID uuid.UUID, req *types.CreateReviewRequest) (*types.Review, error)
	GetReview(ctx context.Context, id uuid.UUID) (*types.Review, error)
	ListReviews(ctx context.Context, f types.ReviewFilter) ([]types.Review, int, error)
	ListAllReviews(ctx context.Context) ([]types.Review, error)
	ListReviewsByAuthor(ctx context.Context, authorID uuid.UUID) ([]types.Review, error)
	DeleteReview(ctx context.Context, id uuid.UUID) error
	AdjustVotes(ctx context.Context, id uuid.UUID, delta int) (int, error)
	FilterOptions(ctx context.Context) (*types.FilterOptions, error)
}

// ForumStore persists forum topics and comments.
type ForumStore interface {
	CreateTopic(ctx context.Context, authorID uuid.UUID, title, content string) (*types.Topic, error)
	ListTopics(ctx context.Context) ([]types.Topic, error)
	GetTopic(ctx context.Context, id uuid.UUID) (*types.Topic, error)
	AddComment(ctx context.Context, topicID, authorID uuid.UUID, body string) (*types.Comment, error)
}

// Store is everything the server reads and writes. *db.DB implements it.
type Store interface {
	UserStore
	ReviewStore
	ForumStore
	Ping(ctx context.Context) error
	Close()
}

var _ Store = (*db.DB)(nil)
