package types

import (
	"time"

	"github.com/google/uuid"
)

// Topic is a forum discussion thread.
type Topic struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  uuid.UUID `json:"author_id"`
	Author    string    `json:"author"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is a reply on a forum topic.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	TopicID   uuid.UUID `json:"topic_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTopicRequest is the body of POST /forum/topics.
type CreateTopicRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required,max=10000"`
}

// CreateCommentRequest is the body of POST /forum/topics/{id}/comments.
type CreateCommentRequest struct {
	Body string `json:"body" validate:"required,max=4000"`
}
