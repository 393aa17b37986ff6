package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/review-portal/internal/types"
)

// CreateTopic starts a forum topic
func (db *DB) CreateTopic(ctx context.Context, authorID uuid.UUID, title, content string) (*types.Topic, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO forum_topics (title, content, author_id) VALUES ($1, $2, $3) RETURNING id`,
		title, content, authorID,
	).Scan(&id)
	if err != nil {
		if pgErrorCode(err) == foreignKeyViolation {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to create topic: %w", err)
	}
	return db.GetTopic(ctx, id)
}

// ListTopics returns all topics, newest first, without comments.
func (db *DB) ListTopics(ctx context.Context) ([]types.Topic, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT t.id, t.title, t.content, t.author_id, u.username, t.created_at
		 FROM forum_topics t JOIN users u ON u.id = t.author_id
		 ORDER BY t.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	defer rows.Close()

	topics := []types.Topic{}
	for rows.Next() {
		t := types.Topic{Comments: []types.Comment{}}
		if err := rows.Scan(&t.ID, &t.Title, &t.Content, &t.AuthorID, &t.Author, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// GetTopic retrieves a topic with its comments in posting order. Returns nil, nil when absent.
func (db *DB) GetTopic(ctx context.Context, id uuid.UUID) (*types.Topic, error) {
	var t types.Topic
	err := db.pool.QueryRow(ctx,
		`SELECT t.id, t.title, t.content, t.author_id, u.username, t.created_at
		 FROM forum_topics t JOIN users u ON u.id = t.author_id
		 WHERE t.id = $1`,
		id,
	).Scan(&t.ID, &t.Title, &t.Content, &t.AuthorID, &t.Author, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT c.id, c.topic_id, c.author_id, u.username, c.body, c.created_at
		 FROM forum_comments c JOIN users u ON u.id = c.author_id
		 WHERE c.topic_id = $1
		 ORDER BY c.created_at, c.id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	t.Comments = []types.Comment{}
	for rows.Next() {
		var c types.Comment
		if err := rows.Scan(&c.ID, &c.TopicID, &c.AuthorID, &c.Author, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		t.Comments = append(t.Comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}
	return &t, nil
}

// AddComment posts a comment on a topic. Returns ErrNotFound when the topic does not exist.
func (db *DB) AddComment(ctx context.Context, topicID, authorID uuid.UUID, body string) (*types.Comment, error) {
	c := types.Comment{TopicID: topicID, AuthorID: authorID, Body: body}
	err := db.pool.QueryRow(ctx,
		`WITH inserted AS (
			INSERT INTO forum_comments (topic_id, author_id, body) VALUES ($1, $2, $3)
			RETURNING id, created_at, author_id
		 )
		 SELECT i.id, i.created_at, u.username FROM inserted i JOIN users u ON u.id = i.author_id`,
		topicID, authorID, body,
	).Scan(&c.ID, &c.CreatedAt, &c.Author)
	if err != nil {
		if pgErrorCode(err) == foreignKeyViolation {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	return &c, nil
}
