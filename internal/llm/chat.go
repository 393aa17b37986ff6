package llm

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/review-portal/internal/prompts"
	"github.com/jonathan/review-portal/internal/types"
)

// OutOfScopeAnswer is the reply the model is instructed to give for unrelated questions.
var OutOfScopeAnswer = prompts.MustGet("chat.json", "out-of-scope")

// ReviewChatInstruction constrains the model to the supplied review data.
var ReviewChatInstruction = prompts.Format(prompts.MustGet("chat.json", "system-instruction"),
	map[string]string{"OutOfScope": OutOfScopeAnswer})

// ErrEmptyQuestion is returned when the question is blank.
var ErrEmptyQuestion = errors.New("question is empty")

var csvHeader = []string{
	"id", "title", "company", "location", "department", "description",
	"hourly_pay", "benefits", "review", "rating", "recommendation", "upvotes",
}

// ReviewsCSV renders reviews as CSV with a header row.
func ReviewsCSV(reviews []types.Review) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range reviews {
		record := []string{
			r.ID.String(), r.Title, r.Company, r.Location, r.Department, r.Description,
			strconv.FormatFloat(r.HourlyPay, 'f', -1, 64), r.Benefits, r.Body,
			strconv.Itoa(r.Rating), strconv.Itoa(r.Recommendation), strconv.Itoa(r.Upvotes),
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("failed to write review %s: %w", r.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}
	return sb.String(), nil
}

// BuildChatPrompt places the question ahead of the review data.
func BuildChatPrompt(question, reviewsCSV string) (string, error) {
	return prompts.Render("chat.json", "question", map[string]string{
		"Question":   strings.TrimSpace(question),
		"ReviewsCSV": reviewsCSV,
	})
}

// ReviewChat answers questions about stored reviews.
type ReviewChat struct {
	client Client
}

// NewReviewChat creates a ReviewChat backed by client.
func NewReviewChat(client Client) *ReviewChat {
	return &ReviewChat{client: client}
}

// Ask answers question from the given reviews.
func (c *ReviewChat) Ask(ctx context.Context, question string, reviews []types.Review) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}

	data, err := ReviewsCSV(reviews)
	if err != nil {
		return "", err
	}

	prompt, err := BuildChatPrompt(question, data)
	if err != nil {
		return "", err
	}

	answer, err := c.client.Generate(ctx, ReviewChatInstruction, prompt)
	if err != nil {
		return "", fmt.Errorf("review chat failed: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// Close releases the underlying client.
func (c *ReviewChat) Close() error {
	return c.client.Close()
}
