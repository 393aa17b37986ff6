package types

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Review is a job review submitted by a user.
type Review struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Company        string    `json:"company"`
	Location       string    `json:"location"`
	Department     string    `json:"department"`
	Description    string    `json:"description"`
	HourlyPay      float64   `json:"hourly_pay"`
	Benefits       string    `json:"benefits"`
	Body           string    `json:"review"`
	Rating         int       `json:"rating"`
	Recommendation int       `json:"recommendation"`
	AuthorID       uuid.UUID `json:"author_id"`
	Author         string    `json:"author"`
	Upvotes        int       `json:"upvotes"`
	CreatedAt      time.Time `json:"created_at"`
}

// JobKey identifies the reviewed job independent of the author.
func (r *Review) JobKey() string {
	return JobKey(r.Title, r.Company, r.Location)
}

// JobKey builds the case-insensitive title|company|location key.
func JobKey(title, company, location string) string {
	return strings.ToLower(strings.TrimSpace(title)) + "|" +
		strings.ToLower(strings.TrimSpace(company)) + "|" +
		strings.ToLower(strings.TrimSpace(location))
}

// CreateReviewRequest is the body of POST /reviews.
type CreateReviewRequest struct {
	Title          string  `json:"title" validate:"required,max=64"`
	Company        string  `json:"company" validate:"required,max=120"`
	Location       string  `json:"location" validate:"required,max=120"`
	Department     string  `json:"department" validate:"required,max=64"`
	Description    string  `json:"description" validate:"required,max=2000"`
	HourlyPay      float64 `json:"hourly_pay" validate:"gte=0,lte=1000"`
	Benefits       string  `json:"benefits" validate:"required,max=500"`
	Body           string  `json:"review" validate:"required,max=4000"`
	Rating         int     `json:"rating" validate:"required,min=1,max=5"`
	Recommendation int     `json:"recommendation" validate:"min=0,max=10"`
}

// Validate validates the CreateReviewRequest using the validator.
func (r *CreateReviewRequest) Validate() error {
	return validator.New().Struct(r)
}

// ReviewFilter selects a page of reviews.
// Values within one field are OR-ed, fields are AND-ed.
type ReviewFilter struct {
	Search      string
	Departments []string
	Companies   []string
	Locations   []string
	Page        int
	PerPage     int
}

// Offset returns the row offset of the filter's page.
func (f ReviewFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PerPage
}

// FilterOptions lists the distinct values available for each filter field.
type FilterOptions struct {
	Departments []string `json:"departments"`
	Companies   []string `json:"companies"`
	Locations   []string `json:"locations"`
}

// ReviewPage is one page of a filtered review listing.
type ReviewPage struct {
	Reviews    []Review `json:"reviews"`
	Page       int      `json:"page"`
	PerPage    int      `json:"per_page"`
	Total      int      `json:"total"`
	TotalPages int      `json:"total_pages"`
}

// ReviewGroup collects the reviews of one job.
type ReviewGroup struct {
	Title      string            `json:"title"`
	Company    string            `json:"company"`
	Location   string            `json:"location"`
	Department string            `json:"department"`
	Reviews    []ReviewAttribute `json:"other_attributes"`
}

// ReviewAttribute holds the per-review fields of a grouped job.
type ReviewAttribute struct {
	ID             uuid.UUID `json:"id"`
	Description    string    `json:"description"`
	HourlyPay      float64   `json:"hourly_pay"`
	Benefits       string    `json:"benefits"`
	Body           string    `json:"review"`
	Rating         int       `json:"rating"`
	Recommendation int       `json:"recommendation"`
	Author         string    `json:"author"`
	Upvotes        int       `json:"upvotes"`
}

// VoteResponse reports a review's vote count after an up/down vote.
type VoteResponse struct {
	ID      uuid.UUID `json:"id"`
	Upvotes int       `json:"upvotes"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Question string `json:"question" validate:"required,max=2000"`
}

// ChatResponse carries the model's answer.
type ChatResponse struct {
	Answer string `json:"answer"`
}
