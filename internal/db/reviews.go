package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/review-portal/internal/types"
)

const reviewSelect = `SELECT r.id, r.title, r.company, r.location, r.department, r.description,
		r.hourly_pay, r.benefits, r.body, r.rating, r.recommendation,
		r.author_id, u.username, r.upvotes, r.created_at
	FROM reviews r JOIN users u ON u.id = r.author_id`

// filterColumns whitelists the columns that can be listed as filter options.
var filterColumns = map[string]bool{
	"department": true,
	"company":    true,
	"location":   true,
}

func scanReview(row pgx.Row) (*types.Review, error) {
	var r types.Review
	err := row.Scan(&r.ID, &r.Title, &r.Company, &r.Location, &r.Department, &r.Description,
		&r.HourlyPay, &r.Benefits, &r.Body, &r.Rating, &r.Recommendation,
		&r.AuthorID, &r.Author, &r.Upvotes, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func collectReviews(rows pgx.Rows) ([]types.Review, error) {
	defer rows.Close()

	reviews := []types.Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reviews: %w", err)
	}
	return reviews, nil
}

// CreateReview stores a review by authorID. A second review of the same job by the
// same author yields ErrDuplicate.
func (db *DB) CreateReview(ctx context.Context, authorID uuid.UUID, req *types.CreateReviewRequest) (*types.Review, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO reviews (title, company, location, department, description, hourly_pay,
			benefits, body, rating, recommendation, author_id, job_key)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id`,
		strings.TrimSpace(req.Title), strings.TrimSpace(req.Company), strings.TrimSpace(req.Location),
		strings.TrimSpace(req.Department), req.Description, req.HourlyPay,
		req.Benefits, req.Body, req.Rating, req.Recommendation, authorID,
		types.JobKey(req.Title, req.Company, req.Location),
	).Scan(&id)
	if err != nil {
		switch pgErrorCode(err) {
		case uniqueViolation:
			return nil, ErrDuplicate
		case foreignKeyViolation:
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return db.GetReview(ctx, id)
}

// GetReview retrieves a review by ID. Returns nil, nil when absent.
func (db *DB) GetReview(ctx context.Context, id uuid.UUID) (*types.Review, error) {
	r, err := scanReview(db.pool.QueryRow(ctx, reviewSelect+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return r, nil
}

// buildReviewFilter renders the WHERE clause for a review filter, starting at
// placeholder $1. Values within a field are OR-ed, fields are AND-ed.
func buildReviewFilter(f types.ReviewFilter) (string, []any) {
	clause := " WHERE 1=1"
	args := []any{}
	argNum := 1

	if s := strings.TrimSpace(f.Search); s != "" {
		clause += fmt.Sprintf(" AND r.title ILIKE $%d", argNum)
		args = append(args, "%"+escapeLike(s)+"%")
		argNum++
	}
	for _, in := range []struct {
		column string
		values []string
	}{
		{"r.department", f.Departments},
		{"r.company", f.Companies},
		{"r.location", f.Locations},
	} {
		values := nonEmpty(in.values)
		if len(values) == 0 {
			continue
		}
		clause += fmt.Sprintf(" AND %s = ANY($%d)", in.column, argNum)
		args = append(args, values)
		argNum++
	}
	return clause, args
}

// escapeLike escapes ILIKE wildcards so the search matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ListReviews returns one page of reviews matching the filter, newest first,
// together with the total number of matches.
func (db *DB) ListReviews(ctx context.Context, f types.ReviewFilter) ([]types.Review, int, error) {
	where, args := buildReviewFilter(f)

	var total int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews r`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	query := reviewSelect + where +
		fmt.Sprintf(" ORDER BY r.created_at DESC, r.id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, f.PerPage, f.Offset())

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	reviews, err := collectReviews(rows)
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// ListAllReviews returns every review in creation order.
func (db *DB) ListAllReviews(ctx context.Context) ([]types.Review, error) {
	rows, err := db.pool.Query(ctx, reviewSelect+` ORDER BY r.created_at, r.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list all reviews: %w", err)
	}
	return collectReviews(rows)
}

// ListReviewsByAuthor returns a user's reviews, newest first.
func (db *DB) ListReviewsByAuthor(ctx context.Context, authorID uuid.UUID) ([]types.Review, error) {
	rows, err := db.pool.Query(ctx, reviewSelect+` WHERE r.author_id = $1 ORDER BY r.created_at DESC`, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews by author: %w", err)
	}
	return collectReviews(rows)
}

// DeleteReview removes a review. Returns ErrNotFound when no row matched.
func (db *DB) DeleteReview(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustVotes adds delta to a review's vote count and returns the new count.
func (db *DB) AdjustVotes(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	var upvotes int
	err := db.pool.QueryRow(ctx,
		`UPDATE reviews SET upvotes = upvotes + $1 WHERE id = $2 RETURNING upvotes`,
		delta, id,
	).Scan(&upvotes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to adjust votes: %w", err)
	}
	return upvotes, nil
}

// DistinctValues lists the sorted distinct values of a filterable review column.
func (db *DB) DistinctValues(ctx context.Context, column string) ([]string, error) {
	if !filterColumns[column] {
		return nil, fmt.Errorf("column %q is not filterable", column)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT DISTINCT `+column+` FROM reviews WHERE `+column+` <> '' ORDER BY `+column)
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct %s: %w", column, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", column, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// FilterOptions lists the distinct departments, companies and locations.
func (db *DB) FilterOptions(ctx context.Context) (*types.FilterOptions, error) {
	var opts types.FilterOptions
	var err error
	if opts.Departments, err = db.DistinctValues(ctx, "department"); err != nil {
		return nil, err
	}
	if opts.Companies, err = db.DistinctValues(ctx, "company"); err != nil {
		return nil, err
	}
	if opts.Locations, err = db.DistinctValues(ctx, "location"); err != nil {
		return nil, err
	}
	return &opts, nil
}
