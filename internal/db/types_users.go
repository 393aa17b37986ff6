package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/review-portal/internal/types"
)

// User represents a stored account
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize to JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Public strips the password hash for API responses.
func (u *User) Public() *types.User {
	if u == nil {
		return nil
	}
	return &types.User{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt}
}
