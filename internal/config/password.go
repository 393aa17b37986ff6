package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores input past this many bytes.
const maxBcryptInput = 72

// ErrPasswordTooLong is returned when password plus pepper exceeds what bcrypt hashes.
var ErrPasswordTooLong = errors.New("password too long")

// PasswordConfig hashes and checks account passwords.
type PasswordConfig struct {
	BcryptCost int
	Pepper     string // optional server-wide secret appended before hashing
}

// NewPasswordConfig reads BCRYPT_COST (default 12, range 10-14) and PASSWORD_PEPPER.
func NewPasswordConfig() (*PasswordConfig, error) {
	cost := 12
	if raw := os.Getenv("BCRYPT_COST"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid BCRYPT_COST: %v", err)
		}
		cost = n
	}

	cfg := &PasswordConfig{BcryptCost: cost, Pepper: os.Getenv("PASSWORD_PEPPER")}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *PasswordConfig) normalize() error {
	if c.BcryptCost < 10 || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", c.BcryptCost)
	}
	return nil
}

func (c *PasswordConfig) peppered(pw string) []byte {
	return []byte(pw + c.Pepper)
}

// HashPassword returns the bcrypt hash of pw with the pepper applied.
func (c *PasswordConfig) HashPassword(pw string) (string, error) {
	input := c.peppered(pw)
	if len(input) > maxBcryptInput {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword(input, c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether pw matches storedHash.
func (c *PasswordConfig) VerifyPassword(pw, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), c.peppered(pw)) == nil
}
