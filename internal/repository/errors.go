package repository

import (
	"errors"
	"strings"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrDuplicateEmail   = errors.New("email already exists")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrResourceNotFound = errors.New("resource not found")
	ErrReviewNotFound   = errors.New("review not found")
)

// isUniqueViolation reports a unique constraint failure (works for both
// SQLite and PostgreSQL).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}
