package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxEmailLength = 254
	maxNameLength  = 100
)

// ValidateEmail accepts a bare address as returned by an OAuth provider.
// Display-name forms like "Ada <ada@uni.edu>" are rejected.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email address is required")
	}
	if len(email) > maxEmailLength {
		return fmt.Errorf("email address is too long (max %d characters)", maxEmailLength)
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email address format")
	}
	return nil
}

// ValidateName checks a person or college name. College names decide
// private visibility, so control characters are refused outright.
func ValidateName(field, name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%s is required", field)
	}
	if utf8.RuneCountInString(trimmed) > maxNameLength {
		return fmt.Errorf("%s is too long (max %d characters)", field, maxNameLength)
	}
	if strings.IndexFunc(trimmed, unicode.IsControl) >= 0 {
		return fmt.Errorf("%s contains invalid characters", field)
	}
	return nil
}
