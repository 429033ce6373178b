package domain

import (
	"fmt"
	"net/mail"
	"strings"
)

const minPasswordLength = 6

// ValidatePassword enforces the portal's baseline password policy. The
// minimum mirrors what the hosted identity provider we migrated from
// enforced, so existing client accounts remain valid.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	return nil
}

// NormalizeEmail lowercases and validates the address used as the account
// and ticket-owner identity.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	return email, nil
}
