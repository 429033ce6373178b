package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the portal account record. Email doubles as the ticket owner
// identity, so it is unique and normalized at registration time.
type User struct {
	UserID       uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session models one login issued to a portal user. Sessions are persisted
// separately from tokens so logout can revoke them server-side.
type Session struct {
	SessionID uuid.UUID
	UserID    uuid.UUID
	Email     string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

func (s Session) IsRevoked() bool { return s.RevokedAt != nil }

func (s Session) IsExpired(now time.Time) bool { return !now.Before(s.ExpiresAt) }

// Active reports whether the session can still gate dashboard access.
func (s Session) Active(now time.Time) bool {
	return !s.IsRevoked() && !s.IsExpired(now)
}
