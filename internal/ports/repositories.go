package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jrobz00/Joseph1/internal/domain"
)

// TicketStore is string-keyed, string-valued durable storage for serialized
// ticket collections, one entry per owner. It matches the persistence
// contract the portal has always had: whole collection per key, last writer
// wins, no atomicity or versioning.
type TicketStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// UserRepository defines persistence for portal accounts.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}

// SessionCreateParams captures what the auth service records per login.
type SessionCreateParams struct {
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
}

// SessionRepository manages session lifecycle. It is separate from token
// parsing so logout stays source-of-truth driven rather than waiting for
// token expiry.
type SessionRepository interface {
	Create(ctx context.Context, params SessionCreateParams) (domain.Session, error)
	GetByID(ctx context.Context, sessionID uuid.UUID) (domain.Session, error)
	RevokeByID(ctx context.Context, sessionID uuid.UUID, revokedAt time.Time) error
}
