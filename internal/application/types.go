package application

import (
	"time"

	"github.com/google/uuid"
	"github.com/jrobz00/Joseph1/internal/ports"
)

type Config struct {
	ServiceName string
	// SessionTTL bounds both the session record and the issued token.
	SessionTTL time.Duration
	// NotifyTemplateID is the operator email template invoked on ticket
	// creation.
	NotifyTemplateID string
	// NotifyTimeout bounds the asynchronous dispatch call.
	NotifyTimeout time.Duration
}

// Actor is the authenticated identity a request runs under. The ticket
// service never sees tokens, only the resolved actor.
type Actor struct {
	UserID    uuid.UUID
	Email     string
	SessionID uuid.UUID
	RequestID string
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type RegisterResponse struct {
	UserID uuid.UUID
	Email  string
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResponse struct {
	Token     string
	UserID    uuid.UUID
	Email     string
	Name      string
	ExpiresAt time.Time
}

type CreateTicketInput struct {
	Title       string
	Description string
}

type Service struct {
	cfg Config

	users    ports.UserRepository
	sessions ports.SessionRepository
	tickets  ports.TicketStore

	hasher     ports.PasswordHasher
	signer     ports.TokenSigner
	dispatcher ports.Dispatcher

	nowFn func() time.Time
}

type Dependencies struct {
	Config Config

	Users    ports.UserRepository
	Sessions ports.SessionRepository
	Tickets  ports.TicketStore

	Hasher     ports.PasswordHasher
	Signer     ports.TokenSigner
	Dispatcher ports.Dispatcher
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "client-portal"
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = 10 * time.Second
	}
	return &Service{
		cfg:        cfg,
		users:      deps.Users,
		sessions:   deps.Sessions,
		tickets:    deps.Tickets,
		hasher:     deps.Hasher,
		signer:     deps.Signer,
		dispatcher: deps.Dispatcher,
		nowFn:      func() time.Time { return time.Now().UTC() },
	}
}
