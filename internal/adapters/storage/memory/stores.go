package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrobz00/Joseph1/internal/domain"
	"github.com/jrobz00/Joseph1/internal/ports"
)

// TicketStore is the in-memory string KV used for tests and the zero-config
// dev runtime.
type TicketStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewTicketStore() *TicketStore {
	return &TicketStore{entries: map[string]string{}}
}

func (s *TicketStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.entries[key]
	return value, ok, nil
}

func (s *TicketStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

type UserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byEmail: map[string]domain.User{}}
}

func (r *UserRepository) Create(_ context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[user.Email]; ok {
		return domain.User{}, domain.ErrConflict
	}
	if user.UserID == uuid.Nil {
		user.UserID = uuid.New()
	}
	r.byEmail[user.Email] = user
	return user, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

type SessionRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]domain.Session
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{records: map[uuid.UUID]domain.Session{}}
}

func (r *SessionRepository) Create(_ context.Context, params ports.SessionCreateParams) (domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session := domain.Session{
		SessionID: uuid.New(),
		UserID:    params.UserID,
		Email:     params.Email,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: params.ExpiresAt,
	}
	r.records[session.SessionID] = session
	return session, nil
}

func (r *SessionRepository) GetByID(_ context.Context, sessionID uuid.UUID) (domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.records[sessionID]
	if !ok {
		return domain.Session{}, domain.ErrNotFound
	}
	return session, nil
}

func (r *SessionRepository) RevokeByID(_ context.Context, sessionID uuid.UUID, revokedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.records[sessionID]
	if !ok {
		return domain.ErrNotFound
	}
	if session.RevokedAt == nil {
		t := revokedAt.UTC()
		session.RevokedAt = &t
		r.records[sessionID] = session
	}
	return nil
}
