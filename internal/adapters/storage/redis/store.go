package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrobz00/Joseph1/internal/domain"
	"github.com/jrobz00/Joseph1/internal/ports"
	"github.com/redis/go-redis/v9"
)

func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	var client *redis.Client
	if strings.HasPrefix(redisURL, "redis://") {
		opt, parseErr := redis.ParseURL(redisURL)
		if parseErr != nil {
			return nil, fmt.Errorf("parse redis url: %w", parseErr)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{Addr: redisURL})
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// TicketStore keeps each owner's serialized collection under a single redis
// string key, preserving the whole-collection-per-owner persistence
// contract.
type TicketStore struct {
	client *redis.Client
}

func NewTicketStore(client *redis.Client) *TicketStore {
	return &TicketStore{client: client}
}

func (s *TicketStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, "portal:"+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *TicketStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, "portal:"+key, value, 0).Err()
}

// SessionRepository stores session records with redis-side expiry slightly
// past the session TTL so stale records clean themselves up.
type SessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client}
}

type sessionRecord struct {
	SessionID string     `json:"session_id"`
	UserID    string     `json:"user_id"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

func sessionKey(sessionID uuid.UUID) string { return "portal:session:" + sessionID.String() }

func (r *SessionRepository) Create(ctx context.Context, params ports.SessionCreateParams) (domain.Session, error) {
	session := domain.Session{
		SessionID: uuid.New(),
		UserID:    params.UserID,
		Email:     params.Email,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: params.ExpiresAt,
	}
	if err := r.write(ctx, session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID uuid.UUID) (domain.Session, error) {
	raw, err := r.client.Get(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Session{}, err
	}
	var rec sessionRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return domain.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return recordToSession(rec)
}

func (r *SessionRepository) RevokeByID(ctx context.Context, sessionID uuid.UUID, revokedAt time.Time) error {
	session, err := r.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.RevokedAt == nil {
		t := revokedAt.UTC()
		session.RevokedAt = &t
	}
	return r.write(ctx, session)
}

func (r *SessionRepository) write(ctx context.Context, session domain.Session) error {
	rec := sessionRecord{
		SessionID: session.SessionID.String(),
		UserID:    session.UserID.String(),
		Email:     session.Email,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
		RevokedAt: session.RevokedAt,
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	ttl := time.Until(session.ExpiresAt) + time.Hour
	if ttl <= 0 {
		ttl = time.Hour
	}
	return r.client.Set(ctx, sessionKey(session.SessionID), raw, ttl).Err()
}

func recordToSession(rec sessionRecord) (domain.Session, error) {
	sessionID, err := uuid.Parse(rec.SessionID)
	if err != nil {
		return domain.Session{}, fmt.Errorf("parse session_id: %w", err)
	}
	userID, err := uuid.Parse(rec.UserID)
	if err != nil {
		return domain.Session{}, fmt.Errorf("parse user_id: %w", err)
	}
	return domain.Session{
		SessionID: sessionID,
		UserID:    userID,
		Email:     rec.Email,
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
		RevokedAt: rec.RevokedAt,
	}, nil
}
