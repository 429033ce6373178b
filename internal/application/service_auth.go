package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jrobz00/Joseph1/internal/domain"
	"github.com/jrobz00/Joseph1/internal/ports"
)

// Register creates a portal account. Duplicate emails surface as
// ErrConflict so the auth screen can show the provider-style message
// verbatim.
func (s *Service) Register(ctx context.Context, input RegisterInput) (RegisterResponse, error) {
	email, err := domain.NormalizeEmail(input.Email)
	if err != nil {
		return RegisterResponse{}, err
	}
	if err := domain.ValidatePassword(input.Password); err != nil {
		return RegisterResponse{}, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return RegisterResponse{}, fmt.Errorf("%w: email already registered", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return RegisterResponse{}, err
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return RegisterResponse{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.nowFn()
	user, err := s.users.Create(ctx, domain.User{
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return RegisterResponse{}, err
	}

	slog.Default().InfoContext(ctx, "account registered",
		"operation", "register",
		"outcome", "success",
		"user_id", user.UserID.String(),
	)
	return RegisterResponse{UserID: user.UserID, Email: user.Email}, nil
}

// Login validates credentials and issues a session-backed token. Failures
// are indistinguishable between unknown email and wrong password.
func (s *Service) Login(ctx context.Context, input LoginInput) (LoginResponse, error) {
	email, err := domain.NormalizeEmail(input.Email)
	if err != nil {
		return LoginResponse{}, domain.ErrInvalidCredentials
	}
	if input.Password == "" {
		return LoginResponse{}, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return LoginResponse{}, domain.ErrInvalidCredentials
		}
		return LoginResponse{}, err
	}
	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		slog.Default().WarnContext(ctx, "login rejected",
			"operation", "login",
			"outcome", "failure",
			"user_id", user.UserID.String(),
		)
		return LoginResponse{}, domain.ErrInvalidCredentials
	}

	now := s.nowFn()
	session, err := s.sessions.Create(ctx, ports.SessionCreateParams{
		UserID:    user.UserID,
		Email:     user.Email,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	})
	if err != nil {
		return LoginResponse{}, err
	}

	token, err := s.signer.Sign(ports.AuthClaims{
		UserID:    user.UserID,
		Email:     user.Email,
		SessionID: session.SessionID,
		IssuedAt:  now,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return LoginResponse{}, fmt.Errorf("sign token: %w", err)
	}

	slog.Default().InfoContext(ctx, "session issued",
		"operation", "login",
		"outcome", "success",
		"user_id", user.UserID.String(),
		"session_id", session.SessionID.String(),
	)
	return LoginResponse{
		Token:     token,
		UserID:    user.UserID,
		Email:     user.Email,
		Name:      user.Name,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Logout revokes the session behind the presented token. An already
// invalid token still logs the caller out.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.signer.ParseAndValidate(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.RevokeByID(ctx, claims.SessionID, s.nowFn()); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	slog.Default().InfoContext(ctx, "session revoked",
		"operation", "logout",
		"outcome", "success",
		"session_id", claims.SessionID.String(),
	)
	return nil
}

// Authenticate resolves a bearer token to an actor, rejecting expired or
// revoked sessions. This is the single gate in front of the dashboard.
func (s *Service) Authenticate(ctx context.Context, token string) (Actor, error) {
	if strings.TrimSpace(token) == "" {
		return Actor{}, domain.ErrUnauthorized
	}
	claims, err := s.signer.ParseAndValidate(token)
	if err != nil {
		return Actor{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	session, err := s.sessions.GetByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Actor{}, domain.ErrUnauthorized
		}
		return Actor{}, err
	}
	now := s.nowFn()
	if session.IsRevoked() {
		return Actor{}, domain.ErrSessionRevoked
	}
	if session.IsExpired(now) {
		return Actor{}, domain.ErrSessionExpired
	}
	return Actor{UserID: session.UserID, Email: session.Email, SessionID: session.SessionID}, nil
}
