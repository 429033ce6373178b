package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jrobz00/Joseph1/internal/application"
	"github.com/jrobz00/Joseph1/internal/contracts"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req contracts.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	// Confirm-password equality is a purely local check: on mismatch the
	// registration service is never invoked.
	if req.Password != req.ConfirmPassword {
		writeError(w, http.StatusBadRequest, "PASSWORD_MISMATCH", "passwords do not match", requestIDFromContext(r.Context()))
		return
	}
	resp, err := h.service.Register(r.Context(), application.RegisterInput{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	})
	if err != nil {
		status, code, message := mapDomainError(err)
		writeError(w, status, code, message, requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusCreated, contracts.RegisterResponse{
		UserID:  resp.UserID.String(),
		Email:   resp.Email,
		Message: "Registration successful! Please log in.",
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req contracts.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	resp, err := h.service.Login(r.Context(), application.LoginInput{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	})
	if err != nil {
		status, code, message := mapDomainError(err)
		writeError(w, status, code, message, requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, contracts.LoginResponse{
		Token:     resp.Token,
		UserID:    resp.UserID.String(),
		Email:     resp.Email,
		Name:      resp.Name,
		ExpiresAt: resp.ExpiresAt,
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	token, err := bearerTokenFromHeader(r.Header.Get("Authorization"))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token", requestIDFromContext(r.Context()))
		return
	}
	if err := h.service.Logout(r.Context(), token); err != nil {
		status, code, message := mapDomainError(err)
		writeError(w, status, code, message, requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"logged_out": true})
}

// session echoes the authenticated identity so the dashboard can render the
// signed-in user without re-parsing the token client-side.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	writeSuccess(w, http.StatusOK, map[string]any{
		"user_id":    actor.UserID.String(),
		"email":      actor.Email,
		"session_id": actor.SessionID.String(),
	})
}
