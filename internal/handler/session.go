package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"studyultra/internal/auth"
	"studyultra/internal/domain"
	"studyultra/internal/domain/models"
	"studyultra/internal/domain/services"
	"studyultra/internal/httputil"
)

// LoginRequest carries the Google ID token obtained by the frontend.
type LoginRequest struct {
	Token string `json:"token"`
}

// SessionResponse is returned at login and by GET /api/sessions/current.
type SessionResponse struct {
	SessionID  string             `json:"session_id"`
	Email      string             `json:"email"`
	Name       string             `json:"name"`
	Welcome    string             `json:"welcome"`
	LoggedInAs string             `json:"logged_in_as"`
	CreatedAt  time.Time          `json:"created_at"`
	History    models.ChatHistory `json:"history"`
}

// WelcomeMessage greets a freshly logged-in user.
func WelcomeMessage(name string) string {
	return fmt.Sprintf("Bem vindo, %s!", name)
}

// LoggedInAsMessage shows which account is active.
func LoggedInAsMessage(email string) string {
	return fmt.Sprintf("Logado como: %s", email)
}

// SessionHandler handles login, logout and session lookup.
type SessionHandler struct {
	verifier auth.Verifier
	tutor    services.TutorService
	logger   *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(verifier auth.Verifier, tutor services.TutorService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		verifier: verifier,
		tutor:    tutor,
		logger:   logger,
	}
}

// Login verifies the ID token and starts a session seeded with the user's
// stored history.
// POST /api/sessions
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, err)
		return
	}

	token := strings.TrimSpace(req.Token)
	if token == "" {
		handleError(w, h.logger, domain.ErrInvalidToken)
		return
	}

	identity, err := h.verifier.Verify(r.Context(), token)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	sess, err := h.tutor.StartSession(r.Context(), identity)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, h.sessionResponse(sess))
}

// Current returns the logged-in identity and live history.
// GET /api/sessions/current
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	sess := httputil.GetSession(r)
	if sess == nil {
		handleError(w, h.logger, domain.ErrSessionNotFound)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, h.sessionResponse(sess))
}

// Logout discards the session. Stored history is kept.
// DELETE /api/sessions/current
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := httputil.GetSession(r)
	if sess == nil {
		handleError(w, h.logger, domain.ErrSessionNotFound)
		return
	}
	h.tutor.EndSession(sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) sessionResponse(sess *models.Session) SessionResponse {
	return SessionResponse{
		SessionID:  sess.ID,
		Email:      sess.Identity.Email,
		Name:       sess.Identity.Name,
		Welcome:    WelcomeMessage(sess.Identity.Name),
		LoggedInAs: LoggedInAsMessage(sess.Identity.Email),
		CreatedAt:  sess.CreatedAt,
		History:    h.tutor.History(sess),
	}
}
