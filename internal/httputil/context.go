package httputil

import (
	"context"
	"net/http"
	"strings"

	"studyultra/internal/domain/models"
)

// SessionHeader carries the session ID returned at login.
const SessionHeader = "X-Session-ID"

// Context key type to avoid collisions
type contextKey string

const (
	sessionKey contextKey = "session"
)

// WithSession adds the resolved session to the request context
func WithSession(r *http.Request, sess *models.Session) *http.Request {
	ctx := context.WithValue(r.Context(), sessionKey, sess)
	return r.WithContext(ctx)
}

// GetSession retrieves the session from context, returns nil if not found
func GetSession(r *http.Request) *models.Session {
	sess, _ := r.Context().Value(sessionKey).(*models.Session)
	return sess
}

// SessionID reads the session ID from the request header.
func SessionID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(SessionHeader))
}
