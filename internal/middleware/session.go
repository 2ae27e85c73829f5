package middleware

import (
	"net/http"

	"studyultra/internal/domain/models"
	"studyultra/internal/httputil"
)

// SessionResolver looks up live sessions by ID.
type SessionResolver interface {
	Session(id string) (*models.Session, error)
}

// RequireSession resolves the X-Session-ID header and stores the session in
// the request context. Missing, unknown and expired sessions get a 401.
func RequireSession(resolver SessionResolver, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := httputil.SessionID(r)
			if id == "" {
				httputil.RespondError(w, http.StatusUnauthorized, message)
				return
			}

			sess, err := resolver.Session(id)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, message)
				return
			}

			next.ServeHTTP(w, httputil.WithSession(r, sess))
		})
	}
}
