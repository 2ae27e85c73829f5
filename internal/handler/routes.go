package handler

import "net/http"

// Routes groups the handlers mounted by RegisterRoutes. Debug may be nil.
type Routes struct {
	Sessions  *SessionHandler
	Questions *QuestionHandler
	Debug     *DebugHandler

	// RequireSession wraps routes that act on the current session.
	RequireSession func(http.Handler) http.Handler
}

// RegisterRoutes mounts the API on mux (Go 1.22+ method patterns).
func RegisterRoutes(mux *http.ServeMux, rt Routes) {
	withSession := func(h http.HandlerFunc) http.Handler {
		return rt.RequireSession(h)
	}

	mux.HandleFunc("GET /health", HealthCheck)

	mux.HandleFunc("POST /api/sessions", rt.Sessions.Login)
	mux.Handle("GET /api/sessions/current", withSession(rt.Sessions.Current))
	mux.Handle("DELETE /api/sessions/current", withSession(rt.Sessions.Logout))
	mux.Handle("POST /api/sessions/current/questions", withSession(rt.Questions.Submit))

	if rt.Debug != nil {
		mux.Handle("GET /api/sessions/current/snapshots", withSession(rt.Debug.Snapshots))
	}
}
