package handler

import (
	"net/http"

	"go.uber.org/zap"

	"studyultra/internal/domain"
	"studyultra/internal/domain/services"
	"studyultra/internal/httputil"
)

// DebugHandler exposes raw stored data. Only registered when DEBUG is on.
type DebugHandler struct {
	tutor  services.TutorService
	logger *zap.Logger
}

// NewDebugHandler creates a new debug handler
func NewDebugHandler(tutor services.TutorService, logger *zap.Logger) *DebugHandler {
	return &DebugHandler{tutor: tutor, logger: logger}
}

// Snapshots lists every stored snapshot of the session's user.
// GET /api/sessions/current/snapshots
func (h *DebugHandler) Snapshots(w http.ResponseWriter, r *http.Request) {
	sess := httputil.GetSession(r)
	if sess == nil {
		handleError(w, h.logger, domain.ErrSessionNotFound)
		return
	}

	snapshots, err := h.tutor.Snapshots(r.Context(), sess)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":   sess.Identity.Subject,
		"count":     len(snapshots),
		"snapshots": snapshots,
	})
}
