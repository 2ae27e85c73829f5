package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"studyultra/internal/domain"
	"studyultra/internal/httputil"
)

// User-facing messages.
const (
	InvalidTokenMessage     = "Token inválido, tente novamente."
	SessionExpiredMessage   = "Sessão expirada, faça login novamente."
	CompletionFailedMessage = "Não foi possível obter uma resposta agora, tente novamente."
	StoreUnavailableMessage = "Não foi possível salvar o histórico agora, tente novamente."
	InternalErrorMessage    = "internal server error"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var (
		completionErr *domain.CompletionError
		storeErr      *domain.StoreError
		tooLarge      *http.MaxBytesError
	)

	switch {
	case errors.Is(err, domain.ErrInvalidToken):
		httputil.RespondError(w, http.StatusUnauthorized, InvalidTokenMessage)
	case errors.Is(err, domain.ErrSessionNotFound):
		httputil.RespondError(w, http.StatusUnauthorized, SessionExpiredMessage)
	case errors.As(err, &tooLarge):
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &completionErr):
		logger.Error("completion failed", zap.String("provider", completionErr.Provider), zap.Error(err))
		httputil.RespondErrorWithExtras(w, completionErr.StatusCode(), CompletionFailedMessage,
			map[string]interface{}{"kind": completionErr.Kind()})
	case errors.As(err, &storeErr):
		logger.Error("history store failed",
			zap.String("op", storeErr.Op),
			zap.String("backend", storeErr.Backend),
			zap.Error(err))
		httputil.RespondErrorWithExtras(w, storeErr.StatusCode(), StoreUnavailableMessage,
			map[string]interface{}{"kind": storeErr.Kind()})
	default:
		logger.Error("unhandled error", zap.Error(err))
		httputil.RespondError(w, http.StatusInternalServerError, InternalErrorMessage)
	}
}
