package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string        { return e.Message }
func (e *ValidationError) StatusCode() int      { return http.StatusBadRequest }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Sentinel errors - use with errors.Is()
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken is the single failure every identity verifier returns.
	// Callers never learn which check rejected the token.
	ErrInvalidToken = fmt.Errorf("%w: invalid identity token", ErrUnauthorized)

	// ErrSessionNotFound is returned for unknown or expired sessions.
	ErrSessionNotFound = fmt.Errorf("%w: session not found", ErrUnauthorized)
)

// ErrorKind classifies failures of external collaborators.
type ErrorKind string

const (
	KindCompletion ErrorKind = "completion"
	KindStore      ErrorKind = "store"
)

// CompletionError wraps a failed chat-completion call.
type CompletionError struct {
	Provider string
	Err      error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion (%s): %v", e.Provider, e.Err)
}

func (e *CompletionError) Unwrap() error   { return e.Err }
func (e *CompletionError) StatusCode() int { return http.StatusBadGateway }
func (e *CompletionError) Kind() ErrorKind { return KindCompletion }

// StoreError wraps a failed history store operation.
type StoreError struct {
	Op      string // "append" or "load"
	Backend string
	Err     error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s (%s): %v", e.Op, e.Backend, e.Err)
}

func (e *StoreError) Unwrap() error   { return e.Err }
func (e *StoreError) StatusCode() int { return http.StatusServiceUnavailable }
func (e *StoreError) Kind() ErrorKind { return KindStore }

// NewValidationError builds a ValidationError that matches ErrValidation.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
