package auth

import (
	"context"

	"studyultra/internal/domain/models"
)

// Verifier checks an identity token and returns who it belongs to.
// Implementations keep the middleware and handlers agnostic to how tokens
// are validated.
type Verifier interface {
	// Verify validates the token signature, expiry and audience and
	// returns the identity it asserts. Every failure is reported as
	// domain.ErrInvalidToken; the underlying reason is only logged.
	Verify(ctx context.Context, token string) (*models.Identity, error)

	// Close releases any resources held by the verifier (e.g., HTTP connections for JWKS).
	Close() error
}
