package auth

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"studyultra/internal/config"
)

// NewVerifier builds the verifier selected by AUTH_VERIFIER.
func NewVerifier(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Verifier, error) {
	switch cfg.AuthVerifier {
	case config.VerifierJWKS, "":
		return NewJWKSVerifier(ctx, cfg.AuthJWKSURL, cfg.GoogleClientID, cfg.AuthIssuers, logger)
	case config.VerifierIDToken:
		return NewIDTokenVerifier(ctx, cfg.GoogleClientID, logger)
	default:
		return nil, fmt.Errorf("unsupported identity verifier: %s", cfg.AuthVerifier)
	}
}
