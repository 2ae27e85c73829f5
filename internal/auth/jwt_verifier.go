package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"studyultra/internal/domain"
	"studyultra/internal/domain/models"
)

// GoogleJWKSURL serves the public keys that sign Google ID tokens.
const GoogleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

// allowedAlgorithms prevents algorithm confusion attacks.
var allowedAlgorithms = []string{"RS256", "ES256"}

// JWKSVerifier implements Verifier using a JWKS endpoint.
type JWKSVerifier struct {
	jwks     keyfunc.Keyfunc
	audience string
	issuers  []string
	leeway   time.Duration
	logger   *zap.Logger
}

// NewJWKSVerifier creates a verifier that fetches public keys from jwksURL.
// The keys are cached and refreshed based on HTTP cache headers.
// audience is the OAuth client ID the tokens must be issued for.
func NewJWKSVerifier(ctx context.Context, jwksURL, audience string, issuers []string, logger *zap.Logger) (*JWKSVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", zap.String("jwks_url", jwksURL))
	return NewJWKSVerifierFromKeyfunc(jwks, audience, issuers, logger)
}

// NewJWKSVerifierFromKeyfunc wraps an existing key source, such as one
// built with keyfunc.NewJWKSetJSON.
func NewJWKSVerifierFromKeyfunc(jwks keyfunc.Keyfunc, audience string, issuers []string, logger *zap.Logger) (*JWKSVerifier, error) {
	if audience == "" {
		return nil, errors.New("audience (client ID) cannot be empty")
	}
	return &JWKSVerifier{
		jwks:     jwks,
		audience: audience,
		issuers:  issuers,
		leeway:   30 * time.Second,
		logger:   logger,
	}, nil
}

// Verify implements Verifier.
func (v *JWKSVerifier) Verify(ctx context.Context, tokenString string) (*models.Identity, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, domain.ErrInvalidToken
	}

	claims := &models.GoogleClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.jwks.Keyfunc,
		jwt.WithValidMethods(allowedAlgorithms),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil {
		v.logger.Debug("token rejected", zap.Error(err))
		return nil, domain.ErrInvalidToken
	}
	if !token.Valid {
		v.logger.Debug("token invalid after parsing")
		return nil, domain.ErrInvalidToken
	}

	if len(v.issuers) > 0 && !slices.Contains(v.issuers, claims.Issuer) {
		v.logger.Debug("token has unexpected issuer", zap.String("issuer", claims.Issuer))
		return nil, domain.ErrInvalidToken
	}

	identity := claims.Identity()
	if !identity.Complete() {
		v.logger.Debug("token missing identity claims",
			zap.Bool("has_sub", claims.Subject != ""),
			zap.Bool("has_email", claims.Email != ""),
			zap.Bool("has_name", claims.Name != ""))
		return nil, domain.ErrInvalidToken
	}

	return identity, nil
}

// Close is a no-op: keyfunc v3 manages its own refresh goroutine, which
// ends with the context passed to NewDefaultCtx.
func (v *JWKSVerifier) Close() error {
	v.logger.Info("JWT verifier closed")
	return nil
}
