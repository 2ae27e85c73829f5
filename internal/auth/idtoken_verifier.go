package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"

	"studyultra/internal/domain"
	"studyultra/internal/domain/models"
)

// IDTokenVerifier validates Google ID tokens with Google's own idtoken
// package, which handles key rotation and issuer checks internally.
type IDTokenVerifier struct {
	validator *idtoken.Validator
	audience  string
	logger    *zap.Logger
}

// NewIDTokenVerifier creates a verifier for tokens issued to audience.
func NewIDTokenVerifier(ctx context.Context, audience string, logger *zap.Logger, opts ...option.ClientOption) (*IDTokenVerifier, error) {
	if audience == "" {
		return nil, errors.New("audience (client ID) cannot be empty")
	}
	validator, err := idtoken.NewValidator(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create idtoken validator: %w", err)
	}
	logger.Info("idtoken verifier initialized")
	return &IDTokenVerifier{validator: validator, audience: audience, logger: logger}, nil
}

// Verify implements Verifier.
func (v *IDTokenVerifier) Verify(ctx context.Context, token string) (*models.Identity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domain.ErrInvalidToken
	}

	payload, err := v.validator.Validate(ctx, token, v.audience)
	if err != nil {
		v.logger.Debug("token rejected", zap.Error(err))
		return nil, domain.ErrInvalidToken
	}

	identity := identityFromPayload(payload)
	if !identity.Complete() {
		v.logger.Debug("token missing identity claims", zap.String("sub", payload.Subject))
		return nil, domain.ErrInvalidToken
	}
	return identity, nil
}

// Close implements Verifier.
func (v *IDTokenVerifier) Close() error {
	return nil
}

func identityFromPayload(p *idtoken.Payload) *models.Identity {
	str := func(key string) string {
		s, _ := p.Claims[key].(string)
		return s
	}
	return &models.Identity{
		Subject: p.Subject,
		Email:   str("email"),
		Name:    str("name"),
	}
}
