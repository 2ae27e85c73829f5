package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/idtoken"

	"studyultra/internal/domain"
	"studyultra/internal/domain/models"
)

const (
	testKID      = "test-key"
	testAudience = "client-123.apps.googleusercontent.com"
)

type testSigner struct {
	key      *rsa.PrivateKey
	verifier *JWKSVerifier
}

func newTestSigner(t *testing.T) *testSigner {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	b64 := base64.RawURLEncoding
	jwks := map[string]any{
		"keys": []map[string]any{{
			"kty": "RSA",
			"kid": testKID,
			"alg": "RS256",
			"use": "sig",
			"n":   b64.EncodeToString(key.PublicKey.N.Bytes()),
			"e":   b64.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
		}},
	}
	raw, err := json.Marshal(jwks)
	require.NoError(t, err)

	kf, err := keyfunc.NewJWKSetJSON(raw)
	require.NoError(t, err)

	v, err := NewJWKSVerifierFromKeyfunc(kf, testAudience,
		[]string{"accounts.google.com", "https://accounts.google.com"}, zap.NewNop())
	require.NoError(t, err)

	return &testSigner{key: key, verifier: v}
}

func (s *testSigner) sign(t *testing.T, claims *models.GoogleClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKID
	signed, err := token.SignedString(s.key)
	require.NoError(t, err)
	return signed
}

func validClaims() *models.GoogleClaims {
	now := time.Now()
	return &models.GoogleClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://accounts.google.com",
			Subject:   "1098765",
			Audience:  jwt.ClaimStrings{testAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Email:         "ana@example.com",
		EmailVerified: true,
		Name:          "Ana",
	}
}

func TestJWKSVerifier_Valid(t *testing.T) {
	s := newTestSigner(t)

	identity, err := s.verifier.Verify(context.Background(), s.sign(t, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, &models.Identity{Subject: "1098765", Email: "ana@example.com", Name: "Ana"}, identity)
}

func TestJWKSVerifier_Rejections(t *testing.T) {
	s := newTestSigner(t)

	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token func() string
	}{
		{name: "empty", token: func() string { return "" }},
		{name: "garbage", token: func() string { return "not.a.jwt" }},
		{
			name: "expired",
			token: func() string {
				c := validClaims()
				c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
				return s.sign(t, c)
			},
		},
		{
			name: "no expiry",
			token: func() string {
				c := validClaims()
				c.ExpiresAt = nil
				return s.sign(t, c)
			},
		},
		{
			name: "wrong audience",
			token: func() string {
				c := validClaims()
				c.Audience = jwt.ClaimStrings{"someone-else"}
				return s.sign(t, c)
			},
		},
		{
			name: "wrong issuer",
			token: func() string {
				c := validClaims()
				c.Issuer = "https://evil.example.com"
				return s.sign(t, c)
			},
		},
		{
			name: "missing name",
			token: func() string {
				c := validClaims()
				c.Name = ""
				return s.sign(t, c)
			},
		},
		{
			name: "missing email",
			token: func() string {
				c := validClaims()
				c.Email = ""
				return s.sign(t, c)
			},
		},
		{
			name: "signed by unknown key",
			token: func() string {
				token := jwt.NewWithClaims(jwt.SigningMethodRS256, validClaims())
				token.Header["kid"] = testKID
				signed, err := token.SignedString(otherKey)
				require.NoError(t, err)
				return signed
			},
		},
		{
			name: "hmac algorithm",
			token: func() string {
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims())
				token.Header["kid"] = testKID
				signed, err := token.SignedString([]byte("secret"))
				require.NoError(t, err)
				return signed
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := s.verifier.Verify(context.Background(), tt.token())
			assert.Nil(t, identity)
			assert.True(t, errors.Is(err, domain.ErrInvalidToken), "got %v", err)
			assert.True(t, errors.Is(err, domain.ErrUnauthorized))
		})
	}
}

func TestNewJWKSVerifier_RequiresAudience(t *testing.T) {
	_, err := NewJWKSVerifierFromKeyfunc(nil, "", nil, zap.NewNop())
	assert.Error(t, err)

	_, err = NewJWKSVerifier(context.Background(), "", testAudience, nil, zap.NewNop())
	assert.Error(t, err)
}

func TestIdentityFromPayload(t *testing.T) {
	p := &idtoken.Payload{
		Subject: "42",
		Claims: map[string]interface{}{
			"email":          "rui@example.com",
			"name":           "Rui",
			"email_verified": true,
		},
	}

	identity := identityFromPayload(p)
	assert.Equal(t, "42", identity.Subject)
	assert.Equal(t, "rui@example.com", identity.Email)
	assert.Equal(t, "Rui", identity.Name)
	assert.True(t, identity.Complete())

	p.Claims["name"] = 7
	assert.False(t, identityFromPayload(p).Complete())
}
