package models

import "github.com/golang-jwt/jwt/v5"

// GoogleClaims represents the claims carried by a Google Sign-In ID token.
// See: https://developers.google.com/identity/gsi/web/guides/verify-google-id-token
type GoogleClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string `json:"email"`
	EmailVerified        bool   `json:"email_verified"`
	Name                 string `json:"name"`
	Picture              string `json:"picture"`
	HostedDomain         string `json:"hd,omitempty"`
}

// Identity converts the verified claims into the app's user identity.
func (c *GoogleClaims) Identity() *Identity {
	return &Identity{
		Subject: c.Subject,
		Email:   c.Email,
		Name:    c.Name,
	}
}

// Identity is the authenticated user. Subject is the stable key under which
// chat snapshots are stored.
type Identity struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// Complete reports whether every identity field is populated.
func (i *Identity) Complete() bool {
	return i != nil && i.Subject != "" && i.Email != "" && i.Name != ""
}
