// Package auth implements OAuth login for the session API: a browser-based
// alternative to provisioning a static bearer token for httpapi.AuthMiddleware.
// A successful OAuth round trip with a registered identity provider mints the
// same HS256 bearer JWT the middleware validates, keyed off the identical
// shared secret (spec §6 auth.jwt_secret) — operators can authenticate with
// Google or GitHub instead of copying a token out of the config file.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrDisabled is returned when no JWT secret is configured.
	ErrDisabled = errors.New("auth: oauth login disabled (no jwt secret configured)")
	// ErrInvalidToken is returned when a token fails validation.
	ErrInvalidToken = errors.New("auth: invalid token")
)

// Claims mirrors httpapi.Claims so tokens minted here are accepted by
// AuthMiddleware without either package depending on the other.
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// jwtIssuer signs and verifies the bearer tokens issued after OAuth login.
type jwtIssuer struct {
	secret []byte
	expiry time.Duration
}

func newJWTIssuer(secret string, expiry time.Duration) *jwtIssuer {
	return &jwtIssuer{secret: []byte(secret), expiry: expiry}
}

// generate issues a signed token for the given OAuth identity.
func (j *jwtIssuer) generate(subject, email, name string) (string, error) {
	if j == nil || len(j.secret) == 0 {
		return "", ErrDisabled
	}
	if strings.TrimSpace(subject) == "" {
		return "", errors.New("auth: subject required")
	}

	claims := Claims{
		Email: strings.TrimSpace(email),
		Name:  strings.TrimSpace(name),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  subject,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	if j.expiry > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(j.expiry))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

// validate parses and validates a token minted by generate.
func (j *jwtIssuer) validate(token string) (*Claims, error) {
	if j == nil || len(j.secret) == 0 {
		return nil, ErrDisabled
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
