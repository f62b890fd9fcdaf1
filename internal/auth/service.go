package auth

import (
	"context"
	"fmt"
	"time"
)

// Result is the outcome of a completed OAuth login: the bearer token an
// operator's browser should store, alongside the identity it was minted
// for.
type Result struct {
	Token    string
	Provider string
	Email    string
	Name     string
}

// Service registers OAuth providers and exchanges a completed login with
// one of them for a bearer token accepted by httpapi.AuthMiddleware.
type Service struct {
	issuer    *jwtIssuer
	providers map[string]Provider
}

// NewService builds a Service that mints tokens signed with secret. An
// empty secret disables login entirely (HandleCallback returns
// ErrDisabled), matching AuthMiddleware's own local/dev bypass.
func NewService(secret string, tokenExpiry time.Duration) *Service {
	return &Service{
		issuer:    newJWTIssuer(secret, tokenExpiry),
		providers: make(map[string]Provider),
	}
}

// RegisterProvider makes a named provider available for login. Call once
// per configured identity provider (e.g. "google", "github") during
// server startup.
func (s *Service) RegisterProvider(name string, provider Provider) {
	s.providers[name] = provider
}

// Enabled reports whether login is usable at all: a secret is configured
// and at least one provider is registered.
func (s *Service) Enabled() bool {
	return s.issuer != nil && len(s.issuer.secret) > 0 && len(s.providers) > 0
}

// AuthURL returns the redirect target for starting a login with the named
// provider.
func (s *Service) AuthURL(provider, state string) (string, error) {
	p, ok := s.providers[provider]
	if !ok {
		return "", fmt.Errorf("auth: unknown provider %q", provider)
	}
	return p.AuthURL(state), nil
}

// HandleCallback exchanges an authorization code from the named provider
// and mints a bearer token for the resulting identity.
func (s *Service) HandleCallback(ctx context.Context, provider, code string) (*Result, error) {
	p, ok := s.providers[provider]
	if !ok {
		return nil, fmt.Errorf("auth: unknown provider %q", provider)
	}

	token, err := p.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchange failed: %w", err)
	}

	identity, err := p.Identity(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("auth: fetch identity failed: %w", err)
	}

	subject := fmt.Sprintf("%s:%s", identity.Provider, identity.ID)
	signed, err := s.issuer.generate(subject, identity.Email, identity.Name)
	if err != nil {
		return nil, err
	}

	return &Result{
		Token:    signed,
		Provider: identity.Provider,
		Email:    identity.Email,
		Name:     identity.Name,
	}, nil
}
