package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

// Identity represents the identity data returned by an OAuth provider's
// userinfo endpoint.
type Identity struct {
	ID       string
	Provider string
	Email    string
	Name     string
}

// Provider implements one OAuth2 identity-provider flow.
type Provider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	Identity(ctx context.Context, token *oauth2.Token) (*Identity, error)
}

// ProviderConfig configures a generic OAuth2 provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	Scopes       []string
}

// GenericProvider implements Provider with configurable endpoints.
type GenericProvider struct {
	config      oauth2.Config
	userInfoURL string
	parse       func([]byte) (*Identity, error)
}

// NewGenericProvider builds a provider from cfg with a custom userinfo parser.
func NewGenericProvider(cfg ProviderConfig, parse func([]byte) (*Identity, error)) *GenericProvider {
	return &GenericProvider{
		config: oauth2.Config{
			ClientID:     strings.TrimSpace(cfg.ClientID),
			ClientSecret: strings.TrimSpace(cfg.ClientSecret),
			RedirectURL:  strings.TrimSpace(cfg.RedirectURL),
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  strings.TrimSpace(cfg.AuthURL),
				TokenURL: strings.TrimSpace(cfg.TokenURL),
			},
		},
		userInfoURL: strings.TrimSpace(cfg.UserInfoURL),
		parse:       parse,
	}
}

// AuthURL returns the provider's authorization URL for the given state token.
func (p *GenericProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange exchanges an authorization code for an access token.
func (p *GenericProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return p.config.Exchange(ctx, code)
}

// Identity fetches and parses the authenticated user's identity.
func (p *GenericProvider) Identity(ctx context.Context, token *oauth2.Token) (*Identity, error) {
	if p.userInfoURL == "" {
		return nil, errors.New("auth: userinfo url not configured")
	}
	client := p.config.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("auth: build userinfo request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth: userinfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
		return nil, fmt.Errorf("auth: userinfo request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if p.parse == nil {
		return nil, errors.New("auth: userinfo parser not configured")
	}
	return p.parse(data)
}

// NewGoogleProvider builds a Provider wired to Google's OAuth2 endpoints.
func NewGoogleProvider(cfg ProviderConfig) *GenericProvider {
	return NewGenericProvider(ProviderConfig{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		AuthURL:      "https://accounts.google.com/o/oauth2/v2/auth",
		TokenURL:     "https://oauth2.googleapis.com/token",
		UserInfoURL:  "https://www.googleapis.com/oauth2/v3/userinfo",
		Scopes:       []string{"openid", "email", "profile"},
	}, parseGoogleIdentity)
}

// NewGitHubProvider builds a Provider wired to GitHub's OAuth2 endpoints.
func NewGitHubProvider(cfg ProviderConfig) *GenericProvider {
	return NewGenericProvider(ProviderConfig{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		AuthURL:      "https://github.com/login/oauth/authorize",
		TokenURL:     "https://github.com/login/oauth/access_token",
		UserInfoURL:  "https://api.github.com/user",
		Scopes:       []string{"user:email"},
	}, parseGitHubIdentity)
}

func parseGoogleIdentity(data []byte) (*Identity, error) {
	var payload struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return &Identity{ID: payload.Sub, Provider: "google", Email: payload.Email, Name: payload.Name}, nil
}

func parseGitHubIdentity(data []byte) (*Identity, error) {
	var payload struct {
		ID    any    `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
		Login string `json:"login"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	name := payload.Name
	if strings.TrimSpace(name) == "" {
		name = payload.Login
	}
	return &Identity{ID: fmt.Sprintf("%v", payload.ID), Provider: "github", Email: payload.Email, Name: name}, nil
}
