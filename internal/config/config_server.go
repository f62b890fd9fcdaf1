package config

import "time"

// ServerConfig configures the HTTP listener (spec §4.8/§6).
type ServerConfig struct {
	Host     string `yaml:"host"`
	HTTPPort int    `yaml:"http_port"`
}

func applyServerDefaults(cfg *ServerConfig) {
	if cfg.Host == "" {
		cfg.Host = "0.0.0.0"
	}
	if cfg.HTTPPort == 0 {
		cfg.HTTPPort = 8080
	}
}

// AuthConfig configures bearer-token auth on the session API. An empty
// JWTSecret disables auth entirely, matching httpapi.AuthMiddleware's
// local/dev bypass.
type AuthConfig struct {
	JWTSecret   string        `yaml:"jwt_secret"`
	OAuth       OAuthConfig   `yaml:"oauth"`
	TokenExpiry time.Duration `yaml:"token_expiry"`
}

func applyAuthDefaults(cfg *AuthConfig) {
	if cfg.TokenExpiry == 0 {
		cfg.TokenExpiry = 24 * time.Hour
	}
}

// OAuthConfig configures optional browser-based login providers that mint
// bearer tokens in place of copying JWTSecret's token out of this file.
// A provider with an empty ClientID is left unregistered.
type OAuthConfig struct {
	Google OAuthProviderConfig `yaml:"google"`
	GitHub OAuthProviderConfig `yaml:"github"`
}

// OAuthProviderConfig holds one provider's registered application
// credentials and the callback URL registered with that provider.
type OAuthProviderConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

// CORSConfig configures the allowed browser origins for the session API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

func applyCORSDefaults(cfg *CORSConfig) {
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
}
