// Package config loads GhostPath's runtime configuration from a YAML file,
// split by concern in the teacher's style (config_server.go, config_llm.go,
// ...), with environment-variable overrides applied on top (spec §6
// Environment). It is deliberately much smaller than the teacher's own
// internal/config: GhostPath has one server, one LLM provider, and no
// channel/plugin/marketplace surface to configure.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for ghostpathd.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Auth    AuthConfig    `yaml:"auth"`
	CORS    CORSConfig    `yaml:"cors"`
	DB      DatabaseConfig `yaml:"database"`
	LLM     LLMConfig     `yaml:"llm"`
	Session SessionConfig `yaml:"session"`
	Logging LoggingConfig `yaml:"logging"`
	Tracing TracingConfig `yaml:"tracing"`
	SpecDir string        `yaml:"spec_dir"`
}

// Load reads path, expands ${VAR} references, decodes strict YAML into a
// Config, applies environment-variable overrides, then fills defaults and
// validates. Grounded on the teacher's internal/config/config.go Load.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	decoder := yaml.NewDecoder(strings.NewReader(expanded))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("config: %s must contain a single YAML document", path)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyAuthDefaults(&cfg.Auth)
	applyCORSDefaults(&cfg.CORS)
	applyDatabaseDefaults(&cfg.DB)
	applyLLMDefaults(&cfg.LLM)
	applySessionDefaults(&cfg.Session)
	applyLoggingDefaults(&cfg.Logging)
	applyTracingDefaults(&cfg.Tracing)
	if strings.TrimSpace(cfg.SpecDir) == "" {
		cfg.SpecDir = "./specs"
	}
}

// ValidationError reports every config problem found, not just the first,
// mirroring the teacher's ConfigValidationError.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return "config validation failed:\n- " + strings.Join(e.Issues, "\n- ")
}

func validate(cfg *Config) error {
	var issues []string

	if strings.TrimSpace(cfg.DB.URL) == "" {
		issues = append(issues, "database.url (or DATABASE_URL) is required")
	}
	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		issues = append(issues, "llm.api_key (or ANTHROPIC_API_KEY) is required")
	}
	if cfg.Session.MaxIterations <= 0 {
		issues = append(issues, "session.max_iterations must be > 0")
	}
	if cfg.Auth.JWTSecret != "" && len(cfg.Auth.JWTSecret) < 32 {
		issues = append(issues, "auth.jwt_secret must be at least 32 characters when set")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Format)) {
	case "json", "text":
	default:
		issues = append(issues, "logging.format must be \"json\" or \"text\"")
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
