package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// applyEnvOverrides lets deployment environments override secrets and
// connection strings without editing the YAML file, mirroring the
// teacher's internal/config/config.go applyEnvOverrides.
func applyEnvOverrides(cfg *Config) {
	if value := strings.TrimSpace(os.Getenv("GHOSTPATH_HOST")); value != "" {
		cfg.Server.Host = value
	}
	if value := strings.TrimSpace(os.Getenv("GHOSTPATH_HTTP_PORT")); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			cfg.Server.HTTPPort = parsed
		}
	}
	if value := strings.TrimSpace(os.Getenv("DATABASE_URL")); value != "" {
		cfg.DB.URL = value
	}
	if value := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); value != "" {
		cfg.LLM.APIKey = value
	}
	if value := strings.TrimSpace(os.Getenv("GHOSTPATH_JWT_SECRET")); value != "" {
		cfg.Auth.JWTSecret = value
	}
	if value := strings.TrimSpace(os.Getenv("GHOSTPATH_CORS_ORIGINS")); value != "" {
		cfg.CORS.AllowedOrigins = strings.Split(value, ",")
	}
	if value := strings.TrimSpace(os.Getenv("GHOSTPATH_MAX_ITERATIONS")); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			cfg.Session.MaxIterations = parsed
		}
	}
	if value := strings.TrimSpace(os.Getenv("GHOSTPATH_LOG_LEVEL")); value != "" {
		cfg.Logging.Level = value
	}
	if value := strings.TrimSpace(os.Getenv("GHOSTPATH_LOG_FORMAT")); value != "" {
		cfg.Logging.Format = value
	}
	if value := strings.TrimSpace(os.Getenv("GHOSTPATH_TRACE_ENDPOINT")); value != "" {
		cfg.Tracing.Endpoint = value
	}
	if value := strings.TrimSpace(os.Getenv("GHOSTPATH_LLM_TIMEOUT")); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			cfg.LLM.Timeout = yamlDuration(parsed)
		}
	}
}
