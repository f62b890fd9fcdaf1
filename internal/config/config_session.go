package config

import "github.com/ghostpath/sessionrt/internal/agentloop"

// DatabaseConfig configures the store's Postgres connection pool, mirroring
// store.PoolConfig's field shape (spec §4.3).
type DatabaseConfig struct {
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime yamlDuration  `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime yamlDuration  `yaml:"conn_max_idle_time"`
	ConnectTimeout  yamlDuration  `yaml:"connect_timeout"`
}

func applyDatabaseDefaults(cfg *DatabaseConfig) {
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = 25
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 5
	}
	if cfg.ConnMaxLifetime == 0 {
		cfg.ConnMaxLifetime = yamlDuration(defaultConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime == 0 {
		cfg.ConnMaxIdleTime = yamlDuration(defaultConnMaxIdleTime)
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = yamlDuration(defaultConnectTimeout)
	}
}

// SessionConfig configures the agent-loop runner shared across requests
// (spec §4.7).
type SessionConfig struct {
	Model         string `yaml:"model"`
	MaxTokens     int    `yaml:"max_tokens"`
	SystemPrompt  string `yaml:"system_prompt"`
	MaxIterations int    `yaml:"max_iterations"`
}

func applySessionDefaults(cfg *SessionConfig) {
	if cfg.Model == "" {
		cfg.Model = "claude-sonnet-4-5"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 4096
	}
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = defaultMaxIterations
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = agentloop.DefaultSystemPrompt
	}
}
