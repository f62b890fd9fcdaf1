package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ghostpath.yaml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 0.0.0.0
  extra_field: true
database:
  url: postgres://localhost/ghostpath
llm:
  api_key: sk-test
`)

	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestLoadRejectsMissingRequiredFields(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 0.0.0.0
`)

	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(err.Error(), "database.url") {
		t.Fatalf("expected database.url error, got %v", err)
	}
	if !strings.Contains(err.Error(), "llm.api_key") {
		t.Fatalf("expected llm.api_key error, got %v", err)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://localhost/ghostpath
llm:
  api_key: sk-test
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.HTTPPort != 8080 {
		t.Errorf("expected default http_port 8080, got %d", cfg.Server.HTTPPort)
	}
	if cfg.Session.MaxIterations != defaultMaxIterations {
		t.Errorf("expected default max_iterations %d, got %d", defaultMaxIterations, cfg.Session.MaxIterations)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected default logging format json, got %q", cfg.Logging.Format)
	}
	if cfg.LLM.ClientConfig().Timeout != defaultLLMTimeout {
		t.Errorf("expected default llm timeout %s, got %s", defaultLLMTimeout, cfg.LLM.ClientConfig().Timeout)
	}
}

func TestLoadParsesDurationStrings(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://localhost/ghostpath
  conn_max_lifetime: 90s
llm:
  api_key: sk-test
  timeout: 45s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DB.PoolConfig().ConnMaxLifetime != 90*time.Second {
		t.Errorf("expected 90s, got %s", cfg.DB.PoolConfig().ConnMaxLifetime)
	}
	if cfg.LLM.ClientConfig().Timeout != 45*time.Second {
		t.Errorf("expected 45s, got %s", cfg.LLM.ClientConfig().Timeout)
	}
}

func TestLoadRejectsShortJWTSecret(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://localhost/ghostpath
llm:
  api_key: sk-test
auth:
  jwt_secret: too-short
`)

	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(err.Error(), "jwt_secret") {
		t.Fatalf("expected jwt_secret error, got %v", err)
	}
}

func TestEnvOverridesTakePriorityOverFile(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://localhost/ghostpath
llm:
  api_key: sk-test
`)

	t.Setenv("DATABASE_URL", "postgres://override/ghostpath")
	t.Setenv("ANTHROPIC_API_KEY", "sk-override")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DB.URL != "postgres://override/ghostpath" {
		t.Errorf("expected env override of database.url, got %q", cfg.DB.URL)
	}
	if cfg.LLM.APIKey != "sk-override" {
		t.Errorf("expected env override of llm.api_key, got %q", cfg.LLM.APIKey)
	}
}
