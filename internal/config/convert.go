package config

import (
	"github.com/ghostpath/sessionrt/internal/llmclient"
	"github.com/ghostpath/sessionrt/internal/observability"
	"github.com/ghostpath/sessionrt/internal/store"
)

// PoolConfig converts the YAML-loaded DatabaseConfig into the shape
// store.Open expects.
func (c DatabaseConfig) PoolConfig() store.PoolConfig {
	return store.PoolConfig{
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime.Duration(),
		ConnMaxIdleTime: c.ConnMaxIdleTime.Duration(),
		ConnectTimeout:  c.ConnectTimeout.Duration(),
	}
}

// ClientConfig converts the YAML-loaded LLMConfig into the shape
// llmclient.New expects.
func (c LLMConfig) ClientConfig() llmclient.Config {
	return llmclient.Config{
		APIKey:       c.APIKey,
		BaseURL:      c.BaseURL,
		DefaultModel: c.DefaultModel,
		MaxRetries:   c.MaxRetries,
		BaseDelay:    c.BaseDelay.Duration(),
		MaxDelay:     c.MaxDelay.Duration(),
		Timeout:      c.Timeout.Duration(),
	}
}

// LogConfig converts the YAML-loaded LoggingConfig into the shape
// observability.NewLogger expects.
func (c LoggingConfig) LogConfig() observability.LogConfig {
	return observability.LogConfig{Level: c.Level, Format: c.Format}
}

// TraceConfig converts the YAML-loaded TracingConfig into the shape
// observability.NewTracer expects.
func (c TracingConfig) TraceConfig() observability.TraceConfig {
	return observability.TraceConfig{
		ServiceName:  c.ServiceName,
		Environment:  c.Environment,
		Endpoint:     c.Endpoint,
		SamplingRate: c.SamplingRate,
	}
}
