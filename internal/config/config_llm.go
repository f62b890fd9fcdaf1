package config

// LLMConfig configures the Anthropic client wrapper (spec §4.2), mirroring
// llmclient.Config's field shape so main can pass it through unchanged.
type LLMConfig struct {
	APIKey       string       `yaml:"api_key"`
	BaseURL      string       `yaml:"base_url"`
	DefaultModel string       `yaml:"default_model"`
	MaxRetries   int          `yaml:"max_retries"`
	BaseDelay    yamlDuration `yaml:"base_delay"`
	MaxDelay     yamlDuration `yaml:"max_delay"`
	Timeout      yamlDuration `yaml:"timeout"`
}

func applyLLMDefaults(cfg *LLMConfig) {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = yamlDuration(defaultLLMBaseDelay)
	}
	if cfg.MaxDelay == 0 {
		cfg.MaxDelay = yamlDuration(defaultLLMMaxDelay)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = yamlDuration(defaultLLMTimeout)
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = "claude-sonnet-4-5"
	}
}
