package config

// LoggingConfig configures structured logging, mirroring
// observability.LogConfig's field shape.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}
}

// TracingConfig configures OTLP span export, mirroring
// observability.TraceConfig's field shape. An empty Endpoint disables
// tracing and leaves observability.NewTracer to return its no-op tracer.
type TracingConfig struct {
	ServiceName  string  `yaml:"service_name"`
	Endpoint     string  `yaml:"endpoint"`
	Environment  string  `yaml:"environment"`
	SamplingRate float64 `yaml:"sampling_rate"`
}

func applyTracingDefaults(cfg *TracingConfig) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "ghostpathd"
	}
	if cfg.SamplingRate == 0 {
		cfg.SamplingRate = 1.0
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
}
