package config

import (
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ghostpath/sessionrt/internal/agentloop"
)

const (
	defaultConnMaxLifetime = 5 * time.Minute
	defaultConnMaxIdleTime = 2 * time.Minute
	defaultConnectTimeout  = 10 * time.Second

	defaultLLMBaseDelay = 500 * time.Millisecond
	defaultLLMMaxDelay  = 30 * time.Second
	defaultLLMTimeout   = 120 * time.Second

	defaultMaxIterations = agentloop.DefaultMaxIterations
)

// yamlDuration lets duration fields accept either a YAML/env string like
// "30s" or a bare integer number of nanoseconds, matching time.Duration's
// own JSON behavior while staying readable in config files.
type yamlDuration time.Duration

func (d yamlDuration) Duration() time.Duration { return time.Duration(d) }

func (d *yamlDuration) UnmarshalYAML(value *yaml.Node) error {
	if parsed, err := time.ParseDuration(value.Value); err == nil {
		*d = yamlDuration(parsed)
		return nil
	}
	if n, err := strconv.ParseInt(value.Value, 10, 64); err == nil {
		*d = yamlDuration(time.Duration(n))
		return nil
	}
	return fmt.Errorf("invalid duration %q", value.Value)
}
