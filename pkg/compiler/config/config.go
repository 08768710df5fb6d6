package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultMaxUnion caps how many member calls a single dispatch may expand to.
const DefaultMaxUnion = 256

type Config struct {
	// MaxUnion limits the cartesian-product size of one dispatch expansion.
	// Zero means DefaultMaxUnion; negative is invalid.
	MaxUnion int `yaml:"max_union"`

	// Trace enables debug-level logging of specialization and dispatch
	// expansion.
	Trace bool `yaml:"trace"`
}

// Load reads a rill.yaml config file.
func Load(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %q: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) Validate(logger *slog.Logger) error {
	if c.MaxUnion < 0 {
		return fmt.Errorf("max_union must not be negative, got %d", c.MaxUnion)
	}

	if c.MaxUnion == 0 {
		c.MaxUnion = DefaultMaxUnion
	}

	return nil
}
