package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/fieldwise/takeoff/internal/engine"
)

// DefaultConfig returns configuration with shipped defaults. Engine
// thresholds (overage, high-count flags, stick length, keyword lists)
// carry the conventions the analyzer has always used; override any of
// them in config.yaml.
func DefaultConfig() *Config {
	return &Config{
		Engine: engine.DefaultConfig(),
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8080",
		},
		Batch: BatchCfg{
			MaxFiles: 50,
		},
		Summary: SummaryCfg{
			Enabled:   false,
			Model:     "gpt-4o-mini",
			APIKey:    "${OPENAI_API_KEY}",
			MaxTokens: 600,
		},
	}
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Takeoff configuration
# API keys use ${ENV_VAR} syntax to reference environment variables
# Engine thresholds are documented defaults; adjust per project standards

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
