package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Engine.Overage != 0.15 {
		t.Errorf("expected 15%% overage default, got %v", cfg.Engine.Overage)
	}
	if cfg.Engine.HighConduitRuns != 50 {
		t.Errorf("expected conduit threshold 50, got %d", cfg.Engine.HighConduitRuns)
	}
	if cfg.Engine.HighPanelCount != 20 {
		t.Errorf("expected panel threshold 20, got %d", cfg.Engine.HighPanelCount)
	}
	if cfg.Engine.StickLengthFt != 10 {
		t.Errorf("expected 10' sticks, got %d", cfg.Engine.StickLengthFt)
	}
	if cfg.Batch.MaxFiles != 50 {
		t.Errorf("expected batch limit 50, got %d", cfg.Batch.MaxFiles)
	}
	if cfg.Summary.APIKey != "${OPENAI_API_KEY}" {
		t.Errorf("expected API key placeholder, got %s", cfg.Summary.APIKey)
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		os.Setenv("TEST_API_KEY", "secret123")
		defer os.Unsetenv("TEST_API_KEY")

		result := ResolveEnvVars("${TEST_API_KEY}")
		if result != "secret123" {
			t.Errorf("expected secret123, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("literal-value")
		if result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.yaml")

		configContent := `
engine:
  high_conduit_runs: 75
  overage: 0.2
`
		if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		mgr, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		if cfg.Engine.HighConduitRuns != 75 {
			t.Errorf("expected 75, got %d", cfg.Engine.HighConduitRuns)
		}
		if cfg.Engine.Overage != 0.2 {
			t.Errorf("expected 0.2, got %v", cfg.Engine.Overage)
		}
	})
}

func TestWriteDefault(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("failed to write default config: %v", err)
	}

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("failed to load written config: %v", err)
	}
	if mgr.Get().Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", mgr.Get().Server.Port)
	}
}
