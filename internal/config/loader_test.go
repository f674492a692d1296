package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	content := `{
	// JSONC comments and trailing commas are accepted
	"agent": {
		"name": "Bet",
		"default_mode": "quant",
	},
	"models": {
		"catalog": [
			{"id": "gpt-4o", "provider": "openai"},
		],
		"providers": {
			"openai": {
				"driver": "openai",
				"auth": {
					"api_key": "${{ .Env.ALEPH_TEST_OPENAI_KEY }}"
				},
				"max_tokens": 4096,
				"timeout": "45s"
			}
		}
	},
	"collector": {
		"max_file_size": 1024,
		"exclude_globs": ["**/*.lock"]
	},
	"retry": {
		"max_attempts": 5,
		"initial_delay": "100ms"
	}
}`

	dir := t.TempDir()
	path := filepath.Join(dir, "config.jsonc")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ALEPH_TEST_OPENAI_KEY", "test-key-123")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Agent.Name != "Bet" {
		t.Errorf("expected name Bet, got %s", cfg.Agent.Name)
	}
	if cfg.Agent.DefaultMode != "quant" {
		t.Errorf("expected default mode quant, got %s", cfg.Agent.DefaultMode)
	}
	if len(cfg.Models.Catalog) != 1 || cfg.Models.Catalog[0].ID != "gpt-4o" {
		t.Errorf("unexpected catalog: %+v", cfg.Models.Catalog)
	}

	p, ok := cfg.Models.Providers["openai"]
	if !ok {
		t.Fatal("expected openai provider")
	}
	if p.Auth.APIKey != "test-key-123" {
		t.Errorf("expected api_key test-key-123, got %s", p.Auth.APIKey)
	}
	if p.MaxTokens != 4096 {
		t.Errorf("expected max_tokens 4096, got %d", p.MaxTokens)
	}
	if p.Timeout.Duration() != 45*time.Second {
		t.Errorf("expected timeout 45s, got %s", p.Timeout.Duration())
	}
	if cfg.Collector.MaxFileSize != 1024 {
		t.Errorf("expected max_file_size 1024, got %d", cfg.Collector.MaxFileSize)
	}
	if cfg.Retry.MaxAttempts != 5 {
		t.Errorf("expected max_attempts 5, got %d", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.InitialDelay.Duration() != 100*time.Millisecond {
		t.Errorf("expected initial_delay 100ms, got %s", cfg.Retry.InitialDelay.Duration())
	}
	// Unset fields still receive defaults.
	if cfg.Retry.Multiplier != 2 {
		t.Errorf("expected default multiplier 2, got %v", cfg.Retry.Multiplier)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ALEPH_PATH", "/tmp/aleph-test")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.jsonc")
	if err := os.WriteFile(path, []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Agent.Name != "Aleph" {
		t.Errorf("expected default name Aleph, got %s", cfg.Agent.Name)
	}
	if cfg.Agent.DefaultMode != "core" {
		t.Errorf("expected default mode core, got %s", cfg.Agent.DefaultMode)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("expected default max_attempts 3, got %d", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.InitialDelay.Duration() != 2*time.Second {
		t.Errorf("expected default initial_delay 2s, got %s", cfg.Retry.InitialDelay.Duration())
	}
	if cfg.UI.HistoryFile != "/tmp/aleph-test/command_history" {
		t.Errorf("expected default history file, got %s", cfg.UI.HistoryFile)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.jsonc"))
	if err != nil {
		t.Fatalf("missing config should yield defaults, got: %v", err)
	}
	if cfg.Agent.DefaultMode != "core" {
		t.Errorf("expected default mode core, got %s", cfg.Agent.DefaultMode)
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.jsonc")
	if err := os.WriteFile(path, []byte(`{"agent": `), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error for truncated config")
	}
}

func TestExpandEnvTemplates(t *testing.T) {
	t.Setenv("TEST_KEY", "my-secret")
	result := expandEnvTemplates(`{"key": "${{ .Env.TEST_KEY }}"}`)
	expected := `{"key": "my-secret"}`
	if result != expected {
		t.Errorf("expected %s, got %s", expected, result)
	}
}
