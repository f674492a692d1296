// Package config loads the Aleph configuration file and its environment.
package config

import "time"

// Config is the root configuration for Aleph.
type Config struct {
	Agent     AgentConfig     `json:"agent"`
	Models    ModelsConfig    `json:"models"`
	Collector CollectorConfig `json:"collector"`
	Retry     RetryConfig     `json:"retry"`
	UI        UIConfig        `json:"ui"`
}

// AgentConfig holds the identity and starting state of the chat session.
type AgentConfig struct {
	Name         string `json:"name"`
	DefaultMode  string `json:"default_mode"`
	DefaultModel string `json:"default_model,omitempty"` // empty = the mode's default model
}

// ModelsConfig holds the model allow-list and provider configuration.
type ModelsConfig struct {
	Catalog   []ModelEntry              `json:"catalog,omitempty"`
	Providers map[string]ProviderConfig `json:"providers,omitempty"`
}

// ModelEntry declares one selectable model.
type ModelEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Provider    string `json:"provider,omitempty"` // key in ModelsConfig.Providers (default: "gemini")
}

// ProviderConfig configures a single LLM provider.
type ProviderConfig struct {
	Driver    string         `json:"driver"` // "gemini", "openai", "ollama", "claude"
	BaseURL   string         `json:"base_url,omitempty"`
	Auth      AuthConfig     `json:"auth"`
	MaxTokens int            `json:"max_tokens,omitempty"`
	Timeout   Duration       `json:"timeout,omitempty"`
	Options   map[string]any `json:"options,omitempty"`
}

// AuthConfig configures API key resolution.
type AuthConfig struct {
	APIKey string `json:"api_key,omitempty"` // direct key, ${VAR} or ${{ .Env.VAR }} template
}

// CollectorConfig configures directory collection for /dir_analyze.
// Zero values fall back to the collector defaults.
type CollectorConfig struct {
	ExcludeDirs       []string `json:"exclude_dirs,omitempty"`
	ExcludeGlobs      []string `json:"exclude_globs,omitempty"`
	MarkerFiles       []string `json:"marker_files,omitempty"`
	IncludeExtensions []string `json:"include_extensions,omitempty"`
	MaxFileSize       int64    `json:"max_file_size,omitempty"`
	MaxTotalSize      int64    `json:"max_total_size,omitempty"`
	RespectGitignore  bool     `json:"respect_gitignore,omitempty"`
	SkipHidden        *bool    `json:"skip_hidden,omitempty"` // nil = true
}

// RetryConfig bounds retries of transient gateway failures.
type RetryConfig struct {
	MaxAttempts  int      `json:"max_attempts"`
	InitialDelay Duration `json:"initial_delay"`
	MaxDelay     Duration `json:"max_delay"`
	Multiplier   float64  `json:"multiplier"`
}

// UIConfig holds terminal presentation settings.
type UIConfig struct {
	WordWrap    int    `json:"word_wrap,omitempty"` // 0 = terminal width
	HistoryFile string `json:"history_file,omitempty"`
	Style       string `json:"style,omitempty"` // glamour style name, "" = auto
}

// Duration wraps time.Duration for JSON unmarshaling.
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}
