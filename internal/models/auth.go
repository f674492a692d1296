package models

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aleph-cli/aleph/internal/config"
)

// ErrMissingCredential is returned when no API key can be resolved for a
// driver that needs one.
var ErrMissingCredential = errors.New("missing credential")

// driverEnvKeys lists, per driver, the environment variables consulted when
// the config holds no key. The first non-empty one wins.
var driverEnvKeys = map[string][]string{
	DriverGemini:  {"GOOGLE_API_KEY", "GEMINI_API_KEY"},
	DriverOpenAI:  {"OPENAI_API_KEY"},
	DriverMistral: {"MISTRAL_API_KEY"},
	DriverClaude:  {"ANTHROPIC_API_KEY"},
}

// RequiresAuth reports whether the driver needs an API key.
func RequiresAuth(driver string) bool {
	return strings.ToLower(driver) != DriverOllama
}

// ResolveAuth resolves the API key for a provider.
// Resolution order: direct api_key → ${VAR} reference → driver default env.
func ResolveAuth(cfg config.ProviderConfig) (string, error) {
	key := strings.TrimSpace(cfg.Auth.APIKey)
	if strings.HasPrefix(key, "${") && strings.HasSuffix(key, "}") {
		key = os.Getenv(key[2 : len(key)-1])
	}
	if key != "" {
		return key, nil
	}

	driver := strings.ToLower(cfg.Driver)
	if !RequiresAuth(driver) {
		return "", nil
	}
	envKeys, ok := driverEnvKeys[driver]
	if !ok {
		return "", fmt.Errorf("%w %q: cannot resolve auth", ErrUnknownDriver, cfg.Driver)
	}
	for _, name := range envKeys {
		if v := os.Getenv(name); v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %s not set", ErrMissingCredential, envKeys[0])
}
