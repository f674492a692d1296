package config

import (
	"os"
	"path/filepath"
)

// Files under the Aleph directory.
const (
	configFile  = "config.jsonc"
	dotenvFile  = ".env"
	historyFile = "command_history"
	ageKeyFile  = ".age-key"
)

// AlephPath returns the directory holding Aleph's config and state:
// $ALEPH_PATH when set, otherwise ~/.aleph (./.aleph without a home).
func AlephPath() string {
	if v := os.Getenv("ALEPH_PATH"); v != "" {
		return v
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".aleph")
	}
	return ".aleph"
}

func ConfigPath() string { return filepath.Join(AlephPath(), configFile) }

func DotenvPath() string { return filepath.Join(AlephPath(), dotenvFile) }

// HistoryPath returns the input line history file.
func HistoryPath() string { return filepath.Join(AlephPath(), historyFile) }

// AgeKeyPath returns the identity used to seal secrets in the .env file.
func AgeKeyPath() string { return filepath.Join(AlephPath(), ageKeyFile) }
