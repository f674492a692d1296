package secrets

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// UnsealEnv replaces every sealed environment value with its plaintext.
// The identity is only read when a sealed value exists. It returns the
// names of the variables it replaced.
func UnsealEnv(keyPath string) ([]string, error) {
	var (
		kr       *Keyring
		replaced []string
	)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !IsSealed(value) {
			continue
		}
		if kr == nil {
			var err error
			if kr, err = OpenKeyring(keyPath, false); err != nil {
				return replaced, err
			}
		}
		plain, err := kr.Open(value)
		if err != nil {
			return replaced, fmt.Errorf("unseal %s: %w", name, err)
		}
		if err := os.Setenv(name, plain); err != nil {
			return replaced, err
		}
		replaced = append(replaced, name)
	}
	if len(replaced) > 0 {
		slog.Debug("unsealed environment", "vars", replaced)
	}
	return replaced, nil
}

// SetEntry writes NAME=value into the .env file at path, replacing an
// existing line for name in place. Comments and ordering are kept and the
// file is written with mode 0600.
func SetEntry(path, name, value string) error {
	var lines []string
	f, err := os.Open(path)
	switch {
	case err == nil:
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			lines = append(lines, sc.Text())
		}
		err = sc.Err()
		f.Close()
		if err != nil {
			return fmt.Errorf("read dotenv: %w", err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("read dotenv: %w", err)
	}

	entry := name + "=" + quoteValue(value)
	replaced := false
	for i, line := range lines {
		key, _, ok := strings.Cut(strings.TrimPrefix(strings.TrimSpace(line), "export "), "=")
		if ok && !strings.HasPrefix(strings.TrimSpace(line), "#") && strings.TrimSpace(key) == name {
			lines[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		lines = append(lines, entry)
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600)
}

// quoteValue wraps values the dotenv reader would otherwise mangle. The
// reader strips one pair of quotes and does no unescaping.
func quoteValue(v string) string {
	if !strings.ContainsAny(v, " \t\"'#") {
		return v
	}
	if strings.Contains(v, `"`) {
		return "'" + v + "'"
	}
	return `"` + v + `"`
}
