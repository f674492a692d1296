package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/aleph-cli/aleph/internal/config"
	"github.com/aleph-cli/aleph/internal/secrets"
)

var envNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// NewSecretCommand returns the secret subcommand.
func NewSecretCommand() *cli.Command {
	return &cli.Command{
		Name:  "secret",
		Usage: "Manage encrypted API keys in the Aleph .env file",
		Commands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "Encrypt a value (read from stdin) and store it under NAME",
				ArgsUsage: "<NAME>",
				Action:    runSecretSet,
			},
		},
	}
}

func runSecretSet(_ context.Context, cmd *cli.Command) error {
	setupLogging(cmd)

	name := cmd.Args().First()
	if !envNameRe.MatchString(name) {
		return fmt.Errorf("usage: aleph secret set <NAME> (got %q)", name)
	}

	value, err := readSecret(name)
	if err != nil {
		return err
	}
	if value == "" {
		return fmt.Errorf("empty value for %s", name)
	}

	kr, err := secrets.OpenKeyring(config.AgeKeyPath(), true)
	if err != nil {
		return err
	}
	sealed, err := kr.Seal(value)
	if err != nil {
		return err
	}

	path := config.DotenvPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	if err := secrets.SetEntry(path, name, sealed); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("%s stored encrypted in %s\n", name, path)
	return nil
}

// readSecret reads the value without echo on a terminal, or one line from
// piped input.
func readSecret(name string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprintf(os.Stderr, "%s: ", name)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read value: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read value: %w", err)
	}
	return strings.TrimSpace(line), nil
}
