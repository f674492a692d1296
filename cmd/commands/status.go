package commands

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/aleph-cli/aleph/internal/config"
	"github.com/aleph-cli/aleph/internal/models"
)

// NewStatusCommand returns the status subcommand.
func NewStatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the configuration in use and provider credentials",
		Action: func(_ context.Context, cmd *cli.Command) error {
			setupLogging(cmd)

			path := cmd.String("config")
			if _, err := os.Stat(path); err != nil {
				fmt.Printf("Config:  %s (not found, using defaults)\n", path)
			} else {
				fmt.Printf("Config:  %s\n", path)
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			model := cfg.Agent.DefaultModel
			if model == "" {
				model = "(mode default)"
			}
			fmt.Printf("Agent:   %s\n", cfg.Agent.Name)
			fmt.Printf("Mode:    %s\n", cfg.Agent.DefaultMode)
			fmt.Printf("Model:   %s\n", model)
			fmt.Printf("History: %s\n", cfg.UI.HistoryFile)
			fmt.Printf("Retry:   %d attempts, %s initial delay\n", cfg.Retry.MaxAttempts, cfg.Retry.InitialDelay.Duration())

			providers := map[string]config.ProviderConfig{
				models.DefaultProvider: {Driver: models.DriverGemini},
			}
			for name, p := range cfg.Models.Providers {
				if p.Driver == "" {
					p.Driver = name
				}
				providers[name] = p
			}
			names := make([]string, 0, len(providers))
			for name := range providers {
				names = append(names, name)
			}
			sort.Strings(names)

			fmt.Println("\nProviders:")
			for _, name := range names {
				p := providers[name]
				state := "ok"
				if _, err := models.ResolveAuth(p); err != nil {
					state = err.Error()
				}
				fmt.Printf("  %-10s driver=%-8s auth: %s\n", name, p.Driver, state)
			}
			return nil
		},
	}
}
