package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/aleph-cli/aleph/internal/models"
	"github.com/aleph-cli/aleph/internal/modes"
	"github.com/aleph-cli/aleph/internal/session"
	"github.com/aleph-cli/aleph/internal/ui"
)

// NewModelsCommand returns the models subcommand.
func NewModelsCommand() *cli.Command {
	return &cli.Command{
		Name:  "models",
		Usage: "List the selectable models and check their credentials",
		Action: func(_ context.Context, cmd *cli.Command) error {
			setupLogging(cmd)

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			registry := models.NewRegistry(cfg.Models)

			current := cfg.Agent.DefaultModel
			if current == "" {
				if mode, err := modes.Lookup(cfg.Agent.DefaultMode); err == nil {
					current = mode.DefaultModel
				}
			}

			entries := registry.Catalog().Entries()
			choices := make([]session.ModelChoice, len(entries))
			for i, e := range entries {
				choices[i] = session.ModelChoice{Entry: e, Current: e.ID == current}
			}

			r, err := ui.NewRenderer(os.Stdout, cfg.UI, cfg.Agent.Name)
			if err != nil {
				return err
			}
			r.Render(session.Payload{Kind: session.KindModels, Models: choices})

			for _, e := range entries {
				if err := registry.CheckAuth(e.ID); err != nil {
					r.Error(fmt.Sprintf("%s: %v", e.ID, err))
				}
			}
			return nil
		},
	}
}
