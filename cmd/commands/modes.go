package commands

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/aleph-cli/aleph/internal/modes"
	"github.com/aleph-cli/aleph/internal/session"
	"github.com/aleph-cli/aleph/internal/ui"
)

// NewModesCommand returns the modes subcommand.
func NewModesCommand() *cli.Command {
	return &cli.Command{
		Name:      "modes",
		Usage:     "Show a mode's system prompt (default: core)",
		ArgsUsage: "[mode]",
		Action: func(_ context.Context, cmd *cli.Command) error {
			setupLogging(cmd)

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			name := cmd.Args().First()
			if name == "" {
				name = cfg.Agent.DefaultMode
			}
			mode, err := modes.Lookup(name)
			if err != nil {
				return err
			}

			r, err := ui.NewRenderer(os.Stdout, cfg.UI, cfg.Agent.Name)
			if err != nil {
				return err
			}
			r.Render(session.Payload{Kind: session.KindModes, Mode: mode, Modes: modes.List()})
			return nil
		},
	}
}
