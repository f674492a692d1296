package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/aleph-cli/aleph/internal/session"
	"github.com/aleph-cli/aleph/internal/ui"
)

// NewAskCommand returns the ask subcommand.
func NewAskCommand() *cli.Command {
	return &cli.Command{
		Name:      "ask",
		Usage:     "Send one line to the model and print the reply",
		ArgsUsage: "<message | /analyze ... | /dir_analyze ...>",
		Action:    runAsk,
	}
}

func runAsk(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd)

	line := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(line) == "" {
		return fmt.Errorf("usage: aleph ask <message>")
	}

	cfg, ctrl, err := newSession(cmd)
	if err != nil {
		return err
	}
	r, err := ui.NewRenderer(os.Stdout, cfg.UI, cfg.Agent.Name)
	if err != nil {
		return err
	}

	p := ctrl.HandleInput(ctx, line)
	r.Render(p)
	if p.Kind == session.KindError {
		return p.Err
	}
	return nil
}
