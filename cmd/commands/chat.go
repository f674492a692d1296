package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/aleph-cli/aleph/internal/callbacks"
	"github.com/aleph-cli/aleph/internal/collector"
	"github.com/aleph-cli/aleph/internal/config"
	"github.com/aleph-cli/aleph/internal/gateway"
	"github.com/aleph-cli/aleph/internal/models"
	"github.com/aleph-cli/aleph/internal/session"
	"github.com/aleph-cli/aleph/internal/ui"
)

// NewChatCommand returns the chat subcommand.
func NewChatCommand() *cli.Command {
	return &cli.Command{
		Name:   "chat",
		Usage:  "Start an interactive chat session (default)",
		Action: runChat,
	}
}

func runChat(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd)

	cfg, ctrl, err := newSession(cmd)
	if err != nil {
		return err
	}

	r, err := ui.NewRenderer(os.Stdout, cfg.UI, cfg.Agent.Name)
	if err != nil {
		return err
	}
	r.Header(ctrl.Status())

	prompt := ui.NewPrompt(cfg.UI.HistoryFile)
	defer prompt.Close()

	slog.Info("session started", "session", ctrl.SessionID(), "mode", ctrl.Mode().Name, "model", ctrl.Model())

	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := prompt.ReadLine(promptLabel(ctrl))
		if err != nil {
			return err
		}

		p := handleLine(ctx, ctrl, r, line)
		r.Render(p)
		if p.Quit {
			r.Info("Goodbye.")
			return nil
		}
	}
}

// handleLine runs one line through the controller. Lines that reach the
// model print a waiting line first and can be cancelled with Ctrl+C.
func handleLine(ctx context.Context, ctrl *session.Controller, r *ui.Renderer, line string) session.Payload {
	if !reachesModel(session.Parse(line)) {
		return ctrl.HandleInput(ctx, line)
	}
	r.Thinking()
	reqCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	return ctrl.HandleInput(reqCtx, line)
}

func reachesModel(cmd session.Command) bool {
	switch cmd.(type) {
	case session.Prompt, session.DirAnalyze, session.FileAnalyze:
		return true
	}
	return false
}

// promptLabel is the input prompt. It stays free of escape codes; the line
// editor measures it to place the cursor.
func promptLabel(ctrl *session.Controller) string {
	return fmt.Sprintf("[%s|%s] You > ", strings.ToUpper(ctrl.Mode().Name), ctrl.Model())
}

// newSession loads the config, applies the --mode and --model flags and
// builds a session controller backed by the model registry. It fails when
// the starting model has no usable credentials.
func newSession(cmd *cli.Command) (*config.Config, *session.Controller, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if cmd.IsSet("mode") {
		cfg.Agent.DefaultMode = cmd.String("mode")
	}
	if cmd.IsSet("model") {
		cfg.Agent.DefaultModel = cmd.String("model")
	}

	registry := models.NewRegistry(cfg.Models)
	gw := gateway.NewRetrying(gateway.NewChatGateway(registry, callbacks.NewLoggingHandler()), cfg.Retry)

	ctrl, err := session.New(session.Options{
		AgentName: cfg.Agent.Name,
		Mode:      cfg.Agent.DefaultMode,
		Model:     cfg.Agent.DefaultModel,
		Gateway:   gw,
		Catalog:   registry.Catalog(),
		Rules:     collector.RulesFromConfig(cfg.Collector),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("start session: %w", err)
	}
	if err := registry.CheckAuth(ctrl.Model()); err != nil {
		return nil, nil, fmt.Errorf("model %s: %w", ctrl.Model(), err)
	}
	return cfg, ctrl, nil
}
