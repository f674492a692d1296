package commands

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/aleph-cli/aleph/internal/config"
)

// NewRootCommand returns the top-level CLI command. Without a subcommand
// it starts the interactive chat.
func NewRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "aleph",
		Usage: "Chat with LLMs from your terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   config.ConfigPath(),
			},
			&cli.StringFlag{
				Name:  "mode",
				Usage: "Initial mode (core, quant, debate)",
			},
			&cli.StringFlag{
				Name:  "model",
				Usage: "Initial model id; stays selected across mode switches",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Action: runChat,
		Commands: []*cli.Command{
			NewChatCommand(),
			NewAskCommand(),
			NewModesCommand(),
			NewModelsCommand(),
			NewCollectCommand(),
			NewStatusCommand(),
			NewSecretCommand(),
		},
	}
}

// setupLogging routes slog to stderr; warnings only unless --debug is set.
func setupLogging(cmd *cli.Command) {
	level := slog.LevelWarn
	if cmd.Bool("debug") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadConfig loads the config file named by --config.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	path := cmd.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	slog.Debug("config loaded", "path", path)
	return cfg, nil
}
