package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aleph-cli/aleph/cmd/commands"
	"github.com/aleph-cli/aleph/internal/config"
	"github.com/aleph-cli/aleph/internal/secrets"
)

func main() {
	if err := config.LoadDotenv(config.DotenvPath(), ".env"); err != nil {
		slog.Warn("failed to load .env", "error", err)
	}
	if _, err := secrets.UnsealEnv(config.AgeKeyPath()); err != nil {
		slog.Warn("failed to decrypt secrets", "error", err)
	}

	// SIGINT is left to the chat loop, which uses it to cancel one request.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	cmd := commands.NewRootCommand()
	if err := cmd.Run(ctx, os.Args); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}
