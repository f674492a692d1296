package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/aleph-cli/aleph/internal/collector"
)

// NewCollectCommand returns the collect subcommand. It previews what
// /dir_analyze would send without calling a model.
func NewCollectCommand() *cli.Command {
	return &cli.Command{
		Name:      "collect",
		Usage:     "Preview the files /dir_analyze would send for a directory",
		ArgsUsage: "<dir>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "show-content",
				Usage: "Print the collected text instead of the file list",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			setupLogging(cmd)

			dir := cmd.Args().First()
			if dir == "" {
				return fmt.Errorf("usage: aleph collect <dir>")
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			result, err := collector.Collect(dir, collector.RulesFromConfig(cfg.Collector))
			if err != nil {
				return err
			}

			if cmd.Bool("show-content") {
				fmt.Fprint(os.Stdout, result.Text())
				return nil
			}
			for _, f := range result.Files {
				fmt.Printf("%8d  %s\n", len(f.Content), f.RelPath)
			}
			fmt.Printf("\n%d files, %d bytes from %s\n", len(result.Files), result.TotalBytes, result.Root)
			fmt.Printf("excluded: %d files, %d directories, %d unreadable\n",
				result.Excluded, result.SkippedDirs, result.Unreadable)
			if result.Truncated {
				fmt.Println("total size cap reached; remaining files were not included")
			}
			return nil
		},
	}
}
