package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"NewsPress/internal/app"
	"NewsPress/internal/config"
	"NewsPress/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath  string
		jsonDir     string
		markdownDir string
		cronExpr    string
	)

	cmd := &cobra.Command{
		Use:          "newspress",
		Short:        "Builds plaintext news editions: JSON feeds plus a markdown document tree",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load(configPath)
			logger := logging.New(cfg.Logging.Level)

			application, err := app.New(cfg, app.Options{
				JSONDir:     jsonDir,
				MarkdownDir: markdownDir,
				Cron:        cronExpr,
			}, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return application.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the YAML config file")
	cmd.Flags().StringVar(&jsonDir, "json-output-dir", "", "directory for edition JSON feeds")
	cmd.Flags().StringVar(&markdownDir, "markdown-output-dir", "", "directory for the markdown document tree")
	cmd.Flags().StringVar(&cronExpr, "cron", "", "cron expression; when set the builder keeps running on schedule")
	cmd.MarkFlagRequired("json-output-dir")
	cmd.MarkFlagRequired("markdown-output-dir")

	return cmd
}
