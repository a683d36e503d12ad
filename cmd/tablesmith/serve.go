package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/app"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/config"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API server",
		Long: `Serve starts the HTTP server and blocks until SIGINT or SIGTERM, then
drains in-flight requests before exiting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if opts.logLevel != "" {
				if err := os.Setenv(config.EnvPrefix+"_LOGGING_LEVEL", opts.logLevel); err != nil {
					return err
				}
			}
			a, err := app.New(ctx, opts.configPath)
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, a.Close()) }()
			return a.Run(ctx)
		},
	}
}
