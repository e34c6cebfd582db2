package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/app"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/config"
)

type rootOptions struct {
	port      int
	logLevel  string
	migration string
	seeds     string
}

// loadConfig reads the environment and applies any flags given on the command line.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.AppPort = o.port
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("migrations") {
		cfg.MigrationDir = o.migration
	}
	if flags.Changed("seeds") {
		cfg.SeedDir = o.seeds
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "popnow",
		Short:         "POPNOW backend - video uploads, map feed and moderation functions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().IntVar(&opts.port, "port", 8080, "HTTP listen port (overrides POPNOW_PORT)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&opts.migration, "migrations", "migrations", "Directory holding SQL migrations")
	root.PersistentFlags().StringVar(&opts.seeds, "seeds", "seeds", "Directory holding SQL seed files")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := opts.loadConfig(cmd)
				if err != nil {
					return err
				}
				return app.Serve(cmd.Context(), cfg)
			},
		},
		&cobra.Command{
			Use:       "migrate [up|status]",
			Short:     "Apply or list database migrations",
			Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
			ValidArgs: []string{"up", "status"},
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := opts.loadConfig(cmd)
				if err != nil {
					return err
				}
				command := "up"
				if len(args) == 1 {
					command = args[0]
				}
				return app.Migrate(cmd.Context(), cfg, command, cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "seed <name>",
			Short: "Load a seed file such as dev",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := opts.loadConfig(cmd)
				if err != nil {
					return err
				}
				return app.Seed(cmd.Context(), cfg, args[0], cmd.OutOrStdout())
			},
		},
	)

	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
