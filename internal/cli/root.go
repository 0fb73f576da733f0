package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/musicarchive/internal/buildinfo"
	"github.com/dmitrijs2005/musicarchive/internal/config"
	"github.com/dmitrijs2005/musicarchive/internal/logging"
	"github.com/dmitrijs2005/musicarchive/internal/storage"
	"github.com/spf13/cobra"
)

// loadConfig is a seam for tests; the config loader reads its own flags
// (-c, -d, -l, -f) from the raw command line.
var loadConfig = func() (*config.Config, error) {
	return config.LoadConfig(os.Args[1:])
}

func newLogger(cfg *config.Config) (logging.Logger, error) {
	return logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
}

// NewRootCommand builds the musicarchive command tree. Without a subcommand
// it starts the interactive shell.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "musicarchive",
		Short: "Role-gated archive for recordings, lyrics and scores",
		Long: `musicarchive keeps audio recordings, lyrics and music scores in a local
SQLite file. Every payload is stored with its SHA-256 checksum and checked on
read; admins can add, change and delete artefacts, users can read them.

Configuration flags (read before cobra's):
  -c, -config <file>   JSON or YAML config file
  -d <path>            database file
  -l <level>           log level (debug, info, warn, error)
  -f <format>          log format (text, json)`,
		Args:               cobra.ArbitraryArgs,
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd.Context())
		},
	}

	cmd.AddCommand(newMigrateCommand(), newVersionCommand())
	return cmd
}

func runShell(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	app, err := NewApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	app.Run(ctx)
	return nil
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:                "migrate",
		Short:              "Create or upgrade the database schema and print its version",
		Args:               cobra.ArbitraryArgs,
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			db, err := storage.Open(ctx, cfg.DatabasePath, cfg.BusyTimeout)
			if err != nil {
				return err
			}
			defer db.Close()

			v, err := storage.SchemaVersion(ctx, db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: schema version %d\n", cfg.DatabasePath, v)
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	}
}
