package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/musicarchive/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-d string   database file path
//	-l string   log level
//	-f string   log format
//
// Only these flags are taken from args (see flagx.FilterArgs) so subcommand
// names and cobra flags are left alone.
func parseFlags(cfg *Config, args []string) error {
	filtered := flagx.FilterArgs(args, []string{"-d", "-l", "-f"})

	fs := flag.NewFlagSet("musicarchive", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the SQLite database file")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format (text, json)")

	if err := fs.Parse(filtered); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
