// Package main is the entry point for the lodge CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jacksmith/lodge/internal/cli"
	"github.com/jacksmith/lodge/internal/storage"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lodge",
	Short: "lodge - facilities, customers and reservations",
	Long: `lodge keeps track of lodging facilities, the customers who stay at them,
and the reservations that tie the two together.

Each facility has a remaining capacity. Reserving takes one unit and
cancelling gives one back. Data lives in .lodge/ in the working directory
(or --dir), stored as YAML files or a single SQLite database.`,
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	// Show help when no subcommand is provided
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var (
	rootDir      string
	rootLogLevel string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "dir", ".", "directory containing .lodge/")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "", "log level (debug, info, warn, error); overrides .lodgeconfig.yaml")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("lodge version {{.Version}}\n")
}

// newLogger builds the stderr logger. --log-level wins over log_level in
// .lodgeconfig.yaml.
func newLogger() (*slog.Logger, error) {
	name := rootLogLevel
	if name == "" {
		cfg, err := storage.LoadConfigAt(rootDir)
		if err != nil {
			return nil, err
		}
		name = cfg.LogLevel
	}
	level, err := storage.ParseLogLevel(name)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

// openStorage opens the .lodge/ directory under --dir with the CLI logger.
func openStorage() (*storage.Storage, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, err
	}
	return storage.Open(rootDir, storage.WithLogger(logger))
}
