package main

import (
	"fmt"

	"github.com/jacksmith/lodge/internal/cli"
	"github.com/jacksmith/lodge/internal/storage"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new lodge directory",
	Long: `Create a .lodge/ directory and record the storage driver in
.lodge/config.yaml.

Drivers:
  yaml     one YAML file per collection (default)
  sqlite   a single lodge.db SQLite database

Fails if .lodge/ already exists.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var initDriver string

func init() {
	initCmd.Flags().StringVar(&initDriver, "driver", string(storage.DriverYAML), "storage driver (yaml or sqlite)")
	initCmd.RegisterFlagCompletionFunc("driver", cobra.FixedCompletions(
		[]string{string(storage.DriverYAML), string(storage.DriverSQLite)}, cobra.ShellCompDirectiveNoFileComp))
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	driver := storage.Driver(initDriver)
	if !driver.Valid() {
		return &cli.ValidationError{Field: "driver", Message: fmt.Sprintf("%q is not one of yaml, sqlite", initDriver)}
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	s, err := storage.Init(rootDir, driver, storage.WithLogger(logger))
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Printf("Initialized lodge in %s (driver: %s)\n", s.LodgePath(), s.Driver())
	return nil
}
