package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/courseforge/courseforge/internal/cli"
	"github.com/courseforge/courseforge/internal/config"
	"github.com/courseforge/courseforge/internal/db"
	"github.com/courseforge/courseforge/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Config file: env var, else courseforge.yaml in ./  or ~/.courseforge.
	cfg, err := config.Load(os.Getenv("COURSEFORGE_CONFIG"))
	if err != nil {
		return err
	}

	app := &cli.App{
		Config: cfg,
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	}

	if cfg.RecordDB != "" {
		database, err := db.OpenDB(cfg.RecordDB)
		if err != nil {
			return fmt.Errorf("opening record database: %w", err)
		}
		defer database.Close()
		app.Records = repository.NewSQLiteRecordRepo(database)
	}

	// Only prompt for confirmation on a real terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
