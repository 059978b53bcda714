package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ShayCichocki/taskflow/internal/config"
	"github.com/ShayCichocki/taskflow/internal/logging"
)

var (
	// Global flags
	configPath  string
	backendFlag string
	dataFlag    string
	logLevel    string
	ephemeral   bool

	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "taskflow",
	Short: "Personal task manager",
	Long: `taskflow keeps a personal task list: add, edit, filter, reorder and
complete tasks from the command line, a terminal UI, or a small HTTP API.

With no arguments, launches the interactive terminal UI.

Tasks are saved after every change. Storage backends:
- file    one JSON file per key under $XDG_DATA_HOME/taskflow (default)
- sqlite  a single SQLite database file
- mysql   a shared MySQL database (storage.dsn)
- memory  nothing is saved (also --ephemeral)`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.LoadFromPath(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		applyFlagOverrides(cfg)

		logger, err = logging.New(logging.Options{
			Level: cfg.Log.Level,
			File:  cfg.Log.File,
			// The TUI owns the terminal; only log when a file is configured.
			Quiet: ownsTerminal(cmd),
		})
		if err != nil {
			return err
		}
		logger.Debug("config loaded",
			zap.String("backend", cfg.Storage.Backend),
			zap.String("command", cmd.Name()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, args)
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/taskflow/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Storage backend: file, sqlite, mysql, memory")
	rootCmd.PersistentFlags().StringVar(&dataFlag, "data", "", "Data directory (file) or database path (sqlite)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep tasks in memory only")

	// Add subcommands
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// applyFlagOverrides lets global flags win over every config layer.
func applyFlagOverrides(c *config.Config) {
	if backendFlag != "" {
		c.Storage.Backend = backendFlag
	}
	if dataFlag != "" {
		c.Storage.Path = dataFlag
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	if ephemeral {
		c.Storage.Backend = "memory"
	}
}

// ownsTerminal reports whether cmd runs the full-screen UI: the root command
// itself or tui.
func ownsTerminal(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "tui"
}
