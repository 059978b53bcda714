package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ShayCichocki/taskflow/internal/storage"
	"github.com/ShayCichocki/taskflow/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive terminal UI",
	Long: `Open the interactive terminal UI. This is also what runs when taskflow
is started without a command.

With the file backend and ui.watch enabled, edits made by other taskflow
processes (or by hand) appear immediately.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return withApp(ctx, func(app *appContext) error {
		opts := tui.Options{Logger: logger}

		if w := startWatcher(app); w != nil {
			defer w.Close()
			opts.Changes = w.Changes()
		}

		return tui.Run(ctx, tui.NewApp(app.store, app.theme, opts))
	})
}

// startWatcher watches the task file when the backend is file-based and
// watching is enabled. Failures are logged and watching is skipped.
func startWatcher(app *appContext) *storage.Watcher {
	fileKV, ok := app.kv.(*storage.File)
	if !ok || !cfg.UI.Watch {
		return nil
	}
	w, err := storage.NewWatcher(fileKV.Dir(), logger, storage.KeyTasks)
	if err != nil {
		logger.Warn("file watching disabled", zap.Error(err))
		return nil
	}
	return w
}
