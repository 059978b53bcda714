package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ShayCichocki/taskflow/internal/storage"
	"github.com/ShayCichocki/taskflow/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API",
	Long: `Serve the task list over HTTP.

Routes (all JSON, wrapped as {"success": bool, "data"|"error": ...}):
  GET    /api/tasks?status=&priority=&category=&search=
  POST   /api/tasks
  GET    /api/tasks/:id
  PATCH  /api/tasks/:id
  DELETE /api/tasks/:id
  POST   /api/tasks/:id/toggle
  POST   /api/tasks/:id/move      {"index": n}
  PUT    /api/tasks/order         {"ids": [...]}
  GET    /api/view, PATCH /api/view, DELETE /api/view
  GET    /api/categories
  GET    /api/stats
  GET    /api/theme, PUT /api/theme, POST /api/theme/toggle
  GET    /api/export?format=json|yaml|csv|pdf
  POST   /api/import?format=json|yaml&replace=true`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		if cfg.Log.Level != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}

		ctx := cmd.Context()
		return withApp(ctx, func(app *appContext) error {
			if w := startWatcher(app); w != nil {
				defer w.Close()
				go reloadOnChange(ctx, app, w.Changes())
			}

			srv := web.NewServer(app.store, app.theme, web.Options{Logger: logger})
			return srv.Run(ctx, addr)
		})
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: server.addr)")
}

// reloadOnChange reloads the store whenever the task file changes on disk.
func reloadOnChange(ctx context.Context, app *appContext, changes <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case key, ok := <-changes:
			if !ok {
				return
			}
			if key != storage.KeyTasks {
				continue
			}
			changed, err := app.store.Reload(ctx)
			if err != nil {
				logger.Warn("reload after external change failed", zap.Error(err))
				continue
			}
			if changed {
				logger.Info("tasks reloaded from disk")
			}
		}
	}
}
