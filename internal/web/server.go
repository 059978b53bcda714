// Package web serves the task store over a small JSON API.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ShayCichocki/taskflow/internal/store"
	"github.com/ShayCichocki/taskflow/internal/theme"
)

const (
	maxBodySize     = 1 << 20 // 1MB
	shutdownTimeout = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	Logger *zap.Logger
	// Now defaults to time.Now; used for overdue counts and exports.
	Now func() time.Time
}

// Server is the taskflow HTTP API.
type Server struct {
	store  *store.Store
	theme  *theme.Manager
	router *gin.Engine
	logger *zap.Logger
	now    func() time.Time
}

// NewServer creates a server backed by st and th.
func NewServer(st *store.Store, th *theme.Manager, opts Options) *Server {
	router := gin.New()

	s := &Server{
		store:  st,
		theme:  th,
		router: router,
		logger: opts.Logger,
		now:    opts.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}

	router.Use(gin.Recovery(), s.requestLogger(), limitBody(maxBodySize))

	api := router.Group("/api")
	{
		api.GET("/tasks", s.handleListTasks)
		api.POST("/tasks", s.handleCreateTask)
		api.PUT("/tasks/order", s.handleReorder)
		api.GET("/tasks/:id", s.handleGetTask)
		api.PATCH("/tasks/:id", s.handleUpdateTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)
		api.POST("/tasks/:id/toggle", s.handleToggleTask)
		api.POST("/tasks/:id/move", s.handleMoveTask)

		api.GET("/view", s.handleGetView)
		api.PATCH("/view", s.handlePatchView)
		api.DELETE("/view", s.handleResetView)

		api.GET("/categories", s.handleCategories)
		api.GET("/stats", s.handleStats)

		api.GET("/theme", s.handleGetTheme)
		api.PUT("/theme", s.handleSetTheme)
		api.POST("/theme/toggle", s.handleToggleTheme)

		api.GET("/export", s.handleExport)
		api.POST("/import", s.handleImport)
	}

	return s
}

// Handler returns the router for use with httptest or a custom http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("http server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
