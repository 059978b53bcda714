package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ShayCichocki/taskflow/internal/config"
	"github.com/ShayCichocki/taskflow/internal/storage"
	"github.com/ShayCichocki/taskflow/internal/store"
	"github.com/ShayCichocki/taskflow/internal/theme"
	"github.com/ShayCichocki/taskflow/pkg/models"
)

// appContext bundles the opened storage, task store and theme for a command.
type appContext struct {
	kv     storage.KV
	store  *store.Store
	theme  *theme.Manager
	logger *zap.Logger
}

// openApp opens the configured backend and loads tasks and theme from it.
func openApp(ctx context.Context, c *config.Config, log *zap.Logger) (*appContext, error) {
	kv, err := storage.Open(ctx, storage.Options{
		Backend: c.Storage.Backend,
		Path:    c.Storage.Path,
		DSN:     c.Storage.DSN,
		Logger:  log,
	})
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return newAppContext(ctx, kv, models.ThemeMode(c.UI.Theme), log)
}

func newAppContext(ctx context.Context, kv storage.KV, fallback models.ThemeMode, log *zap.Logger) (*appContext, error) {
	st, err := store.Open(ctx, kv, store.Options{Logger: log})
	if err != nil {
		_ = kv.Close()
		if errors.Is(err, store.ErrCorrupt) {
			return nil, fmt.Errorf("%w (fix or remove the stored tasks, or use --backend/--data to point elsewhere)", err)
		}
		return nil, err
	}

	th, err := theme.Load(ctx, kv, fallback)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}

	return &appContext{kv: kv, store: st, theme: th, logger: log}, nil
}

// Close releases the storage backend.
func (a *appContext) Close() error {
	return a.kv.Close()
}

// withApp opens the app for the duration of fn.
func withApp(ctx context.Context, fn func(*appContext) error) error {
	app, err := openApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}
