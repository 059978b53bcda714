// Package theme persists the light/dark preference and maps it to terminal colours.
package theme

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/ShayCichocki/taskflow/internal/storage"
	"github.com/ShayCichocki/taskflow/pkg/models"
)

// Manager holds the current theme and mirrors changes to storage under storage.KeyTheme.
type Manager struct {
	kv   storage.KV
	mu   sync.RWMutex
	mode models.ThemeMode
}

// Load reads the saved theme. When nothing valid is saved it falls back to
// fallback (typically from config), then to terminal detection.
func Load(ctx context.Context, kv storage.KV, fallback models.ThemeMode) (*Manager, error) {
	saved, ok, err := kv.GetItem(ctx, storage.KeyTheme)
	if err != nil {
		return nil, fmt.Errorf("load theme: %w", err)
	}

	mode := models.ThemeMode(strings.TrimSpace(saved))
	if !ok || !mode.Valid() {
		mode = fallback
	}
	if !mode.Valid() {
		mode = Detect()
	}
	return &Manager{kv: kv, mode: mode}, nil
}

// Detect guesses the terminal background from COLORFGBG ("fg;bg").
// Background colour indexes 0-6 and 8 are dark in the standard palette.
func Detect() models.ThemeMode {
	v := os.Getenv("COLORFGBG")
	if v == "" {
		return models.ThemeLight
	}
	parts := strings.Split(v, ";")
	bg, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return models.ThemeLight
	}
	if bg < 7 || bg == 8 {
		return models.ThemeDark
	}
	return models.ThemeLight
}

// Mode returns the current theme.
func (m *Manager) Mode() models.ThemeMode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mode
}

// Set changes and persists the theme.
func (m *Manager) Set(ctx context.Context, mode models.ThemeMode) error {
	if !mode.Valid() {
		return fmt.Errorf("invalid theme %q (valid: light, dark)", mode)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.kv.SetItem(ctx, storage.KeyTheme, string(mode)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	m.mode = mode
	return nil
}

// Toggle flips between light and dark, persists, and returns the new mode.
func (m *Manager) Toggle(ctx context.Context) (models.ThemeMode, error) {
	next := m.Mode().Toggle()
	if err := m.Set(ctx, next); err != nil {
		return m.Mode(), err
	}
	return next, nil
}
