package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrUnknownKey is returned for dot-notation keys that do not exist.
var ErrUnknownKey = errors.New("unknown configuration key")

var validBackends = []string{"file", "sqlite", "mysql", "memory"}
var validThemes = []string{"auto", "light", "dark"}
var validLevels = []string{"debug", "info", "warn", "error"}

// Keys returns every settable key in display order.
func Keys() []string {
	return []string{
		"storage.backend",
		"storage.path",
		"storage.dsn",
		"server.addr",
		"ui.theme",
		"ui.watch",
		"log.level",
		"log.file",
	}
}

// Get returns a configuration value by dot-notation key.
func Get(cfg *Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "storage.backend":
		return cfg.Storage.Backend, nil
	case "storage.path":
		return cfg.Storage.Path, nil
	case "storage.dsn":
		return cfg.Storage.DSN, nil
	case "server.addr":
		return cfg.Server.Addr, nil
	case "ui.theme":
		return cfg.UI.Theme, nil
	case "ui.watch":
		return strconv.FormatBool(cfg.UI.Watch), nil
	case "log.level":
		return cfg.Log.Level, nil
	case "log.file":
		return cfg.Log.File, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Display returns a value suitable for printing, with secrets masked.
func Display(cfg *Config, key string) (string, error) {
	v, err := Get(cfg, key)
	if err != nil {
		return "", err
	}
	if strings.ToLower(key) == "storage.dsn" {
		return MaskDSN(v), nil
	}
	if v == "" {
		return "(not set)", nil
	}
	return v, nil
}

// Set sets a configuration value by dot-notation key, validating enumerations.
func Set(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "storage.backend":
		if !oneOf(value, validBackends) {
			return fmt.Errorf("invalid storage.backend %q (valid: %s)", value, strings.Join(validBackends, ", "))
		}
		cfg.Storage.Backend = value
	case "storage.path":
		cfg.Storage.Path = value
	case "storage.dsn":
		cfg.Storage.DSN = value
	case "server.addr":
		cfg.Server.Addr = value
	case "ui.theme":
		if !oneOf(value, validThemes) {
			return fmt.Errorf("invalid ui.theme %q (valid: %s)", value, strings.Join(validThemes, ", "))
		}
		cfg.UI.Theme = value
	case "ui.watch":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for ui.watch: %w", err)
		}
		cfg.UI.Watch = b
	case "log.level":
		if !oneOf(value, validLevels) {
			return fmt.Errorf("invalid log.level %q (valid: %s)", value, strings.Join(validLevels, ", "))
		}
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// MaskDSN hides the password in a MySQL DSN for display.
func MaskDSN(dsn string) string {
	if dsn == "" {
		return "(not set)"
	}
	c, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "****"
	}
	if c.Passwd != "" {
		c.Passwd = "****"
	}
	return c.FormatDSN()
}

func oneOf(v string, options []string) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}
