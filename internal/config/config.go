// Package config handles configuration loading and management for taskflow.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const projectConfigName = ".taskflow.yaml"

// Config holds all configuration for taskflow.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Server  ServerConfig  `mapstructure:"server"`
	UI      UIConfig      `mapstructure:"ui"`
	Log     LogConfig     `mapstructure:"log"`
}

// StorageConfig selects where tasks are persisted.
type StorageConfig struct {
	// Backend is file, sqlite, mysql or memory.
	Backend string `mapstructure:"backend"`
	// Path is the data directory (file) or database file (sqlite). Empty means the XDG default.
	Path string `mapstructure:"path"`
	// DSN is the MySQL data source name, e.g. user:pass@tcp(host:3306)/taskflow.
	DSN string `mapstructure:"dsn"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// UIConfig holds display settings.
type UIConfig struct {
	// Theme is the initial theme when none has been saved: light, dark, or auto.
	Theme string `mapstructure:"theme"`
	// Watch reloads the TUI when the task file changes on disk.
	Watch bool `mapstructure:"watch"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	// File receives log output. Empty means stderr for commands; the TUI discards logs unless set.
	File string `mapstructure:"file"`
}

// Load builds the effective configuration. Later layers win:
//
//	built-in defaults < user config < project .taskflow.yaml < TASKFLOW_* env
//
// The user config lives at $XDG_CONFIG_HOME/taskflow/config.yaml. A missing
// user or project file is not an error; an unreadable one is.
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigFile(GetUserConfigPath())
	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return nil, fmt.Errorf("read user config: %w", err)
	}

	if project := findProjectConfig(); project != "" {
		pv := viper.New()
		pv.SetConfigFile(project)
		if err := pv.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read project config %s: %w", project, err)
		}
		if err := v.MergeConfigMap(pv.AllSettings()); err != nil {
			return nil, fmt.Errorf("merge project config: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFromPath reads a single config file on top of the defaults. Used by
// --config and by tests.
func LoadFromPath(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return unmarshal(v)
}

// isNotExist matches viper's not-found error as well as a plain missing file,
// which is what viper returns when SetConfigFile names an absent path.
func isNotExist(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf) || errors.Is(err, fs.ErrNotExist)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("TASKFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// Expand ${VAR} references so secrets can stay out of the file.
	cfg.Storage.DSN = os.ExpandEnv(cfg.Storage.DSN)
	cfg.Storage.Path = expandHome(cfg.Storage.Path)
	cfg.Log.File = expandHome(cfg.Log.File)

	return cfg, nil
}

// SetUserValue validates key=value and writes it into the user config file.
func SetUserValue(key, value string) error {
	path := GetUserConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return SetFileValue(path, key, value)
}

// SetFileValue validates key=value and writes it into the config file at
// path, creating the file if needed. Only the raw file is read and written:
// defaults, TASKFLOW_* variables and ${VAR} references are left out, so
// secrets kept in the environment stay there.
func SetFileValue(path, key, value string) error {
	check := Default()
	if err := Set(check, key, value); err != nil {
		return err
	}
	// Store the typed value, e.g. a bool for ui.watch.
	key = strings.ToLower(key)
	var typed any = value
	if key == "ui.watch" {
		typed = check.UI.Watch
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	v.Set(key, typed)
	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the nearest .taskflow.yaml, or "" when there is none.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.path", "")
	v.SetDefault("storage.dsn", "")

	v.SetDefault("server.addr", "127.0.0.1:8420")

	v.SetDefault("ui.theme", "auto")
	v.SetDefault("ui.watch", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// getUserConfigDir returns the XDG config directory for taskflow.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "taskflow")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "taskflow")
	}
	return filepath.Join(home, ".config", "taskflow")
}

// findProjectConfig walks from the working directory up to the filesystem
// root and returns the first .taskflow.yaml found, or "".
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for ; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, projectConfigName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		if filepath.Dir(dir) == dir {
			return ""
		}
	}
}

// expandHome expands a leading ~/ and ${VAR} references in a path.
func expandHome(p string) string {
	p = os.ExpandEnv(p)
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: "file",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8420",
		},
		UI: UIConfig{
			Theme: "auto",
			Watch: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
