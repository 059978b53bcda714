package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/taskflow/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify taskflow configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/taskflow/config.yaml
Project-specific overrides can be placed in .taskflow.yaml
Environment variables override both, e.g. TASKFLOW_STORAGE_BACKEND=sqlite`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		switch len(args) {
		case 0:
			return displayAllConfig(w, cfg)
		case 1:
			return displayConfigKey(w, cfg, args[0])
		default:
			return setConfigKey(w, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(w io.Writer, c *config.Config) error {
	for _, k := range config.Keys() {
		v, err := config.Display(c, k)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s: %s\n", k, v)
	}
	fmt.Fprintf(w, "\nuser config:    %s\n", config.GetUserConfigPath())
	if p := config.GetProjectConfigPath(); p != "" {
		fmt.Fprintf(w, "project config: %s\n", p)
	}
	return nil
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(w io.Writer, c *config.Config, key string) error {
	v, err := config.Display(c, key)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, v)
	return nil
}

// setConfigKey sets a value in the user config file. Flag and environment
// overrides are not written back, and ${VAR} references stay unexpanded.
func setConfigKey(w io.Writer, key, value string) error {
	if err := config.SetUserValue(key, value); err != nil {
		return err
	}
	printStatus(w, "✓", fmt.Sprintf("Set %s", key), color.FgGreen)
	return nil
}
