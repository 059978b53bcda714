package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/taskflow/pkg/models"
)

var themeCmd = &cobra.Command{
	Use:   "theme [light|dark|toggle]",
	Short: "Show or change the color theme",
	Long: `Show the saved theme, set it, or toggle between light and dark.
The theme is stored with your tasks and shared by the terminal UI and API.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"light", "dark", "toggle"},
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := ""
		if len(args) == 1 {
			arg = args[0]
		}
		return withApp(cmd.Context(), func(app *appContext) error {
			return runTheme(cmd.Context(), cmd.OutOrStdout(), app, arg)
		})
	},
}

func runTheme(ctx context.Context, w io.Writer, app *appContext, arg string) error {
	switch strings.ToLower(arg) {
	case "":
		fmt.Fprintln(w, app.theme.Mode())
		return nil
	case "toggle":
		mode, err := app.theme.Toggle(ctx)
		if err != nil {
			return err
		}
		printStatus(w, "✓", "Theme set to "+string(mode), color.FgGreen)
		return nil
	default:
		mode := models.ThemeMode(strings.ToLower(arg))
		if err := app.theme.Set(ctx, mode); err != nil {
			return err
		}
		printStatus(w, "✓", "Theme set to "+string(mode), color.FgGreen)
		return nil
	}
}
