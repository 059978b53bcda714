package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:     "toggle <id...>",
	Aliases: []string{"done"},
	Short:   "Mark tasks complete, or reopen completed ones",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(app *appContext) error {
			return runToggle(cmd.Context(), cmd.OutOrStdout(), app, args)
		})
	},
}

func runToggle(ctx context.Context, w io.Writer, app *appContext, refs []string) error {
	for _, ref := range refs {
		task, err := app.store.Resolve(ref)
		if err != nil {
			return err
		}
		updated, err := app.store.Toggle(ctx, task.ID)
		if err != nil {
			return fmt.Errorf("toggle task: %w", err)
		}
		if updated.Completed {
			printStatus(w, "✓", fmt.Sprintf("Completed %s %s", shortID(updated.ID), updated.Title), color.FgGreen)
		} else {
			printStatus(w, "○", fmt.Sprintf("Reopened %s %s", shortID(updated.ID), updated.Title), color.FgYellow)
		}
	}
	return nil
}
