package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:     "rm <id...>",
	Aliases: []string{"delete"},
	Short:   "Delete tasks",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(app *appContext) error {
			return runRemove(cmd.Context(), cmd.OutOrStdout(), app, args)
		})
	},
}

func runRemove(ctx context.Context, w io.Writer, app *appContext, refs []string) error {
	// Resolve everything first so a bad reference deletes nothing.
	ids := make([]string, 0, len(refs))
	titles := make([]string, 0, len(refs))
	for _, ref := range refs {
		task, err := app.store.Resolve(ref)
		if err != nil {
			return err
		}
		ids = append(ids, task.ID)
		titles = append(titles, task.Title)
	}

	for i, id := range ids {
		if err := app.store.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		printStatus(w, "-", fmt.Sprintf("Deleted %s %s", shortID(id), titles[i]), color.FgRed)
	}
	return nil
}
