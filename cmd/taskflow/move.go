package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move <id> <position>",
	Short: "Move a task to a position in the list",
	Long: `Move a task to a 1-based position in the saved order.
Positions past the end move the task to the bottom.

Examples:
  taskflow move 3f2a 1     # to the top
  taskflow move 3f2a 999   # to the bottom`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := strconv.Atoi(args[1])
		if err != nil || pos < 1 {
			return fmt.Errorf("invalid position %q (want a number from 1)", args[1])
		}
		return withApp(cmd.Context(), func(app *appContext) error {
			return runMove(cmd.Context(), cmd.OutOrStdout(), app, args[0], pos)
		})
	},
}

func runMove(ctx context.Context, w io.Writer, app *appContext, ref string, pos int) error {
	task, err := app.store.Resolve(ref)
	if err != nil {
		return err
	}
	if err := app.store.Move(ctx, task.ID, pos-1); err != nil {
		return fmt.Errorf("move task: %w", err)
	}

	actual := pos
	if n := app.store.Len(); actual > n {
		actual = n
	}
	printStatus(w, "↕", fmt.Sprintf("Moved %s %s to position %d", shortID(task.ID), task.Title, actual), color.FgCyan)
	return nil
}
