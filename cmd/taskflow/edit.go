package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ShayCichocki/taskflow/internal/dateutil"
	"github.com/ShayCichocki/taskflow/pkg/models"
)

var (
	editTitle       string
	editDescription string
	editPriority    string
	editCategory    string
	editDue         string
	editNoDue       bool
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of a task",
	Long: `Change one or more fields of a task. Only the flags you pass are changed.

Examples:
  taskflow edit 3f2a --priority high
  taskflow edit 3f2a --title "New title" --category ""
  taskflow edit 3f2a --no-due`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch, err := buildTaskPatch(cmd.Flags(), time.Now())
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), func(app *appContext) error {
			return runEdit(cmd.Context(), cmd.OutOrStdout(), app, args[0], patch)
		})
	},
}

func init() {
	editCmd.Flags().StringVarP(&editTitle, "title", "t", "", "New title")
	editCmd.Flags().StringVarP(&editDescription, "description", "d", "", "New description")
	editCmd.Flags().StringVarP(&editPriority, "priority", "p", "", "New priority: low, medium, high")
	editCmd.Flags().StringVarP(&editCategory, "category", "c", "", "New category (empty to clear)")
	editCmd.Flags().StringVar(&editDue, "due", "", "New due date (YYYY-MM-DD, today, tomorrow, +Nd)")
	editCmd.Flags().BoolVar(&editNoDue, "no-due", false, "Remove the due date")
}

// buildTaskPatch turns the flags that were explicitly set into a patch.
func buildTaskPatch(flags *pflag.FlagSet, now time.Time) (models.TaskPatch, error) {
	var patch models.TaskPatch

	if flags.Changed("title") {
		title := strings.TrimSpace(editTitle)
		if title == "" {
			return patch, errors.New("title cannot be empty")
		}
		patch.Title = &title
	}
	if flags.Changed("description") {
		d := editDescription
		patch.Description = &d
	}
	if flags.Changed("priority") {
		p, ok := models.ParsePriority(editPriority)
		if !ok {
			return patch, fmt.Errorf("invalid priority %q (valid: low, medium, high)", editPriority)
		}
		patch.Priority = &p
	}
	if flags.Changed("category") {
		c := strings.TrimSpace(editCategory)
		patch.Category = &c
	}
	if flags.Changed("due") {
		due, err := dateutil.ParseDue(editDue, now)
		if err != nil {
			return patch, err
		}
		if due == nil {
			patch.ClearDueDate = true
		} else {
			patch.DueDate = due
		}
	}
	if editNoDue {
		patch.ClearDueDate = true
	}

	if patch.Empty() {
		return patch, errors.New("nothing to change (pass at least one of --title, --description, --priority, --category, --due, --no-due)")
	}
	return patch, nil
}

func runEdit(ctx context.Context, w io.Writer, app *appContext, ref string, patch models.TaskPatch) error {
	task, err := app.store.Resolve(ref)
	if err != nil {
		return err
	}
	updated, err := app.store.Update(ctx, task.ID, patch)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	printStatus(w, "~", fmt.Sprintf("Updated %s %s", shortID(updated.ID), updated.Title), color.FgCyan)
	return nil
}
