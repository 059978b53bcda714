package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/taskflow/internal/dateutil"
	"github.com/ShayCichocki/taskflow/pkg/models"
)

var (
	addDescription string
	addPriority    string
	addCategory    string
	addDue         string
)

var addCmd = &cobra.Command{
	Use:   "add <title...>",
	Short: "Add a task",
	Long: `Add a task to the top of the list.

Due dates accept YYYY-MM-DD, today, tomorrow, or +Nd (N days from today).

Examples:
  taskflow add Buy milk -c Home
  taskflow add "Quarterly report" -p high --due +7d -d "Numbers from finance"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := buildTaskInput(strings.Join(args, " "), addDescription, addPriority, addCategory, addDue, time.Now())
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), func(app *appContext) error {
			return runAdd(cmd.Context(), cmd.OutOrStdout(), app, input)
		})
	},
}

func init() {
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Longer description")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "medium", "Priority: low, medium, high")
	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", "Category label")
	addCmd.Flags().StringVar(&addDue, "due", "", "Due date (YYYY-MM-DD, today, tomorrow, +Nd)")
}

// buildTaskInput validates flag values into a TaskInput.
func buildTaskInput(title, description, priority, category, due string, now time.Time) (models.TaskInput, error) {
	p, ok := models.ParsePriority(priority)
	if !ok {
		return models.TaskInput{}, fmt.Errorf("invalid priority %q (valid: low, medium, high)", priority)
	}
	dueDate, err := dateutil.ParseDue(due, now)
	if err != nil {
		return models.TaskInput{}, err
	}
	return models.TaskInput{
		Title:       strings.TrimSpace(title),
		Description: description,
		Priority:    p,
		Category:    strings.TrimSpace(category),
		DueDate:     dueDate,
	}, nil
}

func runAdd(ctx context.Context, w io.Writer, app *appContext, input models.TaskInput) error {
	task, err := app.store.Add(ctx, input)
	if err != nil {
		return fmt.Errorf("add task: %w", err)
	}
	printStatus(w, "+", fmt.Sprintf("Added %s %s", shortID(task.ID), task.Title), color.FgGreen)
	return nil
}
