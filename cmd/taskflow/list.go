package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/taskflow/internal/store"
	"github.com/ShayCichocki/taskflow/pkg/models"
)

var (
	listStatus   string
	listPriority string
	listCategory string
	listSearch   string
	listOutput   string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List tasks in their saved order, optionally filtered.

All filters combine: a task is shown only when it matches every one.
Category matching is exact; search matches title or description, ignoring case.

Examples:
  taskflow list --status active --priority high
  taskflow list -c Work -s report
  taskflow list -o json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := filterFromFlags(listStatus, listPriority, listCategory, listSearch)
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), func(app *appContext) error {
			return runList(cmd.OutOrStdout(), app.store.Tasks(), f, listOutput, time.Now())
		})
	},
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "all", "Status: all, active, completed")
	listCmd.Flags().StringVarP(&listPriority, "priority", "p", "all", "Priority: all, low, medium, high")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Exact category")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Text to find in title or description")
	listCmd.Flags().StringVarP(&listOutput, "output", "o", outputTable, "Output format: table, json, yaml")
}

// filterFromFlags validates filter flag values.
func filterFromFlags(status, priority, category, search string) (models.Filter, error) {
	f := models.Filter{
		Status:   models.StatusFilter(strings.ToLower(status)),
		Priority: models.PriorityFilter(strings.ToLower(priority)),
		Category: category,
		Search:   search,
	}
	if f.Status == "" {
		f.Status = models.StatusAll
	}
	if f.Priority == "" {
		f.Priority = models.PriorityAny
	}
	if !f.Status.Valid() {
		return f, fmt.Errorf("invalid status %q (valid: all, active, completed)", status)
	}
	if !f.Priority.Valid() {
		return f, fmt.Errorf("invalid priority %q (valid: all, low, medium, high)", priority)
	}
	return f, nil
}

func runList(w io.Writer, all []models.Task, f models.Filter, output string, now time.Time) error {
	tasks := store.Apply(all, f)

	if output != outputTable {
		return writeStructured(w, output, tasks)
	}

	if len(tasks) == 0 {
		if f.IsFiltering() && len(all) > 0 {
			fmt.Fprintln(w, "No matching tasks found.")
		} else {
			fmt.Fprintln(w, "No tasks yet. Add one with 'taskflow add <title>'.")
		}
		return nil
	}

	fmt.Fprintln(w, renderTaskTable(tasks, now))
	if f.IsFiltering() {
		fmt.Fprintf(w, "Showing %d of %d tasks\n", len(tasks), len(all))
	} else {
		fmt.Fprintf(w, "%d tasks\n", len(tasks))
	}
	return nil
}
