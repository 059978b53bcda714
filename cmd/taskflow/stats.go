package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/taskflow/internal/store"
	"github.com/ShayCichocki/taskflow/pkg/models"
)

var statsOutput string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(app *appContext) error {
			return runStats(cmd.OutOrStdout(), app.store.Tasks(), statsOutput, time.Now())
		})
	},
}

func init() {
	statsCmd.Flags().StringVarP(&statsOutput, "output", "o", outputTable, "Output format: table, json, yaml")
}

func runStats(w io.Writer, tasks []models.Task, output string, now time.Time) error {
	s := store.ComputeStats(tasks, now)
	if output != outputTable {
		return writeStructured(w, output, s)
	}

	pct := 0
	if s.Total > 0 {
		pct = s.Completed * 100 / s.Total
	}
	fmt.Fprintf(w, "Total:     %d\n", s.Total)
	fmt.Fprintf(w, "Active:    %d\n", s.Active)
	fmt.Fprintf(w, "Completed: %d (%d%%)\n", s.Completed, pct)
	overdue := fmt.Sprintf("%d", s.Overdue)
	if s.Overdue > 0 {
		overdue = color.New(color.FgRed, color.Bold).Sprint(overdue)
	}
	fmt.Fprintf(w, "Overdue:   %s\n", overdue)
	return nil
}
