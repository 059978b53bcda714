package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/taskflow/pkg/models"
)

var categoriesOutput string

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the categories in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(app *appContext) error {
			return runCategories(cmd.OutOrStdout(), app.store.Tasks(), app.store.Categories(), categoriesOutput)
		})
	},
}

func init() {
	categoriesCmd.Flags().StringVarP(&categoriesOutput, "output", "o", outputTable, "Output format: table, json, yaml")
}

func runCategories(w io.Writer, tasks []models.Task, categories []string, output string) error {
	if output != outputTable {
		return writeStructured(w, output, categories)
	}
	if len(categories) == 0 {
		fmt.Fprintln(w, "No categories yet.")
		return nil
	}

	counts := make(map[string]int, len(categories))
	for _, t := range tasks {
		counts[t.Category]++
	}
	for _, c := range categories {
		fmt.Fprintf(w, "%-24s %d\n", c, counts[c])
	}
	return nil
}
