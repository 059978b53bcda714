package main

import (
	"time"

	"github.com/spf13/cobra"
)

var showOutput string

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one task",
	Long:  `Show every field of a task. The id may be any unique prefix.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(app *appContext) error {
			task, err := app.store.Resolve(args[0])
			if err != nil {
				return err
			}
			if showOutput != outputTable {
				return writeStructured(cmd.OutOrStdout(), showOutput, task)
			}
			printTaskDetail(cmd.OutOrStdout(), task, time.Now())
			return nil
		})
	},
}

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", outputTable, "Output format: table, json, yaml")
}
