package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/taskflow/internal/export"
)

var (
	exportFormat  string
	importFormat  string
	importReplace bool
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export tasks as JSON, YAML, CSV or PDF",
	Long: `Export all tasks. Without a file, writes to stdout.
The format is taken from --format, or from the file extension.

Examples:
  taskflow export backup.json
  taskflow export tasks.pdf
  taskflow export --format yaml > tasks.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		format, err := resolveFormat(exportFormat, path)
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), func(app *appContext) error {
			return runExport(cmd.OutOrStdout(), app, path, format, time.Now())
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import tasks from JSON or YAML",
	Long: `Import tasks from a JSON or YAML array, as written by export.

Tasks whose id already exists are overwritten in place; the rest are added
to the top. With --replace the file becomes the whole task list. Use - to
read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := resolveFormat(importFormat, args[0])
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), func(app *appContext) error {
			return runImport(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), app, args[0], format, importReplace)
		})
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Format: json, yaml, csv, pdf (default: from extension, else json)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Format: json, yaml (default: from extension, else json)")
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "Replace all tasks instead of merging")
}

// resolveFormat prefers an explicit flag, then the file extension, then JSON.
func resolveFormat(flag, path string) (export.Format, error) {
	if flag != "" {
		return export.ParseFormat(flag)
	}
	if path != "" && path != "-" {
		if f, err := export.FormatFromPath(path); err == nil {
			return f, nil
		}
	}
	return export.FormatJSON, nil
}

func runExport(stdout io.Writer, app *appContext, path string, format export.Format, now time.Time) error {
	tasks := app.store.Tasks()

	if path == "" || path == "-" {
		return export.Write(stdout, format, tasks, now)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := export.Write(f, format, tasks, now); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}

	printStatus(stdout, "✓", fmt.Sprintf("Exported %d tasks to %s", len(tasks), path), color.FgGreen)
	return nil
}

func runImport(ctx context.Context, stdin io.Reader, w io.Writer, app *appContext, path string, format export.Format, replace bool) error {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open import file: %w", err)
		}
		defer f.Close()
		r = f
	}

	tasks, err := export.Read(r, format)
	if err != nil {
		return err
	}
	added, updated, err := app.store.Import(ctx, tasks, replace)
	if err != nil {
		return fmt.Errorf("import tasks: %w", err)
	}

	verb := "Imported"
	if replace {
		verb = "Replaced all tasks with"
	}
	printStatus(w, "✓", fmt.Sprintf("%s %d new, %d updated", verb, added, updated), color.FgGreen)
	return nil
}
