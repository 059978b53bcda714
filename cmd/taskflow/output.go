package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"go.yaml.in/yaml/v3"

	"github.com/ShayCichocki/taskflow/internal/dateutil"
	"github.com/ShayCichocki/taskflow/pkg/models"
)

// Output formats for list-style commands.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

// shortIDLen is how many ID characters the table shows; any unique prefix
// is accepted back as an argument.
const shortIDLen = 8

// printStatus prints a status line with a colored symbol.
func printStatus(w io.Writer, symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Fprintf(w, "%s %s\n", c.Sprint(symbol), message)
}

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

func priorityColor(p models.Priority) color.Attribute {
	switch p {
	case models.PriorityHigh:
		return color.FgRed
	case models.PriorityLow:
		return color.FgGreen
	default:
		return color.FgYellow
	}
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (valid: table, json, yaml)", format)
	}
}

// renderTaskTable renders tasks as a bordered table.
func renderTaskTable(tasks []models.Task, now time.Time) string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		done := " "
		if t.Completed {
			done = "x"
		}
		due := ""
		if t.DueDate != nil {
			due = dateutil.FormatDate(*t.DueDate, now)
			if dateutil.IsOverdue(t, now) {
				due += " !"
			}
		}
		rows = append(rows, []string{shortID(t.ID), done, t.Title, string(t.Priority), t.Category, due})
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(muted).
		Headers("ID", "✓", "TITLE", "PRIORITY", "CATEGORY", "DUE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if row >= 0 && row < len(tasks) {
				t := tasks[row]
				if t.Completed {
					return cell.Foreground(lipgloss.Color("242"))
				}
				if col == 5 && dateutil.IsOverdue(t, now) {
					return cell.Foreground(lipgloss.Color("203"))
				}
			}
			return cell
		})
	return tbl.Render()
}

// printTaskDetail prints every field of a task.
func printTaskDetail(w io.Writer, t models.Task, now time.Time) {
	status := color.New(color.FgYellow).Sprint("active")
	if t.Completed {
		status = color.New(color.FgGreen).Sprint("completed")
	}

	fmt.Fprintf(w, "%s\n", color.New(color.Bold).Sprint(t.Title))
	fmt.Fprintf(w, "  ID:          %s\n", t.ID)
	fmt.Fprintf(w, "  Status:      %s\n", status)
	fmt.Fprintf(w, "  Priority:    %s\n", color.New(priorityColor(t.Priority)).Sprint(t.Priority))
	if t.Category != "" {
		fmt.Fprintf(w, "  Category:    %s\n", t.Category)
	}
	if t.DueDate != nil {
		due := fmt.Sprintf("%s (%s)", *t.DueDate, dateutil.FormatDate(*t.DueDate, now))
		if dateutil.IsOverdue(t, now) {
			due = color.New(color.FgRed).Sprint(due + " overdue")
		}
		fmt.Fprintf(w, "  Due:         %s\n", due)
	}
	fmt.Fprintf(w, "  Created:     %s\n", t.CreatedAt)
	if t.Description != "" {
		fmt.Fprintf(w, "\n%s\n", indent(t.Description, "  "))
	}
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
