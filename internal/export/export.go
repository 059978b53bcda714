// Package export writes task collections as JSON, YAML, CSV or PDF and reads
// JSON or YAML back for import.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.yaml.in/yaml/v3"

	"github.com/ShayCichocki/taskflow/internal/dateutil"
	"github.com/ShayCichocki/taskflow/internal/store"
	"github.com/ShayCichocki/taskflow/pkg/models"
)

// Format is an export/import encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// ErrUnknownFormat is returned for unsupported format names.
var ErrUnknownFormat = errors.New("unknown format")

// ErrNotImportable is returned when decoding a write-only format.
var ErrNotImportable = errors.New("format cannot be imported")

// ParseFormat accepts json, yaml/yml, csv and pdf in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w %q (valid: json, yaml, csv, pdf)", ErrUnknownFormat, s)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// Write encodes tasks to w. now is used for the PDF header and due-date labels.
func Write(w io.Writer, format Format, tasks []models.Task, now time.Time) error {
	if tasks == nil {
		tasks = []models.Task{}
	}
	switch format {
	case FormatJSON:
		return writeJSON(w, tasks)
	case FormatYAML:
		return writeYAML(w, tasks)
	case FormatCSV:
		return writeCSV(w, tasks)
	case FormatPDF:
		return writePDF(w, tasks, now)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

// Read decodes a task array from r. Only JSON and YAML can be read.
// Tasks are returned as decoded; the store normalizes them on import.
func Read(r io.Reader, format Format) ([]models.Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read import: %w", err)
	}

	var tasks []models.Task
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &tasks); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &tasks); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatCSV, FormatPDF:
		return nil, fmt.Errorf("%w: %s", ErrNotImportable, format)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

func writeJSON(w io.Writer, tasks []models.Task) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tasks); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, tasks []models.Task) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(tasks); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

var csvHeader = []string{"id", "title", "description", "completed", "priority", "category", "dueDate", "createdAt"}

func writeCSV(w io.Writer, tasks []models.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	for _, t := range tasks {
		row := []string{
			t.ID,
			t.Title,
			t.Description,
			strconv.FormatBool(t.Completed),
			string(t.Priority),
			t.Category,
			t.Due(),
			t.CreatedAt,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("encode csv: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// PDF column layout on landscape A4 (277mm printable).
var pdfColumns = []struct {
	title string
	width float64
}{
	{"", 10},
	{"Title", 90},
	{"Priority", 25},
	{"Category", 45},
	{"Due", 35},
	{"Created", 72},
}

func writePDF(w io.Writer, tasks []models.Task, now time.Time) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Tasks", true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Tasks")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	stats := store.ComputeStats(tasks, now)
	pdf.Cell(0, 6, fmt.Sprintf("Exported %s - %d total, %d active, %d completed, %d overdue",
		now.Format("Jan 2, 2006 15:04"), stats.Total, stats.Active, stats.Completed, stats.Overdue))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, t := range tasks {
		check := ""
		if t.Completed {
			check = "x"
		}
		due := ""
		if t.DueDate != nil {
			due = dateutil.FormatDate(*t.DueDate, now)
		}
		cells := []string{
			check,
			truncate(t.Title, 48),
			string(t.Priority),
			truncate(t.Category, 24),
			due,
			t.CreatedAt,
		}
		if dateutil.IsOverdue(t, now) {
			pdf.SetTextColor(200, 30, 30)
		}
		for i, col := range pdfColumns {
			pdf.CellFormat(col.width, 7, tr(cells[i]), "1", 0, "L", false, 0, "")
		}
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// Marshal is Write into a byte slice.
func Marshal(format Format, tasks []models.Task, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, format, tasks, now); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
