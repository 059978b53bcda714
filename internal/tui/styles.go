package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ShayCichocki/taskflow/internal/theme"
	"github.com/ShayCichocki/taskflow/pkg/models"
)

// Styles holds every lipgloss style the TUI renders with, built from a palette.
type Styles struct {
	palette theme.Palette

	Title     lipgloss.Style
	Normal    lipgloss.Style
	Muted     lipgloss.Style
	Selected  lipgloss.Style
	Done      lipgloss.Style
	Overdue   lipgloss.Style
	Category  lipgloss.Style
	Pill      lipgloss.Style
	PillOn    lipgloss.Style
	Border    lipgloss.Style
	FormLabel lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Hint      lipgloss.Style
}

// NewStyles builds styles for mode.
func NewStyles(mode models.ThemeMode) Styles {
	p := theme.PaletteFor(mode)
	return Styles{
		palette: p,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent).
			Padding(0, 1),

		Normal: lipgloss.NewStyle().
			Foreground(p.Text),

		Muted: lipgloss.NewStyle().
			Foreground(p.Muted),

		Selected: lipgloss.NewStyle().
			Background(p.Selected).
			Foreground(p.Text).
			Bold(true),

		Done: lipgloss.NewStyle().
			Foreground(p.Done).
			Strikethrough(true),

		Overdue: lipgloss.NewStyle().
			Foreground(p.Overdue).
			Bold(true),

		Category: lipgloss.NewStyle().
			Foreground(p.Accent).
			Italic(true),

		Pill: lipgloss.NewStyle().
			Foreground(p.Muted).
			Padding(0, 1),

		PillOn: lipgloss.NewStyle().
			Foreground(p.Background).
			Background(p.Accent).
			Bold(true).
			Padding(0, 1),

		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border),

		FormLabel: lipgloss.NewStyle().
			Foreground(p.Muted).
			Width(12),

		Success: lipgloss.NewStyle().
			Foreground(p.Low).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(p.High).
			Bold(true),

		Hint: lipgloss.NewStyle().
			Foreground(p.Muted),
	}
}

// Priority returns the badge style for a priority.
func (s Styles) Priority(pr models.Priority) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(s.palette.PriorityColor(pr)).Bold(pr == models.PriorityHigh)
}
