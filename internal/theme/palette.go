package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ShayCichocki/taskflow/pkg/models"
)

// Palette is the set of colours the TUI renders with.
type Palette struct {
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	Border     lipgloss.Color
	Selected   lipgloss.Color
	Done       lipgloss.Color
	Overdue    lipgloss.Color
	High       lipgloss.Color
	Medium     lipgloss.Color
	Low        lipgloss.Color
	Background lipgloss.Color
}

var darkPalette = Palette{
	Text:       lipgloss.Color("252"),
	Muted:      lipgloss.Color("245"),
	Accent:     lipgloss.Color("39"),
	Border:     lipgloss.Color("240"),
	Selected:   lipgloss.Color("236"),
	Done:       lipgloss.Color("242"),
	Overdue:    lipgloss.Color("203"),
	High:       lipgloss.Color("196"),
	Medium:     lipgloss.Color("214"),
	Low:        lipgloss.Color("42"),
	Background: lipgloss.Color("234"),
}

var lightPalette = Palette{
	Text:       lipgloss.Color("235"),
	Muted:      lipgloss.Color("243"),
	Accent:     lipgloss.Color("25"),
	Border:     lipgloss.Color("250"),
	Selected:   lipgloss.Color("254"),
	Done:       lipgloss.Color("248"),
	Overdue:    lipgloss.Color("160"),
	High:       lipgloss.Color("160"),
	Medium:     lipgloss.Color("130"),
	Low:        lipgloss.Color("28"),
	Background: lipgloss.Color("255"),
}

// PaletteFor returns the colours for mode. Unknown modes get the light palette.
func PaletteFor(mode models.ThemeMode) Palette {
	if mode == models.ThemeDark {
		return darkPalette
	}
	return lightPalette
}

// PriorityColor returns the colour used for a priority badge.
func (p Palette) PriorityColor(pr models.Priority) lipgloss.Color {
	switch pr {
	case models.PriorityHigh:
		return p.High
	case models.PriorityLow:
		return p.Low
	default:
		return p.Medium
	}
}
