package tui

import (
	"strings"

	"github.com/ShayCichocki/taskflow/pkg/models"
)

// renderFilterBar shows the active criteria as pills. The search pill shows
// the live input while searching.
func renderFilterBar(st Styles, f models.Filter, searchView string, searching bool) string {
	pill := func(label string, active bool) string {
		if active {
			return st.PillOn.Render(label)
		}
		return st.Pill.Render(label)
	}

	category := f.Category
	if category == "" {
		category = "all"
	}

	parts := []string{
		pill("[s] status: "+string(f.Status), f.Status != models.StatusAll),
		pill("[p] priority: "+string(f.Priority), f.Priority != models.PriorityAny),
		pill("[c] category: "+category, f.Category != ""),
	}

	switch {
	case searching:
		parts = append(parts, st.PillOn.Render("/")+" "+searchView)
	case f.Search != "":
		parts = append(parts, pill("[/] search: "+f.Search, true))
	default:
		parts = append(parts, pill("[/] search", false))
	}

	if f.IsFiltering() {
		parts = append(parts, st.Hint.Render("[r] reset"))
	}
	return strings.Join(parts, " ")
}

// nextCategory cycles "" -> categories[0] -> ... -> "". An unknown current
// value restarts the cycle.
func nextCategory(current string, categories []string) string {
	if len(categories) == 0 {
		return ""
	}
	if current == "" {
		return categories[0]
	}
	for i, c := range categories {
		if c == current {
			if i+1 < len(categories) {
				return categories[i+1]
			}
			return ""
		}
	}
	return ""
}
