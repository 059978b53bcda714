package models

import "strings"

// StatusFilter selects tasks by completion state.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusActive    StatusFilter = "active"
	StatusCompleted StatusFilter = "completed"
)

// Valid returns true if the status filter is a known value.
func (s StatusFilter) Valid() bool {
	switch s {
	case StatusAll, StatusActive, StatusCompleted:
		return true
	default:
		return false
	}
}

// Next cycles all -> active -> completed -> all.
func (s StatusFilter) Next() StatusFilter {
	switch s {
	case StatusAll:
		return StatusActive
	case StatusActive:
		return StatusCompleted
	default:
		return StatusAll
	}
}

// PriorityFilter selects tasks by priority. PriorityAny matches every task.
type PriorityFilter string

// PriorityAny disables priority filtering.
const PriorityAny PriorityFilter = "all"

// Valid returns true for "all" or a known priority.
func (p PriorityFilter) Valid() bool {
	return p == PriorityAny || Priority(p).Valid()
}

// Next cycles all -> high -> medium -> low -> all.
func (p PriorityFilter) Next() PriorityFilter {
	switch p {
	case PriorityAny:
		return PriorityFilter(PriorityHigh)
	case PriorityFilter(PriorityHigh):
		return PriorityFilter(PriorityMedium)
	case PriorityFilter(PriorityMedium):
		return PriorityFilter(PriorityLow)
	default:
		return PriorityAny
	}
}

// Filter is the set of user-selected view criteria.
type Filter struct {
	Status   StatusFilter   `json:"status" yaml:"status"`
	Priority PriorityFilter `json:"priority" yaml:"priority"`
	Category string         `json:"category" yaml:"category"`
	Search   string         `json:"search" yaml:"search"`
}

// DefaultFilter returns the filter that matches every task.
func DefaultFilter() Filter {
	return Filter{
		Status:   StatusAll,
		Priority: PriorityAny,
	}
}

// Normalize replaces unknown status or priority values with "all".
func (f *Filter) Normalize() {
	if !f.Status.Valid() {
		f.Status = StatusAll
	}
	if !f.Priority.Valid() {
		f.Priority = PriorityAny
	}
}

// IsFiltering reports whether any criterion narrows the view.
func (f Filter) IsFiltering() bool {
	return f.Status != StatusAll ||
		f.Priority != PriorityAny ||
		f.Category != "" ||
		f.Search != ""
}

// Matches reports whether a task passes every criterion.
func (f Filter) Matches(t Task) bool {
	if f.Status == StatusActive && t.Completed {
		return false
	}
	if f.Status == StatusCompleted && !t.Completed {
		return false
	}

	if f.Priority != PriorityAny && f.Priority != "" && Priority(f.Priority) != t.Priority {
		return false
	}

	if f.Category != "" && t.Category != f.Category {
		return false
	}

	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}

	return true
}

// FilterPatch is a partial filter update; nil fields keep their current value.
type FilterPatch struct {
	Status   *StatusFilter   `json:"status,omitempty"`
	Priority *PriorityFilter `json:"priority,omitempty"`
	Category *string         `json:"category,omitempty"`
	Search   *string         `json:"search,omitempty"`
}

// Apply merges the patch into f and returns the result.
func (p FilterPatch) Apply(f Filter) Filter {
	if p.Status != nil {
		f.Status = *p.Status
	}
	if p.Priority != nil {
		f.Priority = *p.Priority
	}
	if p.Category != nil {
		f.Category = *p.Category
	}
	if p.Search != nil {
		f.Search = *p.Search
	}
	f.Normalize()
	return f
}

// ThemeMode is the UI colour scheme.
type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

// Valid returns true if the mode is light or dark.
func (m ThemeMode) Valid() bool {
	return m == ThemeLight || m == ThemeDark
}

// Toggle returns the opposite mode.
func (m ThemeMode) Toggle() ThemeMode {
	if m == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}
