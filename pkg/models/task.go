package models

import "strings"

// Priority is the urgency level of a task.
type Priority string

const (
	// PriorityLow is for tasks that can wait.
	PriorityLow Priority = "low"
	// PriorityMedium is the default priority.
	PriorityMedium Priority = "medium"
	// PriorityHigh is for urgent tasks.
	PriorityHigh Priority = "high"
)

// Valid returns true if the priority is a known value.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Rank orders priorities from high (0) to low (2). Unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// ParsePriority parses a priority name case-insensitively.
func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	return p, p.Valid()
}

// Task is a single to-do item.
// JSON field names match the persisted blob format, so existing data loads unchanged.
type Task struct {
	// ID is a random UUID assigned on creation.
	ID string `json:"id" yaml:"id"`
	// Title is the short name of the task.
	Title string `json:"title" yaml:"title"`
	// Description holds free-form details.
	Description string `json:"description" yaml:"description"`
	// Completed is true once the task is done.
	Completed bool `json:"completed" yaml:"completed"`
	// Priority is low, medium or high.
	Priority Priority `json:"priority" yaml:"priority"`
	// Category is a free-form grouping label; empty means uncategorized.
	Category string `json:"category" yaml:"category"`
	// DueDate is a calendar date (YYYY-MM-DD) or nil when the task has none.
	DueDate *string `json:"dueDate" yaml:"dueDate"`
	// CreatedAt is the creation instant in RFC3339 form.
	CreatedAt string `json:"createdAt" yaml:"createdAt"`
}

// Normalize applies defaults for optional fields. It performs no other validation.
func (t *Task) Normalize() {
	if !t.Priority.Valid() {
		t.Priority = PriorityMedium
	}
	if t.DueDate != nil && strings.TrimSpace(*t.DueDate) == "" {
		t.DueDate = nil
	}
}

// Due returns the due date or the empty string.
func (t Task) Due() string {
	if t.DueDate == nil {
		return ""
	}
	return *t.DueDate
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return t
}

// TaskInput carries the caller-supplied fields of a new task.
// ID and CreatedAt are assigned by the store.
type TaskInput struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Completed   bool     `json:"completed" yaml:"completed"`
	Priority    Priority `json:"priority" yaml:"priority"`
	Category    string   `json:"category" yaml:"category"`
	DueDate     *string  `json:"dueDate" yaml:"dueDate"`
}

// TaskPatch is a partial update. Nil fields are left unchanged.
// ClearDueDate removes the due date; it wins over DueDate.
type TaskPatch struct {
	Title        *string   `json:"title,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Completed    *bool     `json:"completed,omitempty"`
	Priority     *Priority `json:"priority,omitempty"`
	Category     *string   `json:"category,omitempty"`
	DueDate      *string   `json:"dueDate,omitempty"`
	ClearDueDate bool      `json:"clearDueDate,omitempty"`
	CreatedAt    *string   `json:"createdAt,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil &&
		p.Priority == nil && p.Category == nil && p.DueDate == nil &&
		!p.ClearDueDate && p.CreatedAt == nil
}

// Apply merges the patch into t. The ID is never touched.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.DueDate != nil {
		d := *p.DueDate
		t.DueDate = &d
	}
	if p.ClearDueDate {
		t.DueDate = nil
	}
	if p.CreatedAt != nil {
		t.CreatedAt = *p.CreatedAt
	}
	t.Normalize()
}

// Stats summarizes a task collection.
type Stats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
}
