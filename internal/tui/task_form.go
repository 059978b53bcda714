package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ShayCichocki/taskflow/internal/dateutil"
	"github.com/ShayCichocki/taskflow/pkg/models"
)

// Form field order.
const (
	fieldTitle = iota
	fieldDescription
	fieldPriority
	fieldCategory
	fieldDue
	fieldCount
)

var errTitleRequired = errors.New("title is required")

// FormSubmittedMsg is sent when the user saves the form.
type FormSubmittedMsg struct {
	// EditingID is empty for a new task.
	EditingID string
	Input     models.TaskInput
}

// FormCancelledMsg is sent when the user leaves the form without saving.
type FormCancelledMsg struct{}

// TaskForm edits the fields of a new or existing task.
type TaskForm struct {
	editingID   string
	title       textinput.Model
	description textinput.Model
	category    textinput.Model
	due         textinput.Model
	priority    models.Priority
	focus       int
	err         error
	now         func() time.Time
	width       int
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 50
	ti.Prompt = ""
	return ti
}

// NewTaskForm creates an empty form for a new task.
func NewTaskForm(now func() time.Time) *TaskForm {
	f := &TaskForm{
		title:       newInput("What needs doing?", 200),
		description: newInput("Optional details", 1000),
		category:    newInput("e.g. Work", 60),
		due:         newInput("YYYY-MM-DD, today, tomorrow, +3d", 20),
		priority:    models.PriorityMedium,
		now:         now,
		width:       80,
	}
	f.title.Focus()
	return f
}

// EditTaskForm creates a form prefilled from t.
func EditTaskForm(t models.Task, now func() time.Time) *TaskForm {
	f := NewTaskForm(now)
	f.editingID = t.ID
	f.title.SetValue(t.Title)
	f.description.SetValue(t.Description)
	f.category.SetValue(t.Category)
	f.due.SetValue(t.Due())
	f.priority = t.Priority
	if !f.priority.Valid() {
		f.priority = models.PriorityMedium
	}
	return f
}

// Editing reports whether the form edits an existing task.
func (f *TaskForm) Editing() bool {
	return f.editingID != ""
}

// SetWidth sets the width of the form inputs.
func (f *TaskForm) SetWidth(width int) {
	f.width = width
	w := width - 20
	if w < 20 {
		w = 20
	}
	for _, in := range f.inputs() {
		in.Width = w
	}
}

func (f *TaskForm) inputs() []*textinput.Model {
	return []*textinput.Model{&f.title, &f.description, &f.category, &f.due}
}

func (f *TaskForm) inputFor(field int) *textinput.Model {
	switch field {
	case fieldTitle:
		return &f.title
	case fieldDescription:
		return &f.description
	case fieldCategory:
		return &f.category
	case fieldDue:
		return &f.due
	}
	return nil
}

func (f *TaskForm) setFocus(field int) tea.Cmd {
	f.focus = (field + fieldCount) % fieldCount
	var cmd tea.Cmd
	for i := 0; i < fieldCount; i++ {
		in := f.inputFor(i)
		if in == nil {
			continue
		}
		if i == f.focus {
			cmd = in.Focus()
		} else {
			in.Blur()
		}
	}
	return cmd
}

// Update handles messages for the form.
func (f *TaskForm) Update(msg tea.Msg) (*TaskForm, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return f, func() tea.Msg { return FormCancelledMsg{} }
		case "ctrl+s":
			return f, f.submit()
		case "enter":
			if f.focus == fieldCount-1 {
				return f, f.submit()
			}
			return f, f.setFocus(f.focus + 1)
		case "tab", "down":
			return f, f.setFocus(f.focus + 1)
		case "shift+tab", "up":
			return f, f.setFocus(f.focus - 1)
		}

		if f.focus == fieldPriority {
			switch msg.String() {
			case "left", "h":
				f.priority = cyclePriority(f.priority, -1)
			case "right", "l", " ":
				f.priority = cyclePriority(f.priority, 1)
			case "1":
				f.priority = models.PriorityLow
			case "2":
				f.priority = models.PriorityMedium
			case "3":
				f.priority = models.PriorityHigh
			}
			return f, nil
		}
	}

	in := f.inputFor(f.focus)
	if in == nil {
		return f, nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return f, cmd
}

// Result validates the form and returns the entered task fields.
func (f *TaskForm) Result() (models.TaskInput, error) {
	title := strings.TrimSpace(f.title.Value())
	if title == "" {
		return models.TaskInput{}, errTitleRequired
	}
	due, err := dateutil.ParseDue(f.due.Value(), f.now())
	if err != nil {
		return models.TaskInput{}, err
	}
	return models.TaskInput{
		Title:       title,
		Description: strings.TrimSpace(f.description.Value()),
		Priority:    f.priority,
		Category:    strings.TrimSpace(f.category.Value()),
		DueDate:     due,
	}, nil
}

func (f *TaskForm) submit() tea.Cmd {
	input, err := f.Result()
	if err != nil {
		f.err = err
		if errors.Is(err, errTitleRequired) {
			return f.setFocus(fieldTitle)
		}
		return f.setFocus(fieldDue)
	}
	f.err = nil
	id := f.editingID
	return func() tea.Msg {
		return FormSubmittedMsg{EditingID: id, Input: input}
	}
}

// View renders the form.
func (f *TaskForm) View(st Styles) string {
	var b strings.Builder

	heading := "New task"
	if f.Editing() {
		heading = "Edit task"
	}
	b.WriteString(st.Title.Render(heading))
	b.WriteString("\n\n")

	row := func(field int, label, value string) {
		marker := "  "
		if f.focus == field {
			marker = "> "
		}
		b.WriteString(marker + st.FormLabel.Render(label) + value + "\n")
	}

	row(fieldTitle, "Title", f.title.View())
	row(fieldDescription, "Description", f.description.View())
	row(fieldPriority, "Priority", f.priorityView(st))
	row(fieldCategory, "Category", f.category.View())
	row(fieldDue, "Due", f.due.View())

	b.WriteString("\n")
	if f.err != nil {
		b.WriteString(st.Error.Render("  " + f.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(st.Hint.Render("  tab next field • ←/→ priority • ctrl+s save • esc cancel"))
	return b.String()
}

func (f *TaskForm) priorityView(st Styles) string {
	parts := make([]string, 0, 3)
	for _, p := range []models.Priority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh} {
		if p == f.priority {
			parts = append(parts, st.Priority(p).Render("["+string(p)+"]"))
		} else {
			parts = append(parts, st.Muted.Render(" "+string(p)+" "))
		}
	}
	return strings.Join(parts, " ")
}

func cyclePriority(p models.Priority, dir int) models.Priority {
	order := []models.Priority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh}
	i := 1
	for j, o := range order {
		if o == p {
			i = j
		}
	}
	return order[(i+dir+len(order))%len(order)]
}
