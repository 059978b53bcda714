package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ShayCichocki/taskflow/internal/dateutil"
	"github.com/ShayCichocki/taskflow/pkg/models"
)

const (
	emptyNoTasks   = "No tasks yet. Press a to add one."
	emptyNoMatches = "No matching tasks found."
)

// TaskList displays a scrollable list of tasks with a cursor.
type TaskList struct {
	tasks        []models.Task
	selected     int
	scrollOffset int
	width        int
	height       int
}

// NewTaskList creates an empty TaskList.
func NewTaskList() *TaskList {
	return &TaskList{
		tasks:  make([]models.Task, 0),
		width:  80,
		height: 20,
	}
}

// SetTasks replaces the visible tasks. The cursor stays on the same task ID
// when it is still present, otherwise it is clamped.
func (l *TaskList) SetTasks(tasks []models.Task) {
	prevID := ""
	if t, ok := l.Selected(); ok {
		prevID = t.ID
	}

	l.tasks = tasks
	if prevID != "" {
		for i, t := range tasks {
			if t.ID == prevID {
				l.selected = i
				l.ensureVisible()
				return
			}
		}
	}
	l.clamp()
}

// SetSize updates the list dimensions.
func (l *TaskList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.ensureVisible()
}

// Len returns the number of visible tasks.
func (l *TaskList) Len() int {
	return len(l.tasks)
}

// Cursor returns the selected row.
func (l *TaskList) Cursor() int {
	return l.selected
}

// Selected returns the task under the cursor.
func (l *TaskList) Selected() (models.Task, bool) {
	if l.selected < 0 || l.selected >= len(l.tasks) {
		return models.Task{}, false
	}
	return l.tasks[l.selected], true
}

// Neighbor returns the task delta rows away from the cursor.
func (l *TaskList) Neighbor(delta int) (models.Task, bool) {
	i := l.selected + delta
	if i < 0 || i >= len(l.tasks) {
		return models.Task{}, false
	}
	return l.tasks[i], true
}

// Up moves the cursor up one row.
func (l *TaskList) Up() {
	if l.selected > 0 {
		l.selected--
		l.ensureVisible()
	}
}

// Down moves the cursor down one row.
func (l *TaskList) Down() {
	if l.selected < len(l.tasks)-1 {
		l.selected++
		l.ensureVisible()
	}
}

// Select moves the cursor to the task with id, if visible.
func (l *TaskList) Select(id string) {
	for i, t := range l.tasks {
		if t.ID == id {
			l.selected = i
			l.ensureVisible()
			return
		}
	}
}

func (l *TaskList) clamp() {
	if l.selected >= len(l.tasks) {
		l.selected = len(l.tasks) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
	l.ensureVisible()
}

// ensureVisible adjusts scroll offset to keep selected item visible.
func (l *TaskList) ensureVisible() {
	rows := l.height
	if rows < 1 {
		rows = 1
	}

	if l.selected < l.scrollOffset {
		l.scrollOffset = l.selected
	} else if l.selected >= l.scrollOffset+rows {
		l.scrollOffset = l.selected - rows + 1
	}
	if l.scrollOffset < 0 {
		l.scrollOffset = 0
	}
}

// View renders the visible window of the list. filtering selects which
// empty-state message is shown.
func (l *TaskList) View(st Styles, now time.Time, filtering bool) string {
	if len(l.tasks) == 0 {
		msg := emptyNoTasks
		if filtering {
			msg = emptyNoMatches
		}
		return st.Muted.Render("  " + msg)
	}

	end := l.scrollOffset + l.height
	if end > len(l.tasks) {
		end = len(l.tasks)
	}

	lines := make([]string, 0, end-l.scrollOffset)
	for i := l.scrollOffset; i < end; i++ {
		lines = append(lines, l.renderLine(st, l.tasks[i], now, i == l.selected))
	}
	return strings.Join(lines, "\n")
}

func (l *TaskList) renderLine(st Styles, t models.Task, now time.Time, selected bool) string {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}

	var meta []string
	if t.Category != "" {
		meta = append(meta, st.Category.Render("#"+t.Category))
	}
	if t.DueDate != nil {
		due := "due " + dateutil.FormatDate(*t.DueDate, now)
		if dateutil.IsOverdue(t, now) {
			meta = append(meta, st.Overdue.Render(due))
		} else {
			meta = append(meta, st.Muted.Render(due))
		}
	}
	suffix := strings.Join(meta, " ")

	maxTitle := l.width - 10 - lipgloss.Width(suffix)
	if maxTitle < 10 {
		maxTitle = 10
	}
	title := truncate(t.Title, maxTitle)
	if t.Completed {
		title = st.Done.Render(title)
	}

	cursor := "  "
	if selected {
		cursor = "> "
	}
	badge := st.Priority(t.Priority).Render("●")
	line := fmt.Sprintf("%s%s %s %s", cursor, check, badge, title)
	if suffix != "" {
		line += "  " + suffix
	}

	if selected {
		return st.Selected.Render(line)
	}
	return st.Normal.Render(line)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
