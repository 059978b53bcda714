package tui

import (
	"testing"

	"github.com/ShayCichocki/taskflow/pkg/models"
)

func listOf(ids ...string) []models.Task {
	out := make([]models.Task, len(ids))
	for i, id := range ids {
		out[i] = models.Task{ID: id, Title: "task " + id, Priority: models.PriorityMedium}
	}
	return out
}

func TestTaskList_CursorFollowsTask(t *testing.T) {
	l := NewTaskList()
	l.SetTasks(listOf("a", "b", "c"))
	l.Down()
	l.Down()

	l.SetTasks(listOf("c", "a", "b"))
	if sel, _ := l.Selected(); sel.ID != "c" {
		t.Errorf("cursor should stay on c, got %q", sel.ID)
	}
}

func TestTaskList_ClampOnShrink(t *testing.T) {
	l := NewTaskList()
	l.SetTasks(listOf("a", "b", "c"))
	l.Down()
	l.Down()

	l.SetTasks(listOf("x"))
	if l.Cursor() != 0 {
		t.Errorf("expected cursor 0, got %d", l.Cursor())
	}

	l.SetTasks(nil)
	if _, ok := l.Selected(); ok {
		t.Error("empty list should have no selection")
	}
}

func TestTaskList_Bounds(t *testing.T) {
	l := NewTaskList()
	l.SetTasks(listOf("a", "b"))

	l.Up()
	if l.Cursor() != 0 {
		t.Errorf("Up at top should stay at 0, got %d", l.Cursor())
	}
	l.Down()
	l.Down()
	if l.Cursor() != 1 {
		t.Errorf("Down at bottom should stay at 1, got %d", l.Cursor())
	}

	if _, ok := l.Neighbor(1); ok {
		t.Error("no neighbor below last row")
	}
	if n, ok := l.Neighbor(-1); !ok || n.ID != "a" {
		t.Errorf("expected neighbor a, got %q", n.ID)
	}
}

func TestTaskList_Scroll(t *testing.T) {
	l := NewTaskList()
	l.SetSize(80, 2)
	l.SetTasks(listOf("a", "b", "c", "d"))

	l.Down()
	l.Down()
	if l.scrollOffset != 1 {
		t.Errorf("expected scroll offset 1, got %d", l.scrollOffset)
	}
	l.Select("a")
	if l.scrollOffset != 0 {
		t.Errorf("expected scroll offset 0, got %d", l.scrollOffset)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"a longer title", 8, "a lon..."},
		{"héllo wörld", 8, "héllo..."},
		{"abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestNextCategory(t *testing.T) {
	cats := []string{"Home", "Work"}
	tests := []struct {
		current string
		want    string
	}{
		{"", "Home"},
		{"Home", "Work"},
		{"Work", ""},
		{"Gone", ""},
	}
	for _, tt := range tests {
		if got := nextCategory(tt.current, cats); got != tt.want {
			t.Errorf("nextCategory(%q) = %q, want %q", tt.current, got, tt.want)
		}
	}
	if got := nextCategory("", nil); got != "" {
		t.Errorf("no categories should yield empty, got %q", got)
	}
}

func TestCyclePriority(t *testing.T) {
	if got := cyclePriority(models.PriorityHigh, 1); got != models.PriorityLow {
		t.Errorf("expected wrap to low, got %q", got)
	}
	if got := cyclePriority(models.PriorityLow, -1); got != models.PriorityHigh {
		t.Errorf("expected wrap to high, got %q", got)
	}
}
