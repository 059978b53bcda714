package models

import "testing"

func TestFilter_Matches(t *testing.T) {
	task := Task{
		Title:       "Write Report",
		Description: "Quarterly numbers for finance",
		Priority:    PriorityHigh,
		Category:    "Work",
	}
	doneTask := task
	doneTask.Completed = true

	high := PriorityFilter(PriorityHigh)
	low := PriorityFilter(PriorityLow)

	tests := []struct {
		name   string
		filter Filter
		task   Task
		want   bool
	}{
		{"default matches", DefaultFilter(), task, true},
		{"active excludes completed", Filter{Status: StatusActive, Priority: PriorityAny}, doneTask, false},
		{"active keeps open", Filter{Status: StatusActive, Priority: PriorityAny}, task, true},
		{"completed excludes open", Filter{Status: StatusCompleted, Priority: PriorityAny}, task, false},
		{"completed keeps done", Filter{Status: StatusCompleted, Priority: PriorityAny}, doneTask, true},
		{"priority match", Filter{Status: StatusAll, Priority: high}, task, true},
		{"priority mismatch", Filter{Status: StatusAll, Priority: low}, task, false},
		{"category exact", Filter{Status: StatusAll, Priority: PriorityAny, Category: "Work"}, task, true},
		{"category is case sensitive", Filter{Status: StatusAll, Priority: PriorityAny, Category: "work"}, task, false},
		{"search title case insensitive", Filter{Status: StatusAll, Priority: PriorityAny, Search: "REPORT"}, task, true},
		{"search description", Filter{Status: StatusAll, Priority: PriorityAny, Search: "finance"}, task, true},
		{"search miss", Filter{Status: StatusAll, Priority: PriorityAny, Search: "groceries"}, task, false},
		{"search does not look at category", Filter{Status: StatusAll, Priority: PriorityAny, Search: "work"}, task, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(tt.task); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_IsFiltering(t *testing.T) {
	if DefaultFilter().IsFiltering() {
		t.Error("default filter should not be filtering")
	}

	f := DefaultFilter()
	f.Search = "x"
	if !f.IsFiltering() {
		t.Error("search should count as filtering")
	}

	f = DefaultFilter()
	f.Status = StatusCompleted
	if !f.IsFiltering() {
		t.Error("status should count as filtering")
	}
}

func TestFilterPatch_Apply(t *testing.T) {
	active := StatusActive
	search := "milk"
	bogus := PriorityFilter("urgent")

	got := FilterPatch{Status: &active, Search: &search}.Apply(DefaultFilter())
	if got.Status != StatusActive || got.Search != "milk" || got.Priority != PriorityAny {
		t.Errorf("Apply() = %+v", got)
	}

	got = FilterPatch{Priority: &bogus}.Apply(got)
	if got.Priority != PriorityAny {
		t.Errorf("invalid priority should normalize to all, got %q", got.Priority)
	}
	if got.Search != "milk" {
		t.Errorf("unpatched field changed: %+v", got)
	}
}

func TestStatusFilter_Next(t *testing.T) {
	s := StatusAll
	seen := []StatusFilter{s}
	for i := 0; i < 3; i++ {
		s = s.Next()
		seen = append(seen, s)
	}
	want := []StatusFilter{StatusAll, StatusActive, StatusCompleted, StatusAll}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("cycle = %v, want %v", seen, want)
		}
	}
}

func TestPriorityFilter_Next(t *testing.T) {
	p := PriorityAny
	for i := 0; i < 4; i++ {
		p = p.Next()
	}
	if p != PriorityAny {
		t.Errorf("four steps should return to all, got %q", p)
	}
}

func TestThemeMode_Toggle(t *testing.T) {
	if ThemeLight.Toggle() != ThemeDark {
		t.Error("light should toggle to dark")
	}
	if ThemeDark.Toggle() != ThemeLight {
		t.Error("dark should toggle to light")
	}
	if ThemeMode("").Valid() {
		t.Error("empty theme should be invalid")
	}
}
