package store

import (
	"sort"
	"time"

	"github.com/ShayCichocki/taskflow/internal/dateutil"
	"github.com/ShayCichocki/taskflow/pkg/models"
)

// Apply returns the tasks that pass every criterion of f, in their original order.
// The input slice is not modified.
func Apply(tasks []models.Task, f models.Filter) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t) {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Categories returns the distinct non-empty categories of tasks, sorted ascending.
func Categories(tasks []models.Task) []string {
	seen := make(map[string]struct{}, len(tasks))
	out := make([]string, 0)
	for _, t := range tasks {
		if t.Category == "" {
			continue
		}
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		out = append(out, t.Category)
	}
	sort.Strings(out)
	return out
}

// ComputeStats counts tasks by state. A task is overdue when it is not
// completed and its due date is before the day of now.
func ComputeStats(tasks []models.Task, now time.Time) models.Stats {
	var s models.Stats
	for _, t := range tasks {
		s.Total++
		if t.Completed {
			s.Completed++
			continue
		}
		s.Active++
		if dateutil.IsOverdue(t, now) {
			s.Overdue++
		}
	}
	return s
}
