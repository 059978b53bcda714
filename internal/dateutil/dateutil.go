// Package dateutil formats and parses task due dates.
package dateutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ShayCichocki/taskflow/pkg/models"
)

// DateLayout is the storage format for due dates.
const DateLayout = "2006-01-02"

// ParseDate parses a stored due date. Full RFC3339 timestamps are accepted
// too, since older data may carry them.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(DateLayout, s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Local(), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
}

// FormatDate renders a due date relative to now: "Today", "Tomorrow",
// "Jan 2" within the current year, and "Jan 2, 2006" otherwise.
// Unparseable input is returned unchanged.
func FormatDate(date string, now time.Time) string {
	d, err := ParseDate(date)
	if err != nil {
		return date
	}

	if SameDay(d, now) {
		return "Today"
	}
	if SameDay(d, now.AddDate(0, 0, 1)) {
		return "Tomorrow"
	}
	if d.Year() != now.Year() {
		return d.Format("Jan 2, 2006")
	}
	return d.Format("Jan 2")
}

// SameDay reports whether a and b fall on the same calendar day in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// ParseDue turns user input into a stored due date. Accepted forms:
// YYYY-MM-DD, "today", "tomorrow", "+Nd" (N days from now), and "" or
// "none" for no due date (returned as nil).
func ParseDue(input string, now time.Time) (*string, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	var d time.Time

	switch {
	case s == "" || s == "none":
		return nil, nil
	case s == "today":
		d = now
	case s == "tomorrow":
		d = now.AddDate(0, 0, 1)
	case strings.HasPrefix(s, "+") && strings.HasSuffix(s, "d"):
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(s, "+"), "d"))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid relative date %q (want +Nd)", input)
		}
		d = now.AddDate(0, 0, n)
	default:
		t, err := time.ParseInLocation(DateLayout, s, now.Location())
		if err != nil {
			return nil, fmt.Errorf("invalid date %q (want YYYY-MM-DD, today, tomorrow or +Nd)", input)
		}
		d = t
	}

	out := d.Format(DateLayout)
	return &out, nil
}

// IsOverdue reports whether an open task's due date is before the day of now.
func IsOverdue(t models.Task, now time.Time) bool {
	if t.Completed || t.DueDate == nil {
		return false
	}
	d, err := ParseDate(*t.DueDate)
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return d.Before(today)
}
