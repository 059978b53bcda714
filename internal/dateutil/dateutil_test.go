package dateutil

import (
	"testing"
	"time"

	"github.com/ShayCichocki/taskflow/pkg/models"
)

var now = time.Date(2026, time.October, 16, 14, 30, 0, 0, time.Local)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name string
		date string
		want string
	}{
		{"today", "2026-10-16", "Today"},
		{"tomorrow", "2026-10-17", "Tomorrow"},
		{"yesterday uses short form", "2026-10-15", "Oct 15"},
		{"same year", "2026-12-25", "Dec 25"},
		{"next year includes year", "2027-01-03", "Jan 3, 2027"},
		{"past year includes year", "2024-02-29", "Feb 29, 2024"},
		{"garbage returned as is", "someday", "someday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDate(tt.date, now); got != tt.want {
				t.Errorf("FormatDate(%q) = %q, want %q", tt.date, got, tt.want)
			}
		})
	}
}

func TestFormatDate_TomorrowAcrossYearEnd(t *testing.T) {
	nye := time.Date(2026, time.December, 31, 23, 0, 0, 0, time.Local)
	if got := FormatDate("2027-01-01", nye); got != "Tomorrow" {
		t.Errorf("FormatDate = %q, want Tomorrow", got)
	}
}

func TestParseDue(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantNil bool
		wantErr bool
	}{
		{in: "2026-11-01", want: "2026-11-01"},
		{in: "today", want: "2026-10-16"},
		{in: "Tomorrow", want: "2026-10-17"},
		{in: "+7d", want: "2026-10-23"},
		{in: "+0d", want: "2026-10-16"},
		{in: "", wantNil: true},
		{in: "none", wantNil: true},
		{in: "+xd", wantErr: true},
		{in: "+-1d", wantErr: true},
		{in: "11/01/2026", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDue(tt.in, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDue(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tt.wantNil {
				if got != nil {
					t.Errorf("ParseDue(%q) = %q, want nil", tt.in, *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("ParseDue(%q) = %v, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsOverdue(t *testing.T) {
	past := "2026-10-15"
	today := "2026-10-16"
	bad := "soon"

	tests := []struct {
		name string
		task models.Task
		want bool
	}{
		{"no due date", models.Task{}, false},
		{"due yesterday", models.Task{DueDate: &past}, true},
		{"due today is not overdue", models.Task{DueDate: &today}, false},
		{"completed is never overdue", models.Task{DueDate: &past, Completed: true}, false},
		{"unparseable date", models.Task{DueDate: &bad}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOverdue(tt.task, now); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseDate_AcceptsRFC3339(t *testing.T) {
	if _, err := ParseDate("2026-10-16T00:00:00Z"); err != nil {
		t.Errorf("ParseDate(RFC3339) failed: %v", err)
	}
	if _, err := ParseDate("16.10.2026"); err == nil {
		t.Error("expected error for unsupported layout")
	}
}
