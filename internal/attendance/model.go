// Package attendance implements the per-school-year attendance ledger.
package attendance

import (
	"time"

	"sundayschool/internal/apperr"
)

// Attendance statuses.
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
)

// ValidStatus reports whether s is a recognized attendance status.
func ValidStatus(s string) bool {
	return s == StatusPresent || s == StatusAbsent
}

// Record is one attendance entry: one student on one calendar day within
// one school-year partition. Student is nil when the student was deleted
// after the record was written.
type Record struct {
	ID         string           `json:"id"`
	StudentID  string           `json:"studentId"`
	Date       time.Time        `json:"date"`
	Class      string           `json:"class"`
	Status     string           `json:"status"`
	RecordedBy string           `json:"recordedBy"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
	Student    *StudentSummary  `json:"student"`
	Recorder   *RecorderSummary `json:"recorder"`
}

// StudentSummary is the roster view embedded in ledger responses.
type StudentSummary struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Grade    string `json:"grade"`
	Gender   string `json:"gender"`
}

// RecorderSummary identifies the user who recorded an entry.
type RecorderSummary struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// RosterEntry pairs a class member with their record for one date, or nil
// when the student has not been marked yet.
type RosterEntry struct {
	Student    StudentSummary `json:"student"`
	Attendance *Record        `json:"attendance"`
}

// BulkError reports a single failed record within a bulk save.
type BulkError struct {
	StudentID string `json:"studentId"`
	Message   string `json:"message"`
}

// BulkResult buckets the outcome of a bulk save. Partial success is
// expected and reported, not retried.
type BulkResult struct {
	Created []Record    `json:"created"`
	Updated []Record    `json:"updated"`
	Errors  []BulkError `json:"errors"`
}

// Stats aggregates a class's attendance history.
type Stats struct {
	Class          string  `json:"class"`
	TotalRecords   int     `json:"totalRecords"`
	PresentCount   int     `json:"presentCount"`
	AbsentCount    int     `json:"absentCount"`
	AttendanceRate float64 `json:"attendanceRate"`
	TotalDates     int     `json:"totalDates"`
}

// StatTotals are the raw partition counts Stats is computed from.
type StatTotals struct {
	Total   int
	Present int
	Absent  int
	Dates   int
}

// ParseDate parses a calendar day, accepting plain dates and RFC3339
// timestamps. Time of day is discarded.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, apperr.Validation("invalid date %q, expected YYYY-MM-DD", s)
}
