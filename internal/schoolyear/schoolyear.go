// Package schoolyear maps calendar dates to academic-year labels.
// The school year runs September 1 through August 31 and is encoded as
// the last two digits of both calendar years, e.g. "25_26".
package schoolyear

import (
	"fmt"
	"regexp"
	"time"

	"sundayschool/internal/apperr"
)

var labelPattern = regexp.MustCompile(`^\d{2}_\d{2}$`)

// FromDate returns the label of the school year containing t.
func FromDate(t time.Time) string {
	start := t.Year()
	if t.Month() < time.September {
		start--
	}
	return fmt.Sprintf("%02d_%02d", start%100, (start+1)%100)
}

// Current returns the label of the school year containing today.
func Current() string {
	return FromDate(time.Now())
}

// Valid reports whether label is a well-formed YY_YY school-year label.
func Valid(label string) bool {
	return labelPattern.MatchString(label)
}

// Resolve normalizes a caller-supplied school-year value. An empty string
// or the literal "current" resolves to the current school year; anything
// else must be a well-formed label.
func Resolve(label string) (string, error) {
	if label == "" || label == "current" {
		return Current(), nil
	}
	if !Valid(label) {
		return "", apperr.Validation("invalid school year %q, expected format YY_YY", label)
	}
	return label, nil
}
