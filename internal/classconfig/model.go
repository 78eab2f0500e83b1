// Package classconfig stores the per-school-year class layout and resolves
// students into classes.
package classconfig

import "time"

// Selection modes for a class definition.
const (
	ModeGrades   = "grades"
	ModeStudents = "students"
)

// Attendance grades recognized by the school, in teaching order.
var Grades = []string{"JK", "SK", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}

// ValidGrade reports whether g is a recognized grade value.
func ValidGrade(g string) bool {
	for _, v := range Grades {
		if v == g {
			return true
		}
	}
	return false
}

// ClassDef is one named class within a school-year configuration. A class
// collects its members either by grade set or by an explicit student roster,
// depending on SelectionMode. Teachers are advisory metadata only.
type ClassDef struct {
	ClassName     string   `json:"className" binding:"required"`
	SelectionMode string   `json:"selectionMode"`
	Grades        []string `json:"grades,omitempty"`
	Students      []string `json:"students,omitempty"`
	Teachers      []string `json:"teachers,omitempty"`
}

// Config is the class configuration document for one school year.
type Config struct {
	ID         string     `json:"id"`
	SchoolYear string     `json:"schoolYear"`
	Classes    []ClassDef `json:"classes"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}
