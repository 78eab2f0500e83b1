package classconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sundayschool/internal/apperr"
)

func TestValidateClassesAcceptsWellFormedConfig(t *testing.T) {
	classes := []ClassDef{
		{ClassName: "JK-Gr1", Grades: []string{"JK", "SK", "1"}},
		{ClassName: "Gr2-4", SelectionMode: ModeGrades, Grades: []string{"2", "3", "4"}},
		{ClassName: "Choir", SelectionMode: ModeStudents, Students: []string{"a", "b"}},
	}

	out, err := validateClasses(classes)
	assert.NoError(t, err)
	assert.Len(t, out, 3)
	assert.Equal(t, ModeGrades, out[0].SelectionMode, "missing mode defaults to grades")
}

func TestValidateClassesRejections(t *testing.T) {
	tests := []struct {
		name    string
		classes []ClassDef
	}{
		{"empty list", nil},
		{"missing class name", []ClassDef{{Grades: []string{"1"}}}},
		{"duplicate class name", []ClassDef{
			{ClassName: "A", Grades: []string{"1"}},
			{ClassName: "A", Grades: []string{"2"}},
		}},
		{"grade mode with no grades", []ClassDef{{ClassName: "A", SelectionMode: ModeGrades}}},
		{"student mode with no students", []ClassDef{{ClassName: "A", SelectionMode: ModeStudents}}},
		{"unknown grade", []ClassDef{{ClassName: "A", Grades: []string{"13"}}}},
		{"unknown selection mode", []ClassDef{{ClassName: "A", SelectionMode: "teachers"}}},
		{"grade in two classes", []ClassDef{
			{ClassName: "A", Grades: []string{"2", "3"}},
			{ClassName: "B", Grades: []string{"3", "4"}},
		}},
		{"student in two rosters", []ClassDef{
			{ClassName: "A", SelectionMode: ModeStudents, Students: []string{"x"}},
			{ClassName: "B", SelectionMode: ModeStudents, Students: []string{"x"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validateClasses(tt.classes)
			assert.True(t, apperr.IsValidation(err), "want validation error, got %v", err)
		})
	}
}
