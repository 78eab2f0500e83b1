package student

import (
	"context"

	"sundayschool/internal/apperr"
	"sundayschool/internal/classconfig"
)

// Service validates and coordinates student directory operations.
type Service struct {
	repo *Repository
}

// NewService creates a service backed by a repository.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and inserts a new student.
func (s *Service) Create(ctx context.Context, st Student) (Student, error) {
	if st.FullName == "" || st.Grade == "" || st.Gender == "" {
		return Student{}, apperr.Validation("fullName, grade and gender are required")
	}
	if err := validateAttrs(st.Grade, st.NameDayMonth); err != nil {
		return Student{}, err
	}
	return s.repo.Create(ctx, st)
}

// Get returns a single student by id.
func (s *Service) Get(ctx context.Context, id string) (Student, error) {
	return s.repo.Get(ctx, id)
}

// List returns all students, newest first.
func (s *Service) List(ctx context.Context) ([]Student, error) {
	return s.repo.List(ctx)
}

// Update applies the non-nil fields of in to an existing student.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Student, error) {
	st, err := s.repo.Get(ctx, id)
	if err != nil {
		return Student{}, err
	}

	if in.FullName != nil && *in.FullName != "" {
		st.FullName = *in.FullName
	}
	if in.ChristianName != nil {
		st.ChristianName = *in.ChristianName
	}
	if in.NameDayMonth != nil {
		st.NameDayMonth = *in.NameDayMonth
	}
	if in.Grade != nil && *in.Grade != "" {
		st.Grade = *in.Grade
	}
	if in.Gender != nil && *in.Gender != "" {
		st.Gender = *in.Gender
	}
	if in.MotherName != nil {
		st.MotherName = *in.MotherName
	}
	if in.MotherContact != nil {
		st.MotherContact = *in.MotherContact
	}
	if in.FatherName != nil {
		st.FatherName = *in.FatherName
	}
	if in.FatherContact != nil {
		st.FatherContact = *in.FatherContact
	}

	if err := validateAttrs(st.Grade, st.NameDayMonth); err != nil {
		return Student{}, err
	}
	return s.repo.Update(ctx, st)
}

// Delete removes a student from the directory.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validateAttrs(grade string, nameDayMonth int) error {
	if !classconfig.ValidGrade(grade) {
		return apperr.Validation("unknown grade %q", grade)
	}
	if nameDayMonth < 0 || nameDayMonth > 12 {
		return apperr.Validation("nameDayMonth must be between 1 and 12")
	}
	return nil
}
