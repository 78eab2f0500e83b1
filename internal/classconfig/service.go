package classconfig

import (
	"context"

	"sundayschool/internal/apperr"
	"sundayschool/internal/schoolyear"
)

// Service validates and coordinates class-configuration operations.
type Service struct {
	repo  *Repository
	cache *Cache
}

// NewService creates a service. cache may be nil when redis is unavailable.
func NewService(repo *Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Upsert validates and saves the class list for a school year. An empty
// schoolYear resolves to the current year. Reports whether a new
// configuration was created rather than replaced.
func (s *Service) Upsert(ctx context.Context, schoolYear string, classes []ClassDef) (Config, bool, error) {
	year, err := schoolyear.Resolve(schoolYear)
	if err != nil {
		return Config{}, false, err
	}
	normalized, err := validateClasses(classes)
	if err != nil {
		return Config{}, false, err
	}
	cfg, created, err := s.repo.Upsert(ctx, Config{SchoolYear: year, Classes: normalized})
	if err != nil {
		return Config{}, false, err
	}
	s.cache.Invalidate(ctx, year)
	return cfg, created, nil
}

// Get returns the configuration for a school year. The literal "current"
// (or an empty label) resolves to the current school year.
func (s *Service) Get(ctx context.Context, schoolYear string) (Config, error) {
	year, err := schoolyear.Resolve(schoolYear)
	if err != nil {
		return Config{}, err
	}
	if cached := s.cache.Get(ctx, year); cached != nil {
		return *cached, nil
	}
	cfg, err := s.repo.Get(ctx, year)
	if err != nil {
		return Config{}, err
	}
	s.cache.Set(ctx, cfg)
	return cfg, nil
}

// List returns all configurations, most recent school year first.
func (s *Service) List(ctx context.Context) ([]Config, error) {
	return s.repo.List(ctx)
}

// Delete removes the configuration for the exact school-year label.
func (s *Service) Delete(ctx context.Context, schoolYear string) error {
	if !schoolyear.Valid(schoolYear) {
		return apperr.Validation("invalid school year %q, expected format YY_YY", schoolYear)
	}
	if err := s.repo.Delete(ctx, schoolYear); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, schoolYear)
	return nil
}

// validateClasses checks the class list before it is saved and returns the
// normalized copy (selection mode defaulted). Overlapping grade or roster
// assignments are rejected here so the first-match resolver never has to
// break a tie at recording time.
func validateClasses(classes []ClassDef) ([]ClassDef, error) {
	if len(classes) == 0 {
		return nil, apperr.Validation("please provide a non-empty classes array")
	}

	seenNames := map[string]bool{}
	gradeOwner := map[string]string{}
	studentOwner := map[string]string{}

	out := make([]ClassDef, len(classes))
	for i, def := range classes {
		if def.ClassName == "" {
			return nil, apperr.Validation("class at position %d is missing className", i)
		}
		if seenNames[def.ClassName] {
			return nil, apperr.Validation("duplicate class name %q", def.ClassName)
		}
		seenNames[def.ClassName] = true

		if def.SelectionMode == "" {
			def.SelectionMode = ModeGrades
		}
		switch def.SelectionMode {
		case ModeGrades:
			if len(def.Grades) == 0 {
				return nil, apperr.Validation("class %q must list at least one grade", def.ClassName)
			}
			for _, g := range def.Grades {
				if !ValidGrade(g) {
					return nil, apperr.Validation("class %q has unknown grade %q", def.ClassName, g)
				}
				if owner, ok := gradeOwner[g]; ok {
					return nil, apperr.Validation("grade %s is assigned to both %q and %q", g, owner, def.ClassName)
				}
				gradeOwner[g] = def.ClassName
			}
		case ModeStudents:
			if len(def.Students) == 0 {
				return nil, apperr.Validation("class %q must list at least one student", def.ClassName)
			}
			for _, id := range def.Students {
				if id == "" {
					return nil, apperr.Validation("class %q has an empty student id", def.ClassName)
				}
				if owner, ok := studentOwner[id]; ok {
					return nil, apperr.Validation("student %s is assigned to both %q and %q", id, owner, def.ClassName)
				}
				studentOwner[id] = def.ClassName
			}
		default:
			return nil, apperr.Validation("class %q has unknown selectionMode %q", def.ClassName, def.SelectionMode)
		}
		out[i] = def
	}
	return out, nil
}
