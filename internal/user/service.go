package user

import (
	"context"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"sundayschool/internal/apperr"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service implements signup, login and profile updates.
type Service struct {
	repo       *Repository
	bcryptCost int
}

// NewService creates a service. bcryptCost falls back to the library default
// when out of range.
func NewService(repo *Repository, bcryptCost int) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, bcryptCost: bcryptCost}
}

// Signup registers a new account with the teacher role.
func (s *Service) Signup(ctx context.Context, fullName, email, password string) (User, error) {
	if fullName == "" || email == "" || password == "" {
		return User{}, apperr.Validation("fullName, email and password are required")
	}
	if !emailPattern.MatchString(email) {
		return User{}, apperr.Validation("invalid email format")
	}
	if len(password) < 8 {
		return User{}, apperr.Validation("password must be at least 8 characters long")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return User{}, err
	}
	return s.repo.Create(ctx, User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
	})
}

// Login checks credentials and returns the account. Unknown emails and wrong
// passwords produce the same error so the endpoint does not leak which
// accounts exist.
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	if email == "" || password == "" {
		return User{}, apperr.Validation("email and password are required")
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return User{}, apperr.Validation("invalid email or password")
		}
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, apperr.Validation("invalid email or password")
	}
	if !u.IsActive {
		return User{}, apperr.Validation("account is deactivated")
	}
	return u, nil
}

// GetByID returns the account with the given id.
func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile applies the non-nil fields of in to the account.
func (s *Service) UpdateProfile(ctx context.Context, id string, in ProfileInput) (User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if in.FullName != nil && *in.FullName != "" {
		u.FullName = *in.FullName
	}
	if in.Phone != nil {
		u.Phone = *in.Phone
	}
	if in.Theme != nil {
		switch *in.Theme {
		case "light", "dark", "auto":
			u.Preferences.Theme = *in.Theme
		default:
			return User{}, apperr.Validation("unknown theme %q", *in.Theme)
		}
	}
	if in.Language != nil {
		switch *in.Language {
		case "en", "ko":
			u.Preferences.Language = *in.Language
		default:
			return User{}, apperr.Validation("unknown language %q", *in.Language)
		}
	}
	return s.repo.UpdateProfile(ctx, u)
}
