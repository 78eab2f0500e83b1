package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"sundayschool/internal/apperr"
)

const userCols = `id, full_name, email, password_hash, role, phone, theme, language,
	is_active, created_at, updated_at`

// Repository persists users in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user. A taken email surfaces as a DuplicateError.
func (r *Repository) Create(ctx context.Context, u User) (User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleTeacher
	}
	if u.Preferences.Theme == "" {
		u.Preferences.Theme = "light"
	}
	if u.Preferences.Language == "" {
		u.Preferences.Language = "ko"
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, full_name, email, password_hash, role, phone, theme, language, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,TRUE)
		RETURNING is_active, created_at, updated_at
	`, u.ID, u.FullName, u.Email, u.PasswordHash, u.Role, u.Phone, u.Preferences.Theme, u.Preferences.Language)
	if err := row.Scan(&u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, apperr.Duplicate("email already registered")
		}
		return User{}, err
	}
	return u, nil
}

// GetByEmail returns the user with the given email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// GetByID returns the user with the given id.
func (r *Repository) GetByID(ctx context.Context, id string) (User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return User{}, apperr.NotFound("user not found")
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// UpdateProfile writes the mutable profile columns of u.
func (r *Repository) UpdateProfile(ctx context.Context, u User) (User, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE users SET full_name = $2, phone = $3, theme = $4, language = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, u.ID, u.FullName, u.Phone, u.Preferences.Theme, u.Preferences.Language)
	if err := row.Scan(&u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, apperr.NotFound("user not found")
		}
		return User{}, err
	}
	return u, nil
}

func scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Role, &u.Phone,
		&u.Preferences.Theme, &u.Preferences.Language, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, apperr.NotFound("user not found")
		}
		return User{}, err
	}
	return u, nil
}
