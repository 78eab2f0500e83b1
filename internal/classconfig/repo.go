package classconfig

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"sundayschool/internal/apperr"
)

// Repository persists class configurations in Postgres. The class list is
// stored as a JSONB document, one row per school year.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Upsert creates or replaces the configuration for cfg.SchoolYear and
// reports whether a new row was created.
func (r *Repository) Upsert(ctx context.Context, cfg Config) (Config, bool, error) {
	classes, err := json.Marshal(cfg.Classes)
	if err != nil {
		return Config{}, false, err
	}
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO class_configurations (id, school_year, classes)
		VALUES ($1, $2, $3)
		ON CONFLICT (school_year) DO UPDATE SET
			classes = EXCLUDED.classes,
			updated_at = NOW()
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted
	`, cfg.ID, cfg.SchoolYear, classes)
	var created bool
	if err := row.Scan(&cfg.ID, &cfg.CreatedAt, &cfg.UpdatedAt, &created); err != nil {
		return Config{}, false, err
	}
	return cfg, created, nil
}

// Get returns the configuration for the exact school-year label.
func (r *Repository) Get(ctx context.Context, schoolYear string) (Config, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, school_year, classes, created_at, updated_at
		FROM class_configurations WHERE school_year = $1
	`, schoolYear)
	return scanConfig(row, schoolYear)
}

// List returns all configurations, most recent school year first.
func (r *Repository) List(ctx context.Context) ([]Config, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, school_year, classes, created_at, updated_at
		FROM class_configurations
		ORDER BY school_year DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	configs := []Config{}
	for rows.Next() {
		cfg, err := scanConfig(rows, "")
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

// Delete removes the configuration for a school year.
func (r *Repository) Delete(ctx context.Context, schoolYear string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM class_configurations WHERE school_year = $1`, schoolYear)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("no class configuration found for school year %s", schoolYear)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConfig(row rowScanner, schoolYear string) (Config, error) {
	var cfg Config
	var classes []byte
	if err := row.Scan(&cfg.ID, &cfg.SchoolYear, &classes, &cfg.CreatedAt, &cfg.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Config{}, apperr.NotFound("no class configuration found for school year %s", schoolYear)
		}
		return Config{}, err
	}
	if err := json.Unmarshal(classes, &cfg.Classes); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
