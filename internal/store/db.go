package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB wraps sql.DB for Postgres using pgx.
type DB struct {
	Client *sql.DB
}

// NewDB creates a Postgres connection with sane defaults.
func NewDB(connString string) (*DB, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	return &DB{Client: db}, db.PingContext(context.Background())
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}

// baseSchema covers the fixed tables. Attendance ledger tables are created
// per school year by the attendance registry.
var baseSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		full_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'teacher',
		phone TEXT NOT NULL DEFAULT '',
		theme TEXT NOT NULL DEFAULT 'light',
		language TEXT NOT NULL DEFAULT 'ko',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id UUID PRIMARY KEY,
		full_name TEXT NOT NULL,
		christian_name TEXT NOT NULL DEFAULT '',
		name_day_month INT NOT NULL DEFAULT 0,
		grade TEXT NOT NULL,
		gender TEXT NOT NULL,
		mother_name TEXT NOT NULL DEFAULT '',
		mother_contact TEXT NOT NULL DEFAULT '',
		father_name TEXT NOT NULL DEFAULT '',
		father_contact TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS class_configurations (
		id UUID PRIMARY KEY,
		school_year TEXT NOT NULL UNIQUE,
		classes JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// EnsureSchema creates the fixed tables when they do not exist yet.
func (d *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range baseSchema {
		if _, err := d.Client.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
