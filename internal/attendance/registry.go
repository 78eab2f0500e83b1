package attendance

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"sundayschool/internal/apperr"
	"sundayschool/internal/schoolyear"
)

// LedgerPartition is the storage surface of one school-year ledger table.
type LedgerPartition interface {
	Insert(ctx context.Context, rec Record) (Record, error)
	Upsert(ctx context.Context, rec Record) (Record, bool, error)
	ByDate(ctx context.Context, date time.Time) ([]Record, error)
	ByClassAndDate(ctx context.Context, class string, date time.Time) ([]Record, error)
	ByClass(ctx context.Context, class string) ([]Record, error)
	ByStudent(ctx context.Context, studentID string) ([]Record, error)
	UpdateStatus(ctx context.Context, id, status, recordedBy string) (Record, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, class string) (StatTotals, error)
}

// Registry hands out ledger partitions keyed by school-year label. The
// backing table is created with its unique (student_id, date) index on
// first access and the handle is cached so schema setup runs once per
// process per year.
type Registry struct {
	db *sql.DB

	mu         sync.Mutex
	partitions map[string]*Partition
}

// NewRegistry creates a registry.
func NewRegistry(db *sql.DB) *Registry {
	return &Registry{db: db, partitions: make(map[string]*Partition)}
}

// Partition returns the ledger partition for a school year, creating the
// table lazily. The label must already be a well-formed YY_YY value; it
// becomes part of the table identifier.
func (r *Registry) Partition(ctx context.Context, schoolYear string) (LedgerPartition, error) {
	if !schoolyear.Valid(schoolYear) {
		return nil, apperr.Validation("invalid school year %q, expected format YY_YY", schoolYear)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.partitions[schoolYear]; ok {
		return p, nil
	}

	table := "attendance_records_" + schoolYear
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			student_id UUID NOT NULL,
			date DATE NOT NULL,
			class TEXT NOT NULL,
			status TEXT NOT NULL,
			recorded_by UUID NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, table),
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s_student_date_key ON %s (student_id, date)`, table, table),
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return nil, err
		}
	}

	p := &Partition{db: r.db, table: table}
	r.partitions[schoolYear] = p
	return p, nil
}
