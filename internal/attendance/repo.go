package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"sundayschool/internal/apperr"
)

const uniqueViolation = "23505"

// Partition persists attendance records for a single school year. Queries
// left-join the student and recorder so rows stay readable after a student
// is deleted.
type Partition struct {
	db    *sql.DB
	table string
}

func (p *Partition) selectQuery(where, order string) string {
	return fmt.Sprintf(`
		SELECT a.id, a.student_id, a.date, a.class, a.status, a.recorded_by,
			a.created_at, a.updated_at,
			s.full_name, s.grade, s.gender,
			u.full_name, u.email
		FROM %s a
		LEFT JOIN students s ON s.id = a.student_id
		LEFT JOIN users u ON u.id = a.recorded_by
		%s %s`, p.table, where, order)
}

// Insert writes a new record. A second record for the same (student, date)
// slot trips the unique index and surfaces as a DuplicateError; this path
// never overwrites.
func (p *Partition) Insert(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	row := p.db.QueryRowContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, student_id, date, class, status, recorded_by)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at
	`, p.table), rec.ID, rec.StudentID, rec.Date, rec.Class, rec.Status, rec.RecordedBy)
	if err := row.Scan(&rec.CreatedAt, &rec.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Record{}, apperr.Duplicate("attendance already recorded for this student on this date")
		}
		return Record{}, err
	}
	return rec, nil
}

// Upsert atomically creates or overwrites the (student, date) slot and
// reports whether a new row was created. Overwrites replace status, class
// and recorder.
func (p *Partition) Upsert(ctx context.Context, rec Record) (Record, bool, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	row := p.db.QueryRowContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, student_id, date, class, status, recorded_by)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (student_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			class = EXCLUDED.class,
			recorded_by = EXCLUDED.recorded_by,
			updated_at = NOW()
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted
	`, p.table), rec.ID, rec.StudentID, rec.Date, rec.Class, rec.Status, rec.RecordedBy)
	var created bool
	if err := row.Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt, &created); err != nil {
		return Record{}, false, err
	}
	return rec, created, nil
}

// ByDate returns all records for one calendar day, sorted by class.
func (p *Partition) ByDate(ctx context.Context, date time.Time) ([]Record, error) {
	return p.query(ctx, p.selectQuery("WHERE a.date = $1", "ORDER BY a.class, s.full_name"), date)
}

// ByClassAndDate returns the records of one class on one day.
func (p *Partition) ByClassAndDate(ctx context.Context, class string, date time.Time) ([]Record, error) {
	return p.query(ctx, p.selectQuery("WHERE a.class = $1 AND a.date = $2", "ORDER BY s.full_name"), class, date)
}

// ByClass returns a class's full history, newest first.
func (p *Partition) ByClass(ctx context.Context, class string) ([]Record, error) {
	return p.query(ctx, p.selectQuery("WHERE a.class = $1", "ORDER BY a.date DESC"), class)
}

// ByStudent returns a student's full history within this partition,
// newest first.
func (p *Partition) ByStudent(ctx context.Context, studentID string) ([]Record, error) {
	return p.query(ctx, p.selectQuery("WHERE a.student_id = $1", "ORDER BY a.date DESC"), studentID)
}

// UpdateStatus overwrites the status of one record by id.
func (p *Partition) UpdateStatus(ctx context.Context, id, status, recordedBy string) (Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Record{}, apperr.NotFound("attendance record not found")
	}
	res, err := p.db.ExecContext(ctx, fmt.Sprintf(`
		UPDATE %s SET status = $2, recorded_by = $3, updated_at = NOW() WHERE id = $1
	`, p.table), id, status, recordedBy)
	if err != nil {
		return Record{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Record{}, err
	}
	if n == 0 {
		return Record{}, apperr.NotFound("attendance record not found")
	}

	recs, err := p.query(ctx, p.selectQuery("WHERE a.id = $1", ""), id)
	if err != nil {
		return Record{}, err
	}
	if len(recs) == 0 {
		return Record{}, apperr.NotFound("attendance record not found")
	}
	return recs[0], nil
}

// Delete removes one record by id.
func (p *Partition) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.NotFound("attendance record not found")
	}
	res, err := p.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, p.table), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("attendance record not found")
	}
	return nil
}

// Stats returns the raw aggregate counts for one class.
func (p *Partition) Stats(ctx context.Context, class string) (StatTotals, error) {
	row := p.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'Present'),
			COUNT(*) FILTER (WHERE status = 'Absent'),
			COUNT(DISTINCT date)
		FROM %s WHERE class = $1
	`, p.table), class)
	var t StatTotals
	if err := row.Scan(&t.Total, &t.Present, &t.Absent, &t.Dates); err != nil {
		return StatTotals{}, err
	}
	return t, nil
}

func (p *Partition) query(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var rec Record
		var sName, sGrade, sGender sql.NullString
		var uName, uEmail sql.NullString
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.Date, &rec.Class, &rec.Status, &rec.RecordedBy,
			&rec.CreatedAt, &rec.UpdatedAt,
			&sName, &sGrade, &sGender, &uName, &uEmail); err != nil {
			return nil, err
		}
		if sName.Valid {
			rec.Student = &StudentSummary{ID: rec.StudentID, FullName: sName.String, Grade: sGrade.String, Gender: sGender.String}
		}
		if uName.Valid {
			rec.Recorder = &RecorderSummary{ID: rec.RecordedBy, FullName: uName.String, Email: uEmail.String}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
