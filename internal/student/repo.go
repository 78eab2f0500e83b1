package student

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"sundayschool/internal/apperr"
)

const studentCols = `id, full_name, christian_name, name_day_month, grade, gender,
	mother_name, mother_contact, father_name, father_contact, created_at, updated_at`

// Repository persists students in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new student.
func (r *Repository) Create(ctx context.Context, st Student) (Student, error) {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO students (id, full_name, christian_name, name_day_month, grade, gender,
			mother_name, mother_contact, father_name, father_contact)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at, updated_at
	`, st.ID, st.FullName, st.ChristianName, st.NameDayMonth, st.Grade, st.Gender,
		st.MotherName, st.MotherContact, st.FatherName, st.FatherContact)
	if err := row.Scan(&st.CreatedAt, &st.UpdatedAt); err != nil {
		return Student{}, err
	}
	return st, nil
}

// Get returns a single student by id.
func (r *Repository) Get(ctx context.Context, id string) (Student, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Student{}, apperr.NotFound("student not found")
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+studentCols+` FROM students WHERE id = $1`, id)
	st, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Student{}, apperr.NotFound("student not found")
		}
		return Student{}, err
	}
	return st, nil
}

// List returns all students, newest first.
func (r *Repository) List(ctx context.Context) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+studentCols+` FROM students ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := []Student{}
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	return students, rows.Err()
}

// Update writes all mutable columns of st.
func (r *Repository) Update(ctx context.Context, st Student) (Student, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE students SET
			full_name = $2, christian_name = $3, name_day_month = $4, grade = $5, gender = $6,
			mother_name = $7, mother_contact = $8, father_name = $9, father_contact = $10,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, st.ID, st.FullName, st.ChristianName, st.NameDayMonth, st.Grade, st.Gender,
		st.MotherName, st.MotherContact, st.FatherName, st.FatherContact)
	if err := row.Scan(&st.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Student{}, apperr.NotFound("student not found")
		}
		return Student{}, err
	}
	return st, nil
}

// Delete removes a student. Attendance history referencing the student is
// kept; ledger reads tolerate the dangling reference.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.NotFound("student not found")
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("student not found")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner) (Student, error) {
	var st Student
	err := row.Scan(&st.ID, &st.FullName, &st.ChristianName, &st.NameDayMonth, &st.Grade, &st.Gender,
		&st.MotherName, &st.MotherContact, &st.FatherName, &st.FatherContact, &st.CreatedAt, &st.UpdatedAt)
	return st, err
}
