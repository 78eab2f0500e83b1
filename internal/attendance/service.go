package attendance

import (
	"context"
	"math"

	"github.com/google/uuid"

	"sundayschool/internal/apperr"
	"sundayschool/internal/classconfig"
	"sundayschool/internal/schoolyear"
	"sundayschool/internal/student"
	"sundayschool/internal/user"
)

// Ledger hands out per-school-year partitions. Satisfied by *Registry.
type Ledger interface {
	Partition(ctx context.Context, schoolYear string) (LedgerPartition, error)
}

// StudentDirectory is the roster surface the ledger needs.
type StudentDirectory interface {
	Get(ctx context.Context, id string) (student.Student, error)
	List(ctx context.Context) ([]student.Student, error)
}

// ConfigSource resolves the class configuration of a school year.
type ConfigSource interface {
	Get(ctx context.Context, schoolYear string) (classconfig.Config, error)
}

// Service coordinates attendance recording and queries.
type Service struct {
	ledger   Ledger
	students StudentDirectory
	configs  ConfigSource
}

// NewService creates a service.
func NewService(ledger Ledger, students StudentDirectory, configs ConfigSource) *Service {
	return &Service{ledger: ledger, students: students, configs: configs}
}

// RecordOneInput is a single-record save request.
type RecordOneInput struct {
	StudentID  string `json:"studentId" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Status     string `json:"status" binding:"required"`
	SchoolYear string `json:"schoolYear"`
}

// BulkRecord is one entry of a bulk save request.
type BulkRecord struct {
	StudentID string `json:"studentId"`
	Status    string `json:"status"`
}

// BulkInput is a bulk save request for one date.
type BulkInput struct {
	Date       string       `json:"date" binding:"required"`
	Records    []BulkRecord `json:"attendanceRecords" binding:"required"`
	SchoolYear string       `json:"schoolYear"`
}

// RecordOne inserts a single attendance record. A record that already
// exists for the (student, date) slot fails with a DuplicateError; use the
// bulk path or an explicit update to change an existing day.
func (s *Service) RecordOne(ctx context.Context, in RecordOneInput, actor user.User) (Record, error) {
	if !ValidStatus(in.Status) {
		return Record{}, apperr.Validation("status must be %s or %s", StatusPresent, StatusAbsent)
	}
	date, err := ParseDate(in.Date)
	if err != nil {
		return Record{}, err
	}
	year, err := schoolyear.Resolve(in.SchoolYear)
	if err != nil {
		return Record{}, err
	}
	cfg, err := s.loadConfig(ctx, year)
	if err != nil {
		return Record{}, err
	}
	st, err := s.students.Get(ctx, in.StudentID)
	if err != nil {
		return Record{}, err
	}
	class := cfg.ResolveClass(st.ID, st.Grade)
	if class == "" {
		return Record{}, apperr.Validation("student %s (grade %s) is not assigned to any class in %s", st.FullName, st.Grade, year)
	}
	part, err := s.ledger.Partition(ctx, year)
	if err != nil {
		return Record{}, err
	}

	rec, err := part.Insert(ctx, Record{
		StudentID:  st.ID,
		Date:       date,
		Class:      class,
		Status:     in.Status,
		RecordedBy: actor.ID,
	})
	if err != nil {
		if apperr.IsDuplicate(err) {
			writeOutcomes.WithLabelValues("duplicate").Inc()
		} else {
			writeOutcomes.WithLabelValues("error").Inc()
		}
		return Record{}, err
	}
	writeOutcomes.WithLabelValues("created").Inc()
	rec.Student = summarize(st)
	rec.Recorder = &RecorderSummary{ID: actor.ID, FullName: actor.FullName, Email: actor.Email}
	return rec, nil
}

// RecordBulk saves a batch of records for one date. The class
// configuration is loaded once; a missing configuration aborts the whole
// batch. Per-record failures land in the errors bucket while the rest of
// the batch proceeds. Existing (student, date) slots are overwritten.
func (s *Service) RecordBulk(ctx context.Context, in BulkInput, actor user.User) (string, BulkResult, error) {
	result := BulkResult{Created: []Record{}, Updated: []Record{}, Errors: []BulkError{}}

	date, err := ParseDate(in.Date)
	if err != nil {
		return "", result, err
	}
	if len(in.Records) == 0 {
		return "", result, apperr.Validation("please provide a non-empty attendanceRecords array")
	}
	year, err := schoolyear.Resolve(in.SchoolYear)
	if err != nil {
		return "", result, err
	}
	cfg, err := s.loadConfig(ctx, year)
	if err != nil {
		return "", result, err
	}
	part, err := s.ledger.Partition(ctx, year)
	if err != nil {
		return "", result, err
	}

	recorder := &RecorderSummary{ID: actor.ID, FullName: actor.FullName, Email: actor.Email}
	for _, entry := range in.Records {
		if entry.StudentID == "" || entry.Status == "" {
			result.Errors = append(result.Errors, BulkError{StudentID: entry.StudentID, Message: "missing studentId or status"})
			continue
		}
		if !ValidStatus(entry.Status) {
			result.Errors = append(result.Errors, BulkError{StudentID: entry.StudentID, Message: "invalid status"})
			continue
		}
		st, err := s.students.Get(ctx, entry.StudentID)
		if err != nil {
			result.Errors = append(result.Errors, BulkError{StudentID: entry.StudentID, Message: bulkMessage(err, "student not found")})
			writeOutcomes.WithLabelValues("error").Inc()
			continue
		}
		class := cfg.ResolveClass(st.ID, st.Grade)
		if class == "" {
			result.Errors = append(result.Errors, BulkError{StudentID: entry.StudentID, Message: "grade not assigned to any class"})
			writeOutcomes.WithLabelValues("error").Inc()
			continue
		}

		rec, created, err := part.Upsert(ctx, Record{
			StudentID:  st.ID,
			Date:       date,
			Class:      class,
			Status:     entry.Status,
			RecordedBy: actor.ID,
		})
		if err != nil {
			result.Errors = append(result.Errors, BulkError{StudentID: entry.StudentID, Message: err.Error()})
			writeOutcomes.WithLabelValues("error").Inc()
			continue
		}
		rec.Student = summarize(st)
		rec.Recorder = recorder
		if created {
			writeOutcomes.WithLabelValues("created").Inc()
			result.Created = append(result.Created, rec)
		} else {
			writeOutcomes.WithLabelValues("updated").Inc()
			result.Updated = append(result.Updated, rec)
		}
	}
	return year, result, nil
}

// ByDate returns all records for one calendar day across all classes.
func (s *Service) ByDate(ctx context.Context, dateStr, schoolYear string) (string, []Record, error) {
	date, err := ParseDate(dateStr)
	if err != nil {
		return "", nil, err
	}
	year, part, err := s.partition(ctx, schoolYear)
	if err != nil {
		return "", nil, err
	}
	records, err := part.ByDate(ctx, date)
	return year, records, err
}

// Roster returns every student resolved into a class paired with their
// record for the date, or nil when unmarked. Callers use the nil entries
// to render "not yet marked" distinctly from "absent".
func (s *Service) Roster(ctx context.Context, className, dateStr, schoolYear string) (string, []RosterEntry, error) {
	date, err := ParseDate(dateStr)
	if err != nil {
		return "", nil, err
	}
	year, err := schoolyear.Resolve(schoolYear)
	if err != nil {
		return "", nil, err
	}
	cfg, err := s.loadConfig(ctx, year)
	if err != nil {
		return "", nil, err
	}
	part, err := s.ledger.Partition(ctx, year)
	if err != nil {
		return "", nil, err
	}

	all, err := s.students.List(ctx)
	if err != nil {
		return "", nil, err
	}
	records, err := part.ByClassAndDate(ctx, className, date)
	if err != nil {
		return "", nil, err
	}
	byStudent := make(map[string]Record, len(records))
	for _, rec := range records {
		byStudent[rec.StudentID] = rec
	}

	entries := []RosterEntry{}
	for _, st := range all {
		if cfg.ResolveClass(st.ID, st.Grade) != className {
			continue
		}
		entry := RosterEntry{Student: *summarize(st)}
		if rec, ok := byStudent[st.ID]; ok {
			rec := rec
			entry.Attendance = &rec
		}
		entries = append(entries, entry)
	}
	return year, entries, nil
}

// HistoryByClass returns a class's full history, newest first.
func (s *Service) HistoryByClass(ctx context.Context, className, schoolYear string) (string, []Record, error) {
	year, part, err := s.partition(ctx, schoolYear)
	if err != nil {
		return "", nil, err
	}
	records, err := part.ByClass(ctx, className)
	return year, records, err
}

// HistoryByStudent returns a student's history within one school-year
// partition, newest first. Spanning years takes one call per partition.
func (s *Service) HistoryByStudent(ctx context.Context, studentID, schoolYear string) (string, []Record, error) {
	if _, err := uuid.Parse(studentID); err != nil {
		return "", nil, apperr.Validation("invalid student id %q", studentID)
	}
	year, part, err := s.partition(ctx, schoolYear)
	if err != nil {
		return "", nil, err
	}
	records, err := part.ByStudent(ctx, studentID)
	return year, records, err
}

// UpdateOne overwrites the status of one record within a named partition.
func (s *Service) UpdateOne(ctx context.Context, schoolYear, id, status string, actor user.User) (Record, error) {
	if !schoolyear.Valid(schoolYear) {
		return Record{}, apperr.Validation("invalid school year %q, expected format YY_YY", schoolYear)
	}
	if !ValidStatus(status) {
		return Record{}, apperr.Validation("status must be %s or %s", StatusPresent, StatusAbsent)
	}
	part, err := s.ledger.Partition(ctx, schoolYear)
	if err != nil {
		return Record{}, err
	}
	return part.UpdateStatus(ctx, id, status, actor.ID)
}

// DeleteOne removes one record within a named partition, returning the
// (student, date) slot to the unmarked state.
func (s *Service) DeleteOne(ctx context.Context, schoolYear, id string) error {
	if !schoolyear.Valid(schoolYear) {
		return apperr.Validation("invalid school year %q, expected format YY_YY", schoolYear)
	}
	part, err := s.ledger.Partition(ctx, schoolYear)
	if err != nil {
		return err
	}
	return part.Delete(ctx, id)
}

// ClassStats aggregates a class's history: counts, attendance rate to one
// decimal place (0 when the class has no records) and distinct marked
// dates.
func (s *Service) ClassStats(ctx context.Context, className, schoolYear string) (Stats, error) {
	_, part, err := s.partition(ctx, schoolYear)
	if err != nil {
		return Stats{}, err
	}
	totals, err := part.Stats(ctx, className)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{
		Class:        className,
		TotalRecords: totals.Total,
		PresentCount: totals.Present,
		AbsentCount:  totals.Absent,
		TotalDates:   totals.Dates,
	}
	if totals.Total > 0 {
		stats.AttendanceRate = math.Round(float64(totals.Present)/float64(totals.Total)*1000) / 10
	}
	return stats, nil
}

func (s *Service) partition(ctx context.Context, schoolYear string) (string, LedgerPartition, error) {
	year, err := schoolyear.Resolve(schoolYear)
	if err != nil {
		return "", nil, err
	}
	part, err := s.ledger.Partition(ctx, year)
	if err != nil {
		return "", nil, err
	}
	return year, part, nil
}

func (s *Service) loadConfig(ctx context.Context, year string) (classconfig.Config, error) {
	cfg, err := s.configs.Get(ctx, year)
	if err != nil {
		if apperr.IsNotFound(err) {
			return classconfig.Config{}, apperr.NotFound("no class configuration found for school year %s; configure classes first", year)
		}
		return classconfig.Config{}, err
	}
	return cfg, nil
}

func summarize(st student.Student) *StudentSummary {
	return &StudentSummary{ID: st.ID, FullName: st.FullName, Grade: st.Grade, Gender: st.Gender}
}

func bulkMessage(err error, fallback string) string {
	if apperr.IsNotFound(err) {
		return fallback
	}
	return err.Error()
}
