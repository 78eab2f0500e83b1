package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sundayschool/internal/apperr"
	"sundayschool/internal/classconfig"
	"sundayschool/internal/schoolyear"
	"sundayschool/internal/student"
	"sundayschool/internal/user"
)

// In-memory stand-ins for the Postgres-backed registry, student directory
// and config store.

type fakePartition struct {
	records map[string]Record // id -> record
}

func newFakePartition() *fakePartition {
	return &fakePartition{records: make(map[string]Record)}
}

func (p *fakePartition) findSlot(studentID string, date time.Time) (Record, bool) {
	for _, rec := range p.records {
		if rec.StudentID == studentID && rec.Date.Equal(date) {
			return rec, true
		}
	}
	return Record{}, false
}

func (p *fakePartition) Insert(_ context.Context, rec Record) (Record, error) {
	if _, ok := p.findSlot(rec.StudentID, rec.Date); ok {
		return Record{}, apperr.Duplicate("attendance already recorded for this student on this date")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	p.records[rec.ID] = rec
	return rec, nil
}

func (p *fakePartition) Upsert(_ context.Context, rec Record) (Record, bool, error) {
	if existing, ok := p.findSlot(rec.StudentID, rec.Date); ok {
		existing.Status = rec.Status
		existing.Class = rec.Class
		existing.RecordedBy = rec.RecordedBy
		existing.UpdatedAt = time.Now()
		p.records[existing.ID] = existing
		return existing, false, nil
	}
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	p.records[rec.ID] = rec
	return rec, true, nil
}

func (p *fakePartition) ByDate(_ context.Context, date time.Time) ([]Record, error) {
	out := []Record{}
	for _, rec := range p.records {
		if rec.Date.Equal(date) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (p *fakePartition) ByClassAndDate(_ context.Context, class string, date time.Time) ([]Record, error) {
	out := []Record{}
	for _, rec := range p.records {
		if rec.Class == class && rec.Date.Equal(date) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (p *fakePartition) ByClass(_ context.Context, class string) ([]Record, error) {
	out := []Record{}
	for _, rec := range p.records {
		if rec.Class == class {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (p *fakePartition) ByStudent(_ context.Context, studentID string) ([]Record, error) {
	out := []Record{}
	for _, rec := range p.records {
		if rec.StudentID == studentID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (p *fakePartition) UpdateStatus(_ context.Context, id, status, recordedBy string) (Record, error) {
	rec, ok := p.records[id]
	if !ok {
		return Record{}, apperr.NotFound("attendance record not found")
	}
	rec.Status = status
	rec.RecordedBy = recordedBy
	p.records[id] = rec
	return rec, nil
}

func (p *fakePartition) Delete(_ context.Context, id string) error {
	if _, ok := p.records[id]; !ok {
		return apperr.NotFound("attendance record not found")
	}
	delete(p.records, id)
	return nil
}

func (p *fakePartition) Stats(_ context.Context, class string) (StatTotals, error) {
	var t StatTotals
	dates := map[string]bool{}
	for _, rec := range p.records {
		if rec.Class != class {
			continue
		}
		t.Total++
		if rec.Status == StatusPresent {
			t.Present++
		} else {
			t.Absent++
		}
		dates[rec.Date.Format("2006-01-02")] = true
	}
	t.Dates = len(dates)
	return t, nil
}

type fakeLedger struct {
	parts map[string]*fakePartition
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{parts: make(map[string]*fakePartition)}
}

func (l *fakeLedger) Partition(_ context.Context, year string) (LedgerPartition, error) {
	if !schoolyear.Valid(year) {
		return nil, apperr.Validation("invalid school year %q", year)
	}
	p, ok := l.parts[year]
	if !ok {
		p = newFakePartition()
		l.parts[year] = p
	}
	return p, nil
}

type fakeStudents struct {
	byID map[string]student.Student
}

func (f *fakeStudents) Get(_ context.Context, id string) (student.Student, error) {
	st, ok := f.byID[id]
	if !ok {
		return student.Student{}, apperr.NotFound("student not found")
	}
	return st, nil
}

func (f *fakeStudents) List(_ context.Context) ([]student.Student, error) {
	out := []student.Student{}
	for _, st := range f.byID {
		out = append(out, st)
	}
	return out, nil
}

type fakeConfigs struct {
	byYear map[string]classconfig.Config
}

func (f *fakeConfigs) Get(_ context.Context, year string) (classconfig.Config, error) {
	cfg, ok := f.byYear[year]
	if !ok {
		return classconfig.Config{}, apperr.NotFound("no class configuration found for school year %s", year)
	}
	return cfg, nil
}

func gradeConfig(year string) classconfig.Config {
	return classconfig.Config{
		SchoolYear: year,
		Classes: []classconfig.ClassDef{
			{ClassName: "JK-Gr1", SelectionMode: classconfig.ModeGrades, Grades: []string{"JK", "SK", "1"}},
			{ClassName: "Gr2-4", SelectionMode: classconfig.ModeGrades, Grades: []string{"2", "3", "4"}},
			{ClassName: "Gr5-6", SelectionMode: classconfig.ModeGrades, Grades: []string{"5", "6"}},
		},
	}
}

type fixture struct {
	svc      *Service
	ledger   *fakeLedger
	students *fakeStudents
	configs  *fakeConfigs
	actor    user.User
}

func newFixture() *fixture {
	ledger := newFakeLedger()
	students := &fakeStudents{byID: map[string]student.Student{}}
	configs := &fakeConfigs{byYear: map[string]classconfig.Config{"25_26": gradeConfig("25_26")}}
	return &fixture{
		svc:      NewService(ledger, students, configs),
		ledger:   ledger,
		students: students,
		configs:  configs,
		actor:    user.User{ID: uuid.NewString(), FullName: "Teacher Kim", Email: "kim@example.com", Role: user.RoleTeacher, IsActive: true},
	}
}

func (f *fixture) addStudent(name, grade string) student.Student {
	st := student.Student{ID: uuid.NewString(), FullName: name, Grade: grade, Gender: "Female"}
	f.students.byID[st.ID] = st
	return st
}

func TestRecordBulkEndToEnd(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.addStudent("Student A", "3")

	year, result, err := f.svc.RecordBulk(ctx, BulkInput{
		Date:       "2025-10-01",
		Records:    []BulkRecord{{StudentID: a.ID, Status: StatusPresent}},
		SchoolYear: "25_26",
	}, f.actor)
	require.NoError(t, err)
	assert.Equal(t, "25_26", year)
	require.Len(t, result.Created, 1)
	assert.Empty(t, result.Updated)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "Gr2-4", result.Created[0].Class)
	assert.Equal(t, StatusPresent, result.Created[0].Status)
	assert.Equal(t, f.actor.ID, result.Created[0].RecordedBy)

	// re-run with Absent: same slot gets overwritten, not duplicated
	_, result, err = f.svc.RecordBulk(ctx, BulkInput{
		Date:       "2025-10-01",
		Records:    []BulkRecord{{StudentID: a.ID, Status: StatusAbsent}},
		SchoolYear: "25_26",
	}, f.actor)
	require.NoError(t, err)
	assert.Empty(t, result.Created)
	require.Len(t, result.Updated, 1)
	assert.Equal(t, StatusAbsent, result.Updated[0].Status)

	date, _ := ParseDate("2025-10-01")
	part := f.ledger.parts["25_26"]
	recs, _ := part.ByDate(ctx, date)
	require.Len(t, recs, 1)
	assert.Equal(t, StatusAbsent, recs[0].Status)
}

func TestRecordBulkIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.addStudent("A", "2")
	b := f.addStudent("B", "4")
	in := BulkInput{
		Date:       "2025-11-09",
		Records:    []BulkRecord{{StudentID: a.ID, Status: StatusPresent}, {StudentID: b.ID, Status: StatusAbsent}},
		SchoolYear: "25_26",
	}

	_, first, err := f.svc.RecordBulk(ctx, in, f.actor)
	require.NoError(t, err)
	assert.Len(t, first.Created, 2)

	_, second, err := f.svc.RecordBulk(ctx, in, f.actor)
	require.NoError(t, err)
	assert.Empty(t, second.Created)
	assert.Len(t, second.Updated, 2)
	assert.Empty(t, second.Errors)

	date, _ := ParseDate("2025-11-09")
	recs, _ := f.ledger.parts["25_26"].ByDate(ctx, date)
	assert.Len(t, recs, 2)
}

func TestRecordOneDuplicate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.addStudent("A", "5")
	in := RecordOneInput{StudentID: a.ID, Date: "2025-10-05", Status: StatusPresent, SchoolYear: "25_26"}

	first, err := f.svc.RecordOne(ctx, in, f.actor)
	require.NoError(t, err)
	assert.Equal(t, "Gr5-6", first.Class)

	in.Status = StatusAbsent
	_, err = f.svc.RecordOne(ctx, in, f.actor)
	assert.True(t, apperr.IsDuplicate(err), "want duplicate error, got %v", err)

	// the loser did not clobber the first write
	date, _ := ParseDate("2025-10-05")
	recs, _ := f.ledger.parts["25_26"].ByDate(ctx, date)
	require.Len(t, recs, 1)
	assert.Equal(t, StatusPresent, recs[0].Status)
}

func TestPartitionIsolation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.addStudent("A", "3")

	_, _, err := f.svc.RecordBulk(ctx, BulkInput{
		Date:       "2026-01-15",
		Records:    []BulkRecord{{StudentID: a.ID, Status: StatusPresent}},
		SchoolYear: "25_26",
	}, f.actor)
	require.NoError(t, err)

	year, recs, err := f.svc.ByDate(ctx, "2026-01-15", "26_27")
	require.NoError(t, err)
	assert.Equal(t, "26_27", year)
	assert.Empty(t, recs, "record written under 25_26 must not leak into 26_27")
}

func TestRecordBulkMissingConfigAbortsBatch(t *testing.T) {
	f := newFixture()
	a := f.addStudent("A", "3")

	_, _, err := f.svc.RecordBulk(context.Background(), BulkInput{
		Date:       "2026-09-10",
		Records:    []BulkRecord{{StudentID: a.ID, Status: StatusPresent}},
		SchoolYear: "26_27",
	}, f.actor)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	assert.Contains(t, err.Error(), "configure classes first")
}

func TestRecordBulkUnassignedGrade(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.addStudent("A", "7") // no class covers grade 7 in the fixture config

	_, result, err := f.svc.RecordBulk(ctx, BulkInput{
		Date:       "2025-10-01",
		Records:    []BulkRecord{{StudentID: a.ID, Status: StatusPresent}},
		SchoolYear: "25_26",
	}, f.actor)
	require.NoError(t, err)
	assert.Empty(t, result.Created)
	assert.Empty(t, result.Updated)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "grade not assigned to any class", result.Errors[0].Message)

	date, _ := ParseDate("2025-10-01")
	recs, _ := f.ledger.parts["25_26"].ByDate(ctx, date)
	assert.Empty(t, recs, "failed record must not leave a ledger row")
}

func TestRecordOneUnassignedGrade(t *testing.T) {
	f := newFixture()
	a := f.addStudent("A", "9")

	_, err := f.svc.RecordOne(context.Background(), RecordOneInput{
		StudentID: a.ID, Date: "2025-10-01", Status: StatusPresent, SchoolYear: "25_26",
	}, f.actor)
	assert.True(t, apperr.IsValidation(err), "want validation error, got %v", err)
	assert.Contains(t, err.Error(), a.FullName)
	assert.Contains(t, err.Error(), "grade 9")
}

func TestRecordBulkCollectsMixedResults(t *testing.T) {
	f := newFixture()
	a := f.addStudent("A", "3")

	_, result, err := f.svc.RecordBulk(context.Background(), BulkInput{
		Date: "2025-10-01",
		Records: []BulkRecord{
			{StudentID: a.ID, Status: StatusPresent},
			{StudentID: uuid.NewString(), Status: StatusPresent}, // unknown student
			{StudentID: "", Status: StatusPresent},               // malformed
			{StudentID: a.ID, Status: "Late"},                    // bad status
		},
		SchoolYear: "25_26",
	}, f.actor)
	require.NoError(t, err)
	assert.Len(t, result.Created, 1)
	require.Len(t, result.Errors, 3)
	assert.Equal(t, "student not found", result.Errors[0].Message)
	assert.Equal(t, "missing studentId or status", result.Errors[1].Message)
	assert.Equal(t, "invalid status", result.Errors[2].Message)
}

func TestRosterView(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	marked := f.addStudent("Marked", "3")
	unmarked := f.addStudent("Unmarked", "2")
	f.addStudent("Other Class", "5")

	_, _, err := f.svc.RecordBulk(ctx, BulkInput{
		Date:       "2025-10-01",
		Records:    []BulkRecord{{StudentID: marked.ID, Status: StatusAbsent}},
		SchoolYear: "25_26",
	}, f.actor)
	require.NoError(t, err)

	_, entries, err := f.svc.Roster(ctx, "Gr2-4", "2025-10-01", "25_26")
	require.NoError(t, err)
	require.Len(t, entries, 2, "only Gr2-4 members appear")

	byName := map[string]RosterEntry{}
	for _, e := range entries {
		byName[e.Student.FullName] = e
	}
	require.NotNil(t, byName["Marked"].Attendance)
	assert.Equal(t, StatusAbsent, byName["Marked"].Attendance.Status)
	assert.Nil(t, byName[unmarked.FullName].Attendance, "unmarked student renders as not-yet-marked")
}

func TestClassStats(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.addStudent("A", "2")
	b := f.addStudent("B", "3")
	c := f.addStudent("C", "4")

	for _, day := range []struct {
		date     string
		statuses []string
	}{
		{"2025-10-01", []string{StatusPresent, StatusPresent, StatusAbsent}},
		{"2025-10-08", []string{StatusPresent, StatusAbsent, StatusAbsent}},
	} {
		recs := []BulkRecord{
			{StudentID: a.ID, Status: day.statuses[0]},
			{StudentID: b.ID, Status: day.statuses[1]},
			{StudentID: c.ID, Status: day.statuses[2]},
		}
		_, _, err := f.svc.RecordBulk(ctx, BulkInput{Date: day.date, Records: recs, SchoolYear: "25_26"}, f.actor)
		require.NoError(t, err)
	}

	stats, err := f.svc.ClassStats(ctx, "Gr2-4", "25_26")
	require.NoError(t, err)
	assert.Equal(t, 6, stats.TotalRecords)
	assert.Equal(t, 3, stats.PresentCount)
	assert.Equal(t, 3, stats.AbsentCount)
	assert.Equal(t, 50.0, stats.AttendanceRate)
	assert.Equal(t, 2, stats.TotalDates)
}

func TestClassStatsRounding(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	part, _ := f.ledger.Partition(ctx, "25_26")
	date, _ := ParseDate("2025-10-01")
	for i, status := range []string{StatusPresent, StatusPresent, StatusAbsent} {
		_, err := part.Insert(ctx, Record{
			StudentID: uuid.NewString(), Date: date.AddDate(0, 0, i), Class: "Gr2-4", Status: status, RecordedBy: f.actor.ID,
		})
		require.NoError(t, err)
	}

	stats, err := f.svc.ClassStats(ctx, "Gr2-4", "25_26")
	require.NoError(t, err)
	assert.Equal(t, 66.7, stats.AttendanceRate, "rate is rounded to one decimal place")

	empty, err := f.svc.ClassStats(ctx, "JK-Gr1", "25_26")
	require.NoError(t, err)
	assert.Zero(t, empty.AttendanceRate)
	assert.Zero(t, empty.TotalRecords)
}

func TestUpdateAndDeleteRequireExplicitPartition(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.UpdateOne(ctx, "current", uuid.NewString(), StatusPresent, f.actor)
	assert.True(t, apperr.IsValidation(err))

	err = f.svc.DeleteOne(ctx, "nope", uuid.NewString())
	assert.True(t, apperr.IsValidation(err))

	err = f.svc.DeleteOne(ctx, "25_26", uuid.NewString())
	assert.True(t, apperr.IsNotFound(err))
}

func TestDeleteReturnsSlotToUnmarked(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.addStudent("A", "3")

	rec, err := f.svc.RecordOne(ctx, RecordOneInput{
		StudentID: a.ID, Date: "2025-10-01", Status: StatusPresent, SchoolYear: "25_26",
	}, f.actor)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteOne(ctx, "25_26", rec.ID))

	// slot is unmarked again: a fresh single insert succeeds
	_, err = f.svc.RecordOne(ctx, RecordOneInput{
		StudentID: a.ID, Date: "2025-10-01", Status: StatusAbsent, SchoolYear: "25_26",
	}, f.actor)
	assert.NoError(t, err)
}

func TestRecordOneValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.addStudent("A", "3")

	_, err := f.svc.RecordOne(ctx, RecordOneInput{StudentID: a.ID, Date: "2025-10-01", Status: "Late"}, f.actor)
	assert.True(t, apperr.IsValidation(err))

	_, err = f.svc.RecordOne(ctx, RecordOneInput{StudentID: a.ID, Date: "october first", Status: StatusPresent}, f.actor)
	assert.True(t, apperr.IsValidation(err))

	_, err = f.svc.RecordOne(ctx, RecordOneInput{StudentID: a.ID, Date: "2025-10-01", Status: StatusPresent, SchoolYear: "bad"}, f.actor)
	assert.True(t, apperr.IsValidation(err))
}
