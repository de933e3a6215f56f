package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smart-classroom/scs-api/internal/models"
)

func entryRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "course_id", "course_name", "faculty_id", "faculty_name", "classroom_id", "classroom_name", "day", "time_slot", "department", "course_type", "created_at", "updated_at"}).
		AddRow("e1", "c1", "Intro to CS", "f1", "Dr. Smith", "r1", "Room 101", "Monday", "08:00-09:00", "CS", "Lecture", time.Now(), time.Now())
}

func TestTimetableRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectQuery("SELECT .+ FROM schedule_entries WHERE 1=1 ORDER BY day ASC, time_slot ASC, course_name ASC").
		WillReturnRows(entryRows())

	entries, err := repo.List(context.Background(), models.TimetableFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Monday", entries[0].Day)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectQuery("SELECT .+ FROM schedule_entries WHERE 1=1 AND day = \\$1 AND faculty_id = \\$2").
		WithArgs("Monday", "f1").
		WillReturnRows(entryRows())

	entries, err := repo.List(context.Background(), models.TimetableFilter{Day: "Monday", FacultyID: "f1"})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryInsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec("INSERT INTO schedule_entries").
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.ScheduleEntry{CourseID: "c1", FacultyID: "f1", ClassroomID: "r1", Day: "Monday", TimeSlot: "08:00-09:00"}
	require.NoError(t, repo.Insert(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryReplaceAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_entries")).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO schedule_entries").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO schedule_entries").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	entries := []models.ScheduleEntry{
		{CourseID: "c1", FacultyID: "f1", ClassroomID: "r1", Day: "Monday", TimeSlot: "08:00-09:00"},
		{CourseID: "c2", FacultyID: "f2", ClassroomID: "r2", Day: "Tuesday", TimeSlot: "09:00-10:00"},
	}
	require.NoError(t, repo.ReplaceAll(context.Background(), entries))
	assert.NotEmpty(t, entries[0].ID)
	assert.NotEmpty(t, entries[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryReplaceAllWithTxNil(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	err := repo.ReplaceAllWithTx(context.Background(), nil, nil)
	require.Error(t, err)
}

func TestTimetableRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_entries WHERE id = $1")).
		WithArgs("e1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Delete(context.Background(), "e1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
