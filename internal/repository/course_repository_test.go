package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smart-classroom/scs-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func courseRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "code", "name", "credits", "department", "type", "student_count", "max_students", "created_at", "updated_at"}).
		AddRow("c1", "CS101", "Intro to CS", 3, "CS", "Lecture", 45, 60, time.Now(), time.Now())
}

func TestCourseRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, code, name, credits, department, type, student_count, max_students, created_at, updated_at FROM courses WHERE 1=1 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WillReturnRows(courseRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM courses WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.CourseFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListFiltersByDepartment(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery("SELECT id, code, name, credits, department, type, student_count, max_students, created_at, updated_at FROM courses WHERE 1=1 AND department = \\$1").
		WithArgs("CS").
		WillReturnRows(courseRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM courses WHERE 1=1 AND department = $1")).
		WithArgs("CS").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, _, err := repo.List(context.Background(), models.CourseFilter{Department: "CS"})
	require.NoError(t, err)
	assert.Equal(t, "CS", list[0].Department)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, code, name, credits, department, type, student_count, max_students, created_at, updated_at FROM courses ORDER BY code ASC")).
		WillReturnRows(courseRows())

	courses, err := repo.ListAll(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, courses, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("INSERT INTO courses").
		WithArgs(sqlmock.AnyArg(), "CS101", "Intro to CS", 3, "CS", "Lecture", 45, 60, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	course := &models.Course{Code: "CS101", Name: "Intro to CS", Credits: 3, Department: "CS", Type: "Lecture", StudentCount: 45, MaxStudents: 60}
	require.NoError(t, repo.Create(context.Background(), course))
	assert.NotEmpty(t, course.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryExistsByCode(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM courses WHERE LOWER(code) = LOWER($1) LIMIT 1")).
		WithArgs("CS101").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.ExistsByCode(context.Background(), "CS101", "")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM courses WHERE id = $1")).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Delete(context.Background(), "c1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
