package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/smart-classroom/scs-api/internal/models"
)

// TimetableRepository provides persistence for published schedule entries.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository creates a new timetable repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

const entryColumns = "id, course_id, course_name, faculty_id, faculty_name, classroom_id, classroom_name, day, time_slot, department, course_type, created_at, updated_at"

const insertEntryQuery = `INSERT INTO schedule_entries (id, course_id, course_name, faculty_id, faculty_name, classroom_id, classroom_name, day, time_slot, department, course_type, created_at, updated_at) VALUES (:id, :course_id, :course_name, :faculty_id, :faculty_name, :classroom_id, :classroom_name, :day, :time_slot, :department, :course_type, :created_at, :updated_at)`

// List returns schedule entries matching the filter, ordered by day and slot.
func (r *TimetableRepository) List(ctx context.Context, filter models.TimetableFilter) ([]models.ScheduleEntry, error) {
	base := "FROM schedule_entries WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Day != "" {
		conditions = append(conditions, fmt.Sprintf("day = $%d", len(args)+1))
		args = append(args, filter.Day)
	}
	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)+1))
		args = append(args, filter.Department)
	}
	if filter.FacultyID != "" {
		conditions = append(conditions, fmt.Sprintf("faculty_id = $%d", len(args)+1))
		args = append(args, filter.FacultyID)
	}
	if filter.ClassroomID != "" {
		conditions = append(conditions, fmt.Sprintf("classroom_id = $%d", len(args)+1))
		args = append(args, filter.ClassroomID)
	}
	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY day ASC, time_slot ASC, course_name ASC", entryColumns, base)
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list schedule entries: %w", err)
	}
	return entries, nil
}

// FindByID loads a schedule entry by id.
func (r *TimetableRepository) FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_entries WHERE id = $1", entryColumns)
	var entry models.ScheduleEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Insert stores a single schedule entry.
func (r *TimetableRepository) Insert(ctx context.Context, entry *models.ScheduleEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	if _, err := r.db.NamedExecContext(ctx, insertEntryQuery, entry); err != nil {
		return fmt.Errorf("insert schedule entry: %w", err)
	}
	return nil
}

// ReplaceAll swaps the published timetable for the given entries within a
// fresh transaction.
func (r *TimetableRepository) ReplaceAll(ctx context.Context, entries []models.ScheduleEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace timetable: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.replaceAll(ctx, tx, entries); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace timetable: %w", err)
	}
	return nil
}

// ReplaceAllWithTx swaps the published timetable using an existing transaction.
func (r *TimetableRepository) ReplaceAllWithTx(ctx context.Context, tx *sqlx.Tx, entries []models.ScheduleEntry) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	return r.replaceAll(ctx, tx, entries)
}

func (r *TimetableRepository) replaceAll(ctx context.Context, tx *sqlx.Tx, entries []models.ScheduleEntry) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_entries`); err != nil {
		return fmt.Errorf("clear schedule entries: %w", err)
	}

	now := time.Now().UTC()
	for i := range entries {
		payload := entries[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}
		payload.UpdatedAt = now

		if _, err := sqlx.NamedExecContext(ctx, tx, insertEntryQuery, &payload); err != nil {
			return fmt.Errorf("insert schedule entry: %w", err)
		}
		entries[i] = payload
	}
	return nil
}

// Update modifies a schedule entry.
func (r *TimetableRepository) Update(ctx context.Context, entry *models.ScheduleEntry) error {
	entry.UpdatedAt = time.Now().UTC()
	const query = `UPDATE schedule_entries SET course_id = :course_id, course_name = :course_name, faculty_id = :faculty_id, faculty_name = :faculty_name, classroom_id = :classroom_id, classroom_name = :classroom_name, day = :day, time_slot = :time_slot, department = :department, course_type = :course_type, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("update schedule entry: %w", err)
	}
	return nil
}

// Delete removes a schedule entry by id.
func (r *TimetableRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedule_entries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete schedule entry: %w", err)
	}
	return nil
}
