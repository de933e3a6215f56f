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

// FacultyRepository handles persistence for faculty members.
type FacultyRepository struct {
	db *sqlx.DB
}

// NewFacultyRepository creates a new repository instance.
func NewFacultyRepository(db *sqlx.DB) *FacultyRepository {
	return &FacultyRepository{db: db}
}

const facultyColumns = "id, name, department, availability, max_hours, expertise, created_at, updated_at"

// List returns faculty matching filters with pagination metadata.
func (r *FacultyRepository) List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, int, error) {
	base := "FROM faculty WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)+1))
		args = append(args, filter.Department)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "name"
	}
	allowedSorts := map[string]bool{
		"name":       true,
		"department": true,
		"max_hours":  true,
		"created_at": true,
		"updated_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "name"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", facultyColumns, base, sortBy, order, size, offset)
	var faculty []models.Faculty
	if err := r.db.SelectContext(ctx, &faculty, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list faculty: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count faculty: %w", err)
	}

	return faculty, total, nil
}

// ListAll returns all faculty, optionally scoped to a department. The
// generator snapshots the roster through this call.
func (r *FacultyRepository) ListAll(ctx context.Context, department string) ([]models.Faculty, error) {
	query := fmt.Sprintf("SELECT %s FROM faculty", facultyColumns)
	var args []interface{}
	if department != "" {
		query += " WHERE department = $1"
		args = append(args, department)
	}
	query += " ORDER BY name ASC"

	var faculty []models.Faculty
	if err := r.db.SelectContext(ctx, &faculty, query, args...); err != nil {
		return nil, fmt.Errorf("list all faculty: %w", err)
	}
	return faculty, nil
}

// FindByID returns a faculty member by id.
func (r *FacultyRepository) FindByID(ctx context.Context, id string) (*models.Faculty, error) {
	query := fmt.Sprintf("SELECT %s FROM faculty WHERE id = $1", facultyColumns)
	var faculty models.Faculty
	if err := r.db.GetContext(ctx, &faculty, query, id); err != nil {
		return nil, err
	}
	return &faculty, nil
}

// Create persists a new faculty member.
func (r *FacultyRepository) Create(ctx context.Context, faculty *models.Faculty) error {
	if faculty.ID == "" {
		faculty.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if faculty.CreatedAt.IsZero() {
		faculty.CreatedAt = now
	}
	faculty.UpdatedAt = now

	const query = `INSERT INTO faculty (id, name, department, availability, max_hours, expertise, created_at, updated_at) VALUES (:id, :name, :department, :availability, :max_hours, :expertise, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, faculty); err != nil {
		return fmt.Errorf("create faculty: %w", err)
	}
	return nil
}

// Update modifies a faculty member.
func (r *FacultyRepository) Update(ctx context.Context, faculty *models.Faculty) error {
	faculty.UpdatedAt = time.Now().UTC()
	const query = `UPDATE faculty SET name = :name, department = :department, availability = :availability, max_hours = :max_hours, expertise = :expertise, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, faculty); err != nil {
		return fmt.Errorf("update faculty: %w", err)
	}
	return nil
}

// Delete removes a faculty record.
func (r *FacultyRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM faculty WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete faculty: %w", err)
	}
	return nil
}

// CountScheduleEntries returns the number of schedule entries referencing the faculty member.
func (r *FacultyRepository) CountScheduleEntries(ctx context.Context, id string) (int, error) {
	const query = `SELECT COUNT(*) FROM schedule_entries WHERE faculty_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("count faculty schedule entries: %w", err)
	}
	return count, nil
}
