package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/smart-classroom/scs-api/internal/models"
	appErrors "github.com/smart-classroom/scs-api/pkg/errors"
)

type facultyRepository interface {
	List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, int, error)
	FindByID(ctx context.Context, id string) (*models.Faculty, error)
	Create(ctx context.Context, faculty *models.Faculty) error
	Update(ctx context.Context, faculty *models.Faculty) error
	Delete(ctx context.Context, id string) error
	CountScheduleEntries(ctx context.Context, id string) (int, error)
}

// FacultyRequest captures fields for creating or updating faculty members.
// Availability accepts full day names or three-letter prefixes.
type FacultyRequest struct {
	Name         string   `json:"name" validate:"required"`
	Department   string   `json:"department" validate:"required"`
	Availability []string `json:"availability" validate:"required,min=1,dive,required"`
	MaxHours     int      `json:"max_hours" validate:"required,min=1,max=40"`
	Expertise    []string `json:"expertise"`
}

// FacultyService handles faculty roster workflows.
type FacultyService struct {
	repo      facultyRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFacultyService creates a new faculty service.
func NewFacultyService(repo facultyRepository, validate *validator.Validate, logger *zap.Logger) *FacultyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FacultyService{repo: repo, validator: validate, logger: logger}
}

// List returns paginated faculty members.
func (s *FacultyService) List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, *models.Pagination, error) {
	faculty, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faculty")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return faculty, pagination, nil
}

// Get returns a faculty member by identifier.
func (s *FacultyService) Get(ctx context.Context, id string) (*models.Faculty, error) {
	faculty, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	return faculty, nil
}

// Create adds a new faculty member.
func (s *FacultyService) Create(ctx context.Context, req FacultyRequest) (*models.Faculty, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty payload")
	}

	faculty := &models.Faculty{
		Name:         strings.TrimSpace(req.Name),
		Department:   req.Department,
		Availability: req.Availability,
		MaxHours:     req.MaxHours,
		Expertise:    req.Expertise,
	}

	if err := s.repo.Create(ctx, faculty); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create faculty")
	}
	return faculty, nil
}

// Update modifies an existing faculty member.
func (s *FacultyService) Update(ctx context.Context, id string, req FacultyRequest) (*models.Faculty, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty payload")
	}

	faculty, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}

	faculty.Name = strings.TrimSpace(req.Name)
	faculty.Department = req.Department
	faculty.Availability = req.Availability
	faculty.MaxHours = req.MaxHours
	faculty.Expertise = req.Expertise

	if err := s.repo.Update(ctx, faculty); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update faculty")
	}
	return faculty, nil
}

// Delete removes a faculty member when no schedule entries reference them.
func (s *FacultyService) Delete(ctx context.Context, id string) error {
	faculty, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}

	count, err := s.repo.CountScheduleEntries(ctx, faculty.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check faculty dependencies")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "faculty referenced by schedule entries")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete faculty")
	}
	return nil
}
