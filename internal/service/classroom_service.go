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

type classroomRepository interface {
	List(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, int, error)
	FindByID(ctx context.Context, id string) (*models.Classroom, error)
	Create(ctx context.Context, classroom *models.Classroom) error
	Update(ctx context.Context, classroom *models.Classroom) error
	Delete(ctx context.Context, id string) error
	CountScheduleEntries(ctx context.Context, id string) (int, error)
}

// ClassroomRequest captures fields for creating or updating classrooms.
type ClassroomRequest struct {
	Name       string   `json:"name" validate:"required"`
	Capacity   int      `json:"capacity" validate:"required,min=1"`
	Type       string   `json:"type" validate:"required,oneof='Lecture Hall' Lab Classroom 'Seminar Hall'"`
	Department string   `json:"department" validate:"required"`
	Facilities []string `json:"facilities"`
}

// ClassroomService handles classroom catalog workflows.
type ClassroomService struct {
	repo      classroomRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassroomService creates a new classroom service.
func NewClassroomService(repo classroomRepository, validate *validator.Validate, logger *zap.Logger) *ClassroomService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassroomService{repo: repo, validator: validate, logger: logger}
}

// List returns paginated classrooms.
func (s *ClassroomService) List(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, *models.Pagination, error) {
	classrooms, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classrooms")
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
	return classrooms, pagination, nil
}

// Get returns a classroom by identifier.
func (s *ClassroomService) Get(ctx context.Context, id string) (*models.Classroom, error) {
	classroom, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom")
	}
	return classroom, nil
}

// Create adds a new classroom.
func (s *ClassroomService) Create(ctx context.Context, req ClassroomRequest) (*models.Classroom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid classroom payload")
	}

	classroom := &models.Classroom{
		Name:       strings.TrimSpace(req.Name),
		Capacity:   req.Capacity,
		Type:       req.Type,
		Department: req.Department,
		Facilities: req.Facilities,
	}

	if err := s.repo.Create(ctx, classroom); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create classroom")
	}
	return classroom, nil
}

// Update modifies an existing classroom.
func (s *ClassroomService) Update(ctx context.Context, id string, req ClassroomRequest) (*models.Classroom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid classroom payload")
	}

	classroom, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom")
	}

	classroom.Name = strings.TrimSpace(req.Name)
	classroom.Capacity = req.Capacity
	classroom.Type = req.Type
	classroom.Department = req.Department
	classroom.Facilities = req.Facilities

	if err := s.repo.Update(ctx, classroom); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update classroom")
	}
	return classroom, nil
}

// Delete removes a classroom when no schedule entries reference it.
func (s *ClassroomService) Delete(ctx context.Context, id string) error {
	classroom, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom")
	}

	count, err := s.repo.CountScheduleEntries(ctx, classroom.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check classroom dependencies")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "classroom referenced by schedule entries")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete classroom")
	}
	return nil
}
