package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/smart-classroom/scs-api/internal/dto"
	"github.com/smart-classroom/scs-api/internal/models"
	appErrors "github.com/smart-classroom/scs-api/pkg/errors"
)

type courseSnapshotReader interface {
	ListAll(ctx context.Context, department string) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type facultySnapshotReader interface {
	ListAll(ctx context.Context, department string) ([]models.Faculty, error)
	FindByID(ctx context.Context, id string) (*models.Faculty, error)
}

type classroomSnapshotReader interface {
	ListAll(ctx context.Context) ([]models.Classroom, error)
	FindByID(ctx context.Context, id string) (*models.Classroom, error)
}

type timetableRepository interface {
	ReplaceAllWithTx(ctx context.Context, tx *sqlx.Tx, entries []models.ScheduleEntry) error
	List(ctx context.Context, filter models.TimetableFilter) ([]models.ScheduleEntry, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error)
	Insert(ctx context.Context, entry *models.ScheduleEntry) error
	Update(ctx context.Context, entry *models.ScheduleEntry) error
	Delete(ctx context.Context, id string) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

const publishedTimetableCacheKey = "timetable:published"

// TimetableServiceConfig governs generator and cache behaviour.
type TimetableServiceConfig struct {
	DraftTTL    time.Duration
	MaxAttempts int
	CacheTTL    time.Duration
}

// TimetableService runs the constraint-based generator over the catalog
// snapshot, keeps drafts until they are published, and owns the manual-edit
// and conflict-detection workflows.
type TimetableService struct {
	courses    courseSnapshotReader
	faculty    facultySnapshotReader
	classrooms classroomSnapshotReader
	timetable  timetableRepository
	tx         txProvider
	cache      *CacheService
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	store      *draftStore
	cfg        TimetableServiceConfig
}

// NewTimetableService wires scheduler dependencies.
func NewTimetableService(
	courses courseSnapshotReader,
	faculty facultySnapshotReader,
	classrooms classroomSnapshotReader,
	timetable timetableRepository,
	tx txProvider,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg TimetableServiceConfig,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DraftTTL <= 0 {
		cfg.DraftTTL = 30 * time.Minute
	}
	return &TimetableService{
		courses:    courses,
		faculty:    faculty,
		classrooms: classrooms,
		timetable:  timetable,
		tx:         tx,
		cache:      cache,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
		store:      newDraftStore(cfg.DraftTTL),
		cfg:        cfg,
	}
}

// Generate runs one generator pass over the current catalog snapshot and
// stores the result as a draft. Feasibility conflicts are part of the result,
// not errors; only malformed input fails.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generate payload")
	}

	days := req.Days
	if len(days) == 0 {
		days = models.DefaultDays()
	}
	timeSlots := req.TimeSlots
	if len(timeSlots) == 0 {
		timeSlots = models.DefaultTimeSlots()
	}

	courses, err := s.courses.ListAll(ctx, req.Department)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	faculty, err := s.faculty.ListAll(ctx, req.Department)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	classrooms, err := s.classrooms.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classrooms")
	}

	engine := newTimetableEngine(courses, faculty, classrooms, days, timeSlots, req.Constraints, s.cfg.MaxAttempts)
	result, err := engine.Run()
	if err != nil {
		return nil, err
	}

	draft := timetableDraft{
		DraftID:     uuid.NewString(),
		Result:      *result,
		Days:        days,
		TimeSlots:   timeSlots,
		Constraints: req.Constraints,
		RequestedAt: time.Now().UTC(),
	}
	s.store.Save(draft)

	if s.metrics != nil {
		s.metrics.RecordGeneration(result.ScheduledCount, len(result.Conflicts), req.Constraints.OptimizeFor)
	}
	s.logger.Info("timetable generated",
		zap.String("draft_id", draft.DraftID),
		zap.Int("scheduled", result.ScheduledCount),
		zap.Int("conflicts", len(result.Conflicts)),
	)

	return &dto.GenerateTimetableResponse{
		DraftID:        draft.DraftID,
		Timetable:      result.Timetable,
		Conflicts:      result.Conflicts,
		ScheduledCount: result.ScheduledCount,
		TotalCourses:   result.TotalCourses,
		Utilization:    result.Utilization,
	}, nil
}

// Save publishes a draft, replacing the persisted timetable transactionally.
// Drafts that still carry conflicts are rejected unless forced.
func (s *TimetableService) Save(ctx context.Context, req dto.SaveTimetableRequest) (int, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid save payload")
	}
	draft, ok := s.store.Get(req.DraftID)
	if !ok {
		return 0, appErrors.Clone(appErrors.ErrNotFound, "draft not found or expired")
	}
	if len(draft.Result.Conflicts) > 0 && !req.Force {
		return 0, appErrors.Clone(appErrors.ErrConflict, "draft contains unresolved conflicts")
	}
	if s.tx == nil {
		return 0, appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	if err := s.timetable.ReplaceAllWithTx(ctx, tx, draft.Result.Timetable); err != nil {
		_ = tx.Rollback()
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist timetable")
	}
	if err := tx.Commit(); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit timetable")
	}

	s.store.Delete(req.DraftID)
	s.invalidateCache(ctx)
	return len(draft.Result.Timetable), nil
}

// List returns published entries. Unfiltered reads go through the cache.
func (s *TimetableService) List(ctx context.Context, filter models.TimetableFilter) ([]models.ScheduleEntry, error) {
	if filter.Empty() && s.cache.Enabled() {
		var cached []models.ScheduleEntry
		if hit, _ := s.cache.Get(ctx, publishedTimetableCacheKey, &cached); hit {
			return cached, nil
		}
	}

	entries, err := s.timetable.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable")
	}

	if filter.Empty() && s.cache.Enabled() {
		_ = s.cache.Set(ctx, publishedTimetableCacheKey, entries, s.cfg.CacheTTL)
	}
	return entries, nil
}

// AddEntry inserts a manual entry and re-runs the detector so the conflicts
// view stays consistent.
func (s *TimetableService) AddEntry(ctx context.Context, req dto.EntryRequest) (*dto.EntryMutationResponse, error) {
	entry, err := s.buildEntry(ctx, req)
	if err != nil {
		return nil, err
	}
	entry.ID = uuid.NewString()
	if err := s.timetable.Insert(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to insert schedule entry")
	}
	s.invalidateCache(ctx)
	conflicts, err := s.DetectConflicts(ctx, dto.DetectConflictsRequest{Constraints: req.Constraints})
	if err != nil {
		return nil, err
	}
	return &dto.EntryMutationResponse{Entry: entry, Conflicts: conflicts}, nil
}

// UpdateEntry replaces the assignment of one entry and re-runs the detector.
func (s *TimetableService) UpdateEntry(ctx context.Context, id string, req dto.EntryRequest) (*dto.EntryMutationResponse, error) {
	existing, err := s.timetable.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entry")
	}
	entry, err := s.buildEntry(ctx, req)
	if err != nil {
		return nil, err
	}
	entry.ID = existing.ID
	if err := s.timetable.Update(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule entry")
	}
	s.invalidateCache(ctx)
	conflicts, err := s.DetectConflicts(ctx, dto.DetectConflictsRequest{Constraints: req.Constraints})
	if err != nil {
		return nil, err
	}
	return &dto.EntryMutationResponse{Entry: entry, Conflicts: conflicts}, nil
}

// DeleteEntry removes one entry and re-runs the detector.
func (s *TimetableService) DeleteEntry(ctx context.Context, id string, constraints models.ConstraintConfig) (*dto.EntryMutationResponse, error) {
	if _, err := s.timetable.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entry")
	}
	if err := s.timetable.Delete(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule entry")
	}
	s.invalidateCache(ctx)
	conflicts, err := s.DetectConflicts(ctx, dto.DetectConflictsRequest{Constraints: constraints})
	if err != nil {
		return nil, err
	}
	return &dto.EntryMutationResponse{Conflicts: conflicts}, nil
}

// DetectConflicts re-scans the published timetable with the given constraint
// set. The scan never mutates its input and is safe to repeat.
func (s *TimetableService) DetectConflicts(ctx context.Context, req dto.DetectConflictsRequest) ([]models.Conflict, error) {
	entries, err := s.timetable.List(ctx, models.TimetableFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable")
	}
	timeSlots := req.TimeSlots
	if len(timeSlots) == 0 {
		timeSlots = models.DefaultTimeSlots()
	}
	return detectTimetableConflicts(entries, timeSlots, req.Constraints), nil
}

func (s *TimetableService) buildEntry(ctx context.Context, req dto.EntryRequest) (*models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid entry payload")
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	faculty, err := s.faculty.FindByID(ctx, req.FacultyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	classroom, err := s.classrooms.FindByID(ctx, req.ClassroomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom")
	}

	return &models.ScheduleEntry{
		CourseID:      course.ID,
		CourseName:    course.Name,
		FacultyID:     faculty.ID,
		FacultyName:   faculty.Name,
		ClassroomID:   classroom.ID,
		ClassroomName: classroom.Name,
		Day:           req.Day,
		TimeSlot:      req.TimeSlot,
		Department:    course.Department,
		CourseType:    course.Type,
	}, nil
}

func (s *TimetableService) invalidateCache(ctx context.Context) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, "timetable:*"); err != nil {
		s.logger.Warn("timetable cache invalidation failed", zap.Error(err))
	}
}

// --- Draft store ---

type timetableDraft struct {
	DraftID     string
	Result      models.GenerationResult
	Days        []string
	TimeSlots   []string
	Constraints models.ConstraintConfig
	RequestedAt time.Time
}

type draftStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]timetableDraft
}

func newDraftStore(ttl time.Duration) *draftStore {
	return &draftStore{
		ttl:   ttl,
		items: make(map[string]timetableDraft),
	}
}

func (s *draftStore) Save(draft timetableDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[draft.DraftID] = draft
}

func (s *draftStore) Get(id string) (timetableDraft, bool) {
	s.mu.RLock()
	draft, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return timetableDraft{}, false
	}
	if time.Since(draft.RequestedAt) > s.ttl {
		s.Delete(id)
		return timetableDraft{}, false
	}
	return draft, true
}

func (s *draftStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}
