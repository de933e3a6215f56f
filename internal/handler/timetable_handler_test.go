package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smart-classroom/scs-api/internal/dto"
	"github.com/smart-classroom/scs-api/internal/models"
	appErrors "github.com/smart-classroom/scs-api/pkg/errors"
)

type timetableSchedulerMock struct {
	generateReq       dto.GenerateTimetableRequest
	saveReq           dto.SaveTimetableRequest
	listFilter        models.TimetableFilter
	deleteConstraints models.ConstraintConfig
	generateErr       error
	saveErr           error
}

func (m *timetableSchedulerMock) Generate(_ context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	m.generateReq = req
	if m.generateErr != nil {
		return nil, m.generateErr
	}
	return &dto.GenerateTimetableResponse{DraftID: "draft-1", ScheduledCount: 2, TotalCourses: 1}, nil
}

func (m *timetableSchedulerMock) Save(_ context.Context, req dto.SaveTimetableRequest) (int, error) {
	m.saveReq = req
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	return 2, nil
}

func (m *timetableSchedulerMock) List(_ context.Context, filter models.TimetableFilter) ([]models.ScheduleEntry, error) {
	m.listFilter = filter
	return []models.ScheduleEntry{{ID: "e1", Day: "Monday"}}, nil
}

func (m *timetableSchedulerMock) AddEntry(_ context.Context, req dto.EntryRequest) (*dto.EntryMutationResponse, error) {
	return &dto.EntryMutationResponse{Entry: &models.ScheduleEntry{ID: "e2", Day: req.Day}, Conflicts: []models.Conflict{}}, nil
}

func (m *timetableSchedulerMock) UpdateEntry(_ context.Context, id string, req dto.EntryRequest) (*dto.EntryMutationResponse, error) {
	return &dto.EntryMutationResponse{Entry: &models.ScheduleEntry{ID: id, Day: req.Day}, Conflicts: []models.Conflict{}}, nil
}

func (m *timetableSchedulerMock) DeleteEntry(_ context.Context, id string, constraints models.ConstraintConfig) (*dto.EntryMutationResponse, error) {
	m.deleteConstraints = constraints
	if id == "missing" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
	}
	return &dto.EntryMutationResponse{Conflicts: []models.Conflict{}}, nil
}

func (m *timetableSchedulerMock) DetectConflicts(_ context.Context, _ dto.DetectConflictsRequest) ([]models.Conflict, error) {
	return []models.Conflict{{Type: models.ConflictTypeFaculty, Resource: "f1"}}, nil
}

func newTimetableTestContext(t *testing.T, method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, target, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = int64(len(body))
	c.Request = req
	return c, w
}

func TestTimetableHandlerGenerate(t *testing.T) {
	mockSvc := &timetableSchedulerMock{}
	h := &TimetableHandler{service: mockSvc}

	payload := []byte(`{"department":"CS","constraints":{"optimize_for":"no_conflicts"}}`)
	c, w := newTimetableTestContext(t, http.MethodPost, "/timetable/generate", payload)

	h.Generate(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "CS", mockSvc.generateReq.Department)
	assert.Equal(t, models.OptimizeNoConflicts, mockSvc.generateReq.Constraints.OptimizeFor)
	assert.Contains(t, w.Body.String(), "draft-1")
}

func TestTimetableHandlerGenerateMalformedBody(t *testing.T) {
	h := &TimetableHandler{service: &timetableSchedulerMock{}}
	c, w := newTimetableTestContext(t, http.MethodPost, "/timetable/generate", []byte(`{"department":`))

	h.Generate(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimetableHandlerGenerateValidationError(t *testing.T) {
	mockSvc := &timetableSchedulerMock{generateErr: appErrors.Clone(appErrors.ErrValidation, "courses must not be empty")}
	h := &TimetableHandler{service: mockSvc}
	c, w := newTimetableTestContext(t, http.MethodPost, "/timetable/generate", []byte(`{}`))

	h.Generate(c)

	require.Equal(t, appErrors.ErrValidation.Status, w.Code)
	assert.Contains(t, w.Body.String(), "courses must not be empty")
}

func TestTimetableHandlerSave(t *testing.T) {
	mockSvc := &timetableSchedulerMock{}
	h := &TimetableHandler{service: mockSvc}
	c, w := newTimetableTestContext(t, http.MethodPost, "/timetable/save", []byte(`{"draftId":"draft-1","force":true}`))

	h.Save(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "draft-1", mockSvc.saveReq.DraftID)
	assert.True(t, mockSvc.saveReq.Force)
}

func TestTimetableHandlerSaveConflict(t *testing.T) {
	mockSvc := &timetableSchedulerMock{saveErr: appErrors.Clone(appErrors.ErrConflict, "draft contains unresolved conflicts")}
	h := &TimetableHandler{service: mockSvc}
	c, w := newTimetableTestContext(t, http.MethodPost, "/timetable/save", []byte(`{"draftId":"draft-1"}`))

	h.Save(c)

	require.Equal(t, appErrors.ErrConflict.Status, w.Code)
}

func TestTimetableHandlerListPassesFilter(t *testing.T) {
	mockSvc := &timetableSchedulerMock{}
	h := &TimetableHandler{service: mockSvc}
	c, w := newTimetableTestContext(t, http.MethodGet, "/timetable?day=Monday&facultyId=f1", nil)

	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Monday", mockSvc.listFilter.Day)
	assert.Equal(t, "f1", mockSvc.listFilter.FacultyID)
}

func TestTimetableHandlerAddEntry(t *testing.T) {
	h := &TimetableHandler{service: &timetableSchedulerMock{}}
	payload := []byte(`{"courseId":"c1","facultyId":"f1","classroomId":"r1","day":"Monday","timeSlot":"08:00-09:00"}`)
	c, w := newTimetableTestContext(t, http.MethodPost, "/timetable/entries", payload)

	h.AddEntry(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Monday")
}

func TestTimetableHandlerDeleteEntryNotFound(t *testing.T) {
	h := &TimetableHandler{service: &timetableSchedulerMock{}}
	c, w := newTimetableTestContext(t, http.MethodDelete, "/timetable/entries/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	h.DeleteEntry(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTimetableHandlerDeleteEntryForwardsConstraints(t *testing.T) {
	mockSvc := &timetableSchedulerMock{}
	h := &TimetableHandler{service: mockSvc}
	payload := []byte(`{"constraints":{"avoid_back_to_back":true,"max_hours_per_day":4}}`)
	c, w := newTimetableTestContext(t, http.MethodDelete, "/timetable/entries/e1", payload)
	c.Params = gin.Params{{Key: "id", Value: "e1"}}

	h.DeleteEntry(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.deleteConstraints.AvoidBackToBack)
	assert.Equal(t, 4, mockSvc.deleteConstraints.MaxHoursPerDay)
}

func TestTimetableHandlerConflicts(t *testing.T) {
	h := &TimetableHandler{service: &timetableSchedulerMock{}}
	c, w := newTimetableTestContext(t, http.MethodPost, "/timetable/conflicts", []byte(`{"constraints":{"avoid_back_to_back":true}}`))

	h.Conflicts(c)

	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []models.Conflict `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, models.ConflictTypeFaculty, envelope.Data[0].Type)
}

func TestTimetableHandlerConflictsEmptyBody(t *testing.T) {
	h := &TimetableHandler{service: &timetableSchedulerMock{}}
	c, w := newTimetableTestContext(t, http.MethodPost, "/timetable/conflicts", nil)

	h.Conflicts(c)

	require.Equal(t, http.StatusOK, w.Code)
}
