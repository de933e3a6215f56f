package handler

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/smart-classroom/scs-api/internal/dto"
	"github.com/smart-classroom/scs-api/internal/models"
	"github.com/smart-classroom/scs-api/internal/service"
	appErrors "github.com/smart-classroom/scs-api/pkg/errors"
	"github.com/smart-classroom/scs-api/pkg/response"
)

type timetableScheduler interface {
	Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error)
	Save(ctx context.Context, req dto.SaveTimetableRequest) (int, error)
	List(ctx context.Context, filter models.TimetableFilter) ([]models.ScheduleEntry, error)
	AddEntry(ctx context.Context, req dto.EntryRequest) (*dto.EntryMutationResponse, error)
	UpdateEntry(ctx context.Context, id string, req dto.EntryRequest) (*dto.EntryMutationResponse, error)
	DeleteEntry(ctx context.Context, id string, constraints models.ConstraintConfig) (*dto.EntryMutationResponse, error)
	DetectConflicts(ctx context.Context, req dto.DetectConflictsRequest) ([]models.Conflict, error)
}

// TimetableHandler exposes generator, timetable and export endpoints.
type TimetableHandler struct {
	service  timetableScheduler
	exporter *service.ExportService
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc *service.TimetableService, exporter *service.ExportService) *TimetableHandler {
	return &TimetableHandler{service: svc, exporter: exporter}
}

// Generate godoc
// @Summary Generate a draft timetable from the current catalog
// @Description Runs the constraint-based generator. Unplaced demand is returned as conflicts, not errors.
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Generate payload"
// @Success 200 {object} response.Envelope
// @Router /timetable/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Save godoc
// @Summary Publish a draft timetable
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.SaveTimetableRequest true "Save payload"
// @Success 201 {object} response.Envelope
// @Router /timetable/save [post]
func (h *TimetableHandler) Save(c *gin.Context) {
	var req dto.SaveTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid save payload"))
		return
	}
	count, err := h.service.Save(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"entriesSaved": count})
}

// List godoc
// @Summary List the published timetable
// @Tags Timetable
// @Produce json
// @Param day query string false "Filter by day"
// @Param department query string false "Filter by department"
// @Param facultyId query string false "Filter by faculty"
// @Param classroomId query string false "Filter by classroom"
// @Param courseId query string false "Filter by course"
// @Success 200 {object} response.Envelope
// @Router /timetable [get]
func (h *TimetableHandler) List(c *gin.Context) {
	filter := models.TimetableFilter{
		Day:         c.Query("day"),
		Department:  c.Query("department"),
		FacultyID:   c.Query("facultyId"),
		ClassroomID: c.Query("classroomId"),
		CourseID:    c.Query("courseId"),
	}
	entries, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// AddEntry godoc
// @Summary Add a manual schedule entry
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.EntryRequest true "Entry payload"
// @Success 201 {object} response.Envelope
// @Router /timetable/entries [post]
func (h *TimetableHandler) AddEntry(c *gin.Context) {
	var req dto.EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid entry payload"))
		return
	}
	result, err := h.service.AddEntry(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateEntry godoc
// @Summary Update a schedule entry
// @Tags Timetable
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param payload body dto.EntryRequest true "Entry payload"
// @Success 200 {object} response.Envelope
// @Router /timetable/entries/{id} [put]
func (h *TimetableHandler) UpdateEntry(c *gin.Context) {
	var req dto.EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid entry payload"))
		return
	}
	result, err := h.service.UpdateEntry(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// DeleteEntry godoc
// @Summary Delete a schedule entry
// @Tags Timetable
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param payload body dto.DeleteEntryRequest false "Detection constraints for the re-scan"
// @Success 200 {object} response.Envelope
// @Router /timetable/entries/{id} [delete]
func (h *TimetableHandler) DeleteEntry(c *gin.Context) {
	var req dto.DeleteEntryRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid delete payload"))
			return
		}
	}
	result, err := h.service.DeleteEntry(c.Request.Context(), c.Param("id"), req.Constraints)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Conflicts godoc
// @Summary Re-scan the published timetable for conflicts
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.DetectConflictsRequest false "Detection constraints"
// @Success 200 {object} response.Envelope
// @Router /timetable/conflicts [post]
func (h *TimetableHandler) Conflicts(c *gin.Context) {
	var req dto.DetectConflictsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid detection payload"))
			return
		}
	}
	conflicts, err := h.service.DetectConflicts(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conflicts, nil)
}

// Export godoc
// @Summary Export the published timetable
// @Tags Timetable
// @Produce json
// @Param format query string true "Export format (csv, pdf, json)"
// @Param department query string false "Filter by department"
// @Success 200 {object} response.Envelope
// @Router /timetable/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", service.ExportFormatCSV))
	filter := models.TimetableFilter{
		Department: c.Query("department"),
		Day:        c.Query("day"),
	}
	result, err := h.exporter.Generate(c.Request.Context(), format, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.ExportTimetableResponse{
		Format:    result.Format,
		URL:       result.URL,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	}, nil)
}

// Download godoc
// @Summary Download a rendered export by signed token
// @Tags Timetable
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200
// @Router /timetable/export/{token} [get]
func (h *TimetableHandler) Download(c *gin.Context) {
	token := c.Param("token")
	_, relPath, _, err := h.exporter.ParseToken(token, false)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid or expired download token"))
		return
	}
	file, err := h.exporter.Open(relPath)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export file not found"))
		return
	}
	defer file.Close()

	filename := filepath.Base(relPath)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.File(file.Name())
}
