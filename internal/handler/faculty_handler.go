package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/smart-classroom/scs-api/internal/models"
	"github.com/smart-classroom/scs-api/internal/service"
	appErrors "github.com/smart-classroom/scs-api/pkg/errors"
	"github.com/smart-classroom/scs-api/pkg/response"
)

// FacultyHandler handles faculty roster endpoints.
type FacultyHandler struct {
	service *service.FacultyService
}

// NewFacultyHandler constructs a faculty handler.
func NewFacultyHandler(svc *service.FacultyService) *FacultyHandler {
	return &FacultyHandler{service: svc}
}

// List godoc
// @Summary List faculty members
// @Tags Faculty
// @Produce json
// @Param department query string false "Filter by department"
// @Param search query string false "Search keyword"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /faculty [get]
func (h *FacultyHandler) List(c *gin.Context) {
	var filter models.FacultyFilter
	filter.Department = c.Query("department")
	filter.Search = strings.TrimSpace(c.Query("search"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	faculty, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, faculty, pagination)
}

// Get godoc
// @Summary Get faculty member by id
// @Tags Faculty
// @Produce json
// @Param id path string true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Router /faculty/{id} [get]
func (h *FacultyHandler) Get(c *gin.Context) {
	faculty, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, faculty, nil)
}

// Create godoc
// @Summary Create faculty member
// @Tags Faculty
// @Accept json
// @Produce json
// @Param payload body service.FacultyRequest true "Faculty payload"
// @Success 201 {object} response.Envelope
// @Router /faculty [post]
func (h *FacultyHandler) Create(c *gin.Context) {
	var req service.FacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	faculty, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, faculty)
}

// Update godoc
// @Summary Update faculty member
// @Tags Faculty
// @Accept json
// @Produce json
// @Param id path string true "Faculty ID"
// @Param payload body service.FacultyRequest true "Faculty payload"
// @Success 200 {object} response.Envelope
// @Router /faculty/{id} [put]
func (h *FacultyHandler) Update(c *gin.Context) {
	var req service.FacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	faculty, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, faculty, nil)
}

// Delete godoc
// @Summary Delete faculty member
// @Tags Faculty
// @Produce json
// @Param id path string true "Faculty ID"
// @Success 204
// @Router /faculty/{id} [delete]
func (h *FacultyHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
