package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/smart-classroom/scs-api/internal/models"
	"github.com/smart-classroom/scs-api/internal/service"
	appErrors "github.com/smart-classroom/scs-api/pkg/errors"
	"github.com/smart-classroom/scs-api/pkg/response"
)

// ClassroomHandler handles classroom catalog endpoints.
type ClassroomHandler struct {
	service *service.ClassroomService
}

// NewClassroomHandler constructs a classroom handler.
func NewClassroomHandler(svc *service.ClassroomService) *ClassroomHandler {
	return &ClassroomHandler{service: svc}
}

// List godoc
// @Summary List classrooms
// @Tags Classrooms
// @Produce json
// @Param department query string false "Filter by department"
// @Param type query string false "Filter by room type"
// @Param minCapacity query int false "Minimum capacity"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /classrooms [get]
func (h *ClassroomHandler) List(c *gin.Context) {
	var filter models.ClassroomFilter
	filter.Department = c.Query("department")
	filter.Type = c.Query("type")
	if capacity, err := strconv.Atoi(c.DefaultQuery("minCapacity", "0")); err == nil {
		filter.MinCapacity = capacity
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	classrooms, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classrooms, pagination)
}

// Get godoc
// @Summary Get classroom by id
// @Tags Classrooms
// @Produce json
// @Param id path string true "Classroom ID"
// @Success 200 {object} response.Envelope
// @Router /classrooms/{id} [get]
func (h *ClassroomHandler) Get(c *gin.Context) {
	classroom, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classroom, nil)
}

// Create godoc
// @Summary Create classroom
// @Tags Classrooms
// @Accept json
// @Produce json
// @Param payload body service.ClassroomRequest true "Classroom payload"
// @Success 201 {object} response.Envelope
// @Router /classrooms [post]
func (h *ClassroomHandler) Create(c *gin.Context) {
	var req service.ClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	classroom, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, classroom)
}

// Update godoc
// @Summary Update classroom
// @Tags Classrooms
// @Accept json
// @Produce json
// @Param id path string true "Classroom ID"
// @Param payload body service.ClassroomRequest true "Classroom payload"
// @Success 200 {object} response.Envelope
// @Router /classrooms/{id} [put]
func (h *ClassroomHandler) Update(c *gin.Context) {
	var req service.ClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	classroom, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classroom, nil)
}

// Delete godoc
// @Summary Delete classroom
// @Tags Classrooms
// @Produce json
// @Param id path string true "Classroom ID"
// @Success 204
// @Router /classrooms/{id} [delete]
func (h *ClassroomHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
