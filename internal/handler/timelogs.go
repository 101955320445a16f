package handler

import (
	"net/http"

	"github.com/JakubPluta/emp-worklog/internal/model"
	"github.com/JakubPluta/emp-worklog/internal/service"
	"github.com/gin-gonic/gin"
)

type TimelogHandler struct {
	svc *service.TimelogService
}

func NewTimelogHandler(svc *service.TimelogService) *TimelogHandler {
	return &TimelogHandler{svc: svc}
}

// List godoc
// @Summary List time logs
// @Description Non-superusers only see their own entries.
// @Tags timelogs
// @Produce json
// @Security BearerAuth
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit" default(10)
// @Param employee_id query string false "Employee ID (superusers only)"
// @Param project_id query string false "Project ID"
// @Success 200 {object} model.Page[model.TimelogResponse]
// @Failure 422 {object} model.ErrorResponse
// @Router /timelogs/ [get]
func (h *TimelogHandler) List(c *gin.Context) {
	q, ok := bindPage(c)
	if !ok {
		return
	}

	entries, total, err := h.svc.List(c.Request.Context(), GetAuthUser(c), service.TimelogQuery{
		EmployeeID: c.Query("employee_id"),
		ProjectID:  c.Query("project_id"),
	}, q.Offset, q.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPage(entries, total, q, model.NewTimelogResponse))
}

// Get godoc
// @Summary Get a time log
// @Tags timelogs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Timelog ID"
// @Success 200 {object} model.TimelogResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /timelogs/{id} [get]
func (h *TimelogHandler) Get(c *gin.Context) {
	entry, err := h.svc.Get(c.Request.Context(), GetAuthUser(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewTimelogResponse(entry))
}

// Create godoc
// @Summary Log time
// @Tags timelogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.TimelogCreateRequest true "New entry"
// @Success 201 {object} model.TimelogResponse
// @Failure 422 {object} model.ErrorResponse
// @Router /timelogs/ [post]
func (h *TimelogHandler) Create(c *gin.Context) {
	var req model.TimelogCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	entry, err := h.svc.Create(c.Request.Context(), GetAuthUser(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.NewTimelogResponse(entry))
}

// Update godoc
// @Summary Update a time log
// @Tags timelogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Timelog ID"
// @Param request body model.TimelogUpdateRequest true "Fields to change"
// @Success 200 {object} model.TimelogResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Failure 422 {object} model.ErrorResponse
// @Router /timelogs/{id} [patch]
func (h *TimelogHandler) Update(c *gin.Context) {
	var req model.TimelogUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	entry, err := h.svc.Update(c.Request.Context(), GetAuthUser(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewTimelogResponse(entry))
}

// Delete godoc
// @Summary Delete a time log
// @Tags timelogs
// @Security BearerAuth
// @Param id path string true "Timelog ID"
// @Success 204
// @Failure 404 {object} model.ErrorResponse
// @Router /timelogs/{id} [delete]
func (h *TimelogHandler) Delete(c *gin.Context) {
	if _, err := h.svc.Delete(c.Request.Context(), GetAuthUser(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
