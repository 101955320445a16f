package handler

import (
	"net/http"

	"github.com/JakubPluta/emp-worklog/internal/db"
	"github.com/JakubPluta/emp-worklog/internal/model"
	"github.com/JakubPluta/emp-worklog/internal/service"
	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	svc *service.ProjectService
}

func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// List godoc
// @Summary List projects
// @Description Superusers see every project, others only active ones.
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit" default(10)
// @Success 200 {object} model.Page[model.ProjectResponse]
// @Failure 422 {object} model.ErrorResponse
// @Router /projects/ [get]
func (h *ProjectHandler) List(c *gin.Context) {
	q, ok := bindPage(c)
	if !ok {
		return
	}

	activeOnly := !GetAuthUser(c).IsSuperuser
	projects, total, err := h.svc.List(c.Request.Context(), activeOnly, q.Offset, q.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPage(projects, total, q, model.NewProjectResponse))
}

// Get godoc
// @Summary Get a project
// @Description Inactive projects are visible to superusers only.
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} model.ProjectResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /projects/{id} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !project.IsActive && !GetAuthUser(c).IsSuperuser {
		writeError(c, db.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, model.NewProjectResponse(project))
}

// Create godoc
// @Summary Create a project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.ProjectCreateRequest true "New project"
// @Success 201 {object} model.ProjectResponse
// @Failure 409 {object} model.ErrorResponse
// @Failure 422 {object} model.ErrorResponse
// @Router /projects/ [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var req model.ProjectCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	project, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.NewProjectResponse(project))
}

// Update godoc
// @Summary Update a project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param request body model.ProjectUpdateRequest true "Fields to change"
// @Success 200 {object} model.ProjectResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /projects/{id} [patch]
func (h *ProjectHandler) Update(c *gin.Context) {
	var req model.ProjectUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	project, err := h.svc.Get(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	project, err = h.svc.Update(ctx, project, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewProjectResponse(project))
}

// Delete godoc
// @Summary Delete a project
// @Tags projects
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 204
// @Failure 404 {object} model.ErrorResponse
// @Router /projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	project, err := h.svc.Get(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if _, err := h.svc.Delete(ctx, project); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
