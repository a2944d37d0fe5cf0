package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/buildtrack/procurement-api/internal/api/middleware"
	"github.com/buildtrack/procurement-api/internal/core/ports"
)

type ProjectHandler struct {
	projectService ports.ProjectService
}

func NewProjectHandler(projectService ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// Create registers a project owned by the caller.
//
// @Summary      Create project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProjectRequest  true  "Project"
// @Success      201   {object}  successResponse{data=projectData}
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req createProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	project, err := h.projectService.Create(c.Request().Context(), ports.CreateProjectInput{
		Code:      req.Code,
		Name:      req.Name,
		ManagerID: req.ManagerID,
		CreatedBy: p.ID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ok("Project created", projectData{Project: project}))
}

// Get returns a project the caller created or manages.
//
// @Summary      Get project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string  true  "Project ID"
// @Success      200        {object}  successResponse{data=projectData}
// @Failure      403        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /projects/{projectId} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	project, err := h.projectService.Get(c.Request().Context(), c.Param(middleware.ProjectIDParam))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("", projectData{Project: project}))
}
