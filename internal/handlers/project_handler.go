package handlers

import (
	"fmt"
	"strconv"

	"showcase/internal/apperrors"
	"showcase/internal/middleware"
	"showcase/internal/models"
	"showcase/internal/repositories"
	"showcase/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// ProjectHandler handles HTTP requests for projects.
type ProjectHandler struct {
	service  *services.ProjectService
	validate *validator.Validate
	log      *zap.Logger
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(service *services.ProjectService, log *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the project routes with the Fiber app.
func (h *ProjectHandler) RegisterRoutes(router fiber.Router, auth middleware.Guards) {
	projectRoutes := router.Group("/projects")
	projectRoutes.Get("/", h.HandleListProjects)
	projectRoutes.Post("/", auth.Required, h.HandleCreateProject)
	projectRoutes.Get("/:id", auth.Optional, h.HandleGetProject)
	projectRoutes.Put("/:id", auth.Required, h.HandleUpdateProject)
	projectRoutes.Delete("/:id", auth.Required, h.HandleDeleteProject)
	projectRoutes.Post("/:id/view", auth.Required, h.HandleRecordView)
	projectRoutes.Post("/:id/pin", auth.Required, h.HandleTogglePin)
}

// listFilter reads the catalog query parameters.
func listFilter(c *fiber.Ctx) (repositories.ProjectFilter, error) {
	filter := repositories.ProjectFilter{
		Sort:     c.Query("sort", repositories.SortStars),
		Language: c.Query("language"),
		Topic:    c.Query("topic"),
		Limit:    defaultListLimit,
	}
	switch filter.Sort {
	case repositories.SortStars, repositories.SortLastUpdated, repositories.SortLikes, repositories.SortViews:
	default:
		return filter, fmt.Errorf("unknown sort %q: %w", filter.Sort, apperrors.ErrInvalidArgument)
	}
	if raw := c.Query("minStars"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return filter, fmt.Errorf("minStars must be a non-negative integer: %w", apperrors.ErrInvalidArgument)
		}
		filter.MinStars = n
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxListLimit {
			return filter, fmt.Errorf("limit must be between 1 and %d: %w", maxListLimit, apperrors.ErrInvalidArgument)
		}
		filter.Limit = n
	}
	return filter, nil
}

// HandleListProjects retrieves the project catalog.
func (h *ProjectHandler) HandleListProjects(c *fiber.Ctx) error {
	filter, err := listFilter(c)
	if err != nil {
		return respondError(c, h.log, "Invalid query", err)
	}
	projects, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, h.log, "Could not retrieve projects", err)
	}
	return c.JSON(projects)
}

// HandleCreateProject creates a project owned by the caller.
func (h *ProjectHandler) HandleCreateProject(c *fiber.Ctx) error {
	var req services.CreateProjectInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validateBody(c, h.validate, req); !ok {
		return err
	}

	project, newBadges, err := h.service.Create(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return respondError(c, h.log, "Could not create project", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"project":    project,
		"new_badges": newBadges,
	})
}

// HandleGetProject retrieves a single project by its ID.
func (h *ProjectHandler) HandleGetProject(c *fiber.Ctx) error {
	view, err := h.service.Get(c.UserContext(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve project", err)
	}
	return c.JSON(view)
}

// HandleUpdateProject edits a project of the caller.
func (h *ProjectHandler) HandleUpdateProject(c *fiber.Ctx) error {
	var req services.UpdateProjectInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validateBody(c, h.validate, req); !ok {
		return err
	}

	project, err := h.service.Update(c.UserContext(), c.Params("id"), middleware.UserID(c), req)
	if err != nil {
		return respondError(c, h.log, "Could not update project", err)
	}
	return c.JSON(project)
}

// HandleDeleteProject deletes a project of the caller.
func (h *ProjectHandler) HandleDeleteProject(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id"), middleware.UserID(c)); err != nil {
		return respondError(c, h.log, "Could not delete project", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleRecordView counts a view of a project.
func (h *ProjectHandler) HandleRecordView(c *fiber.Ctx) error {
	if err := h.service.RecordView(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, "Could not record view", err)
	}
	return c.JSON(fiber.Map{
		"message": "View recorded",
	})
}

// HandleTogglePin pins or unpins a project of the caller.
func (h *ProjectHandler) HandleTogglePin(c *fiber.Ctx) error {
	pinned, err := h.service.TogglePin(c.UserContext(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.log, "Could not update pin", err)
	}
	return c.JSON(fiber.Map{
		"is_pinned": pinned,
		"max":       models.MaxPinnedProjects,
	})
}
