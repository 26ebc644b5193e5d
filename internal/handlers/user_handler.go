package handlers

import (
	"showcase/internal/middleware"
	"showcase/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserHandler handles HTTP requests for user profiles.
type UserHandler struct {
	service  *services.UserService
	validate *validator.Validate
	log      *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth middleware.Guards) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/me", auth.Required, h.HandleMe)
	userRoutes.Put("/me/bio", auth.Required, h.HandleUpdateBio)
	userRoutes.Get("/:username", h.HandleProfile)
}

// BioRequest is the body of a bio update.
type BioRequest struct {
	Bio string `json:"bio" validate:"max=500"`
}

// HandleMe returns the caller's profile.
func (h *UserHandler) HandleMe(c *fiber.Ctx) error {
	user, err := h.service.Me(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve profile", err)
	}
	return c.JSON(user)
}

// HandleUpdateBio replaces the caller's bio.
func (h *UserHandler) HandleUpdateBio(c *fiber.Ctx) error {
	var req BioRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validateBody(c, h.validate, req); !ok {
		return err
	}

	user, err := h.service.UpdateBio(c.UserContext(), middleware.UserID(c), req.Bio)
	if err != nil {
		return respondError(c, h.log, "Could not update bio", err)
	}
	return c.JSON(user)
}

// HandleProfile returns a public profile by username.
func (h *UserHandler) HandleProfile(c *fiber.Ctx) error {
	user, err := h.service.Profile(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve profile", err)
	}
	return c.JSON(user)
}
