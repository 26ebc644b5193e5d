package handlers

import (
	"showcase/internal/middleware"
	"showcase/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// BadgeHandler handles HTTP requests for badges.
type BadgeHandler struct {
	service  *services.BadgeService
	validate *validator.Validate
	log      *zap.Logger
}

// NewBadgeHandler creates a new BadgeHandler.
func NewBadgeHandler(service *services.BadgeService, log *zap.Logger) *BadgeHandler {
	return &BadgeHandler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the badge routes with the Fiber app.
func (h *BadgeHandler) RegisterRoutes(router fiber.Router, auth middleware.Guards) {
	badgeRoutes := router.Group("/badges")
	badgeRoutes.Get("/", h.HandleListBadges)
	badgeRoutes.Post("/check", auth.Required, h.HandleCheckBadges)
}

// CheckBadgesRequest optionally names the account being checked.
type CheckBadgesRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}

// HandleListBadges lists every badge definition.
func (h *BadgeHandler) HandleListBadges(c *fiber.Ctx) error {
	badges, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, h.log, "Could not retrieve badges", err)
	}
	return c.JSON(badges)
}

// HandleCheckBadges evaluates the caller's badges and returns the new ones.
func (h *BadgeHandler) HandleCheckBadges(c *fiber.Ctx) error {
	var req CheckBadgesRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c, err)
		}
	}
	if ok, err := validateBody(c, h.validate, req); !ok {
		return err
	}

	newBadges, err := h.service.Check(c.UserContext(), middleware.UserID(c), req.Email)
	if err != nil {
		return respondError(c, h.log, "Could not check badges", err)
	}
	return c.JSON(fiber.Map{
		"new_badges": newBadges,
	})
}
