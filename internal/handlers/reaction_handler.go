package handlers

import (
	"encoding/json"
	"fmt"

	"showcase/internal/apperrors"
	"showcase/internal/middleware"
	"showcase/internal/models"
	"showcase/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ReactionHandler handles HTTP requests for project reactions.
type ReactionHandler struct {
	service *services.ReactionService
	log     *zap.Logger
}

// NewReactionHandler creates a new ReactionHandler.
func NewReactionHandler(service *services.ReactionService, log *zap.Logger) *ReactionHandler {
	return &ReactionHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the reaction routes with the Fiber app.
func (h *ReactionHandler) RegisterRoutes(router fiber.Router, auth middleware.Guards) {
	router.Post("/projects/:id/reaction", auth.Required, h.HandleSetReaction)
}

// ReactionRequest is the body of a reaction change. A null or missing type
// clears the caller's reaction.
type ReactionRequest struct {
	Type *string `json:"type"`
}

// HandleSetReaction applies the caller's reaction to a project.
func (h *ReactionHandler) HandleSetReaction(c *fiber.Ctx) error {
	var req ReactionRequest
	if body := c.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			return invalidBody(c, err)
		}
	}
	desired, err := models.ParseReactionType(req.Type)
	if err != nil {
		return respondError(c, h.log, "Invalid reaction", fmt.Errorf("%v: %w", err, apperrors.ErrInvalidArgument))
	}

	result, err := h.service.SetReaction(c.UserContext(), middleware.UserID(c), c.Params("id"), desired)
	if err != nil {
		return respondError(c, h.log, "Could not update reaction", err)
	}
	return c.JSON(result)
}
