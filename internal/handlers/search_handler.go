package handlers

import (
	"showcase/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SearchHandler handles free-text search requests.
type SearchHandler struct {
	service *services.SearchService
	log     *zap.Logger
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(service *services.SearchService, log *zap.Logger) *SearchHandler {
	return &SearchHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the search route with the Fiber app.
func (h *SearchHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/search", h.HandleSearch)
}

// HandleSearch matches projects and users against the q parameter.
func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	result, err := h.service.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, h.log, "Could not search", err)
	}
	return c.JSON(result)
}
