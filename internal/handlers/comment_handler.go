package handlers

import (
	"showcase/internal/middleware"
	"showcase/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CommentHandler handles HTTP requests for project comments.
type CommentHandler struct {
	service  *services.CommentService
	validate *validator.Validate
	log      *zap.Logger
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(service *services.CommentService, log *zap.Logger) *CommentHandler {
	return &CommentHandler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the comment routes with the Fiber app.
func (h *CommentHandler) RegisterRoutes(router fiber.Router, auth middleware.Guards) {
	router.Get("/projects/:id/comments", h.HandleListComments)
	router.Post("/projects/:id/comments", auth.Required, h.HandleAddComment)
}

// CommentRequest is the body of a new comment.
type CommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// HandleListComments lists the comments of a project, newest first.
func (h *CommentHandler) HandleListComments(c *fiber.Ctx) error {
	comments, err := h.service.List(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve comments", err)
	}
	return c.JSON(comments)
}

// HandleAddComment adds a comment by the caller.
func (h *CommentHandler) HandleAddComment(c *fiber.Ctx) error {
	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validateBody(c, h.validate, req); !ok {
		return err
	}

	comment, err := h.service.Add(c.UserContext(), middleware.UserID(c), c.Params("id"), req.Content)
	if err != nil {
		return respondError(c, h.log, "Could not add comment", err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}
