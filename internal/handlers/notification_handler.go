package handlers

import (
	"showcase/internal/middleware"
	"showcase/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// NotificationHandler handles HTTP requests for the caller's notifications.
type NotificationHandler struct {
	service *services.NotificationService
	log     *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service *services.NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the notification routes with the Fiber app.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router, auth middleware.Guards) {
	notificationRoutes := router.Group("/notifications", auth.Required)
	notificationRoutes.Get("/", h.HandleListNotifications)
	notificationRoutes.Post("/read-all", h.HandleMarkAllRead)
	notificationRoutes.Post("/:id/read", h.HandleMarkRead)
}

// HandleListNotifications lists the caller's notifications, newest first.
func (h *NotificationHandler) HandleListNotifications(c *fiber.Ctx) error {
	notifications, err := h.service.List(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve notifications", err)
	}
	return c.JSON(notifications)
}

// HandleMarkRead marks one notification as read.
func (h *NotificationHandler) HandleMarkRead(c *fiber.Ctx) error {
	notification, err := h.service.MarkRead(c.UserContext(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.log, "Could not update notification", err)
	}
	return c.JSON(notification)
}

// HandleMarkAllRead marks every notification of the caller as read.
func (h *NotificationHandler) HandleMarkAllRead(c *fiber.Ctx) error {
	n, err := h.service.MarkAllRead(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.log, "Could not update notifications", err)
	}
	return c.JSON(fiber.Map{
		"updated": n,
	})
}
