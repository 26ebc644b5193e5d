package services

import (
	"context"
	"fmt"

	"showcase/internal/models"
	"showcase/internal/repositories"

	"go.uber.org/zap"
)

// NotificationService turns project events into notifications and serves them to their recipients.
type NotificationService struct {
	repo repositories.NotificationRepository
	log  *zap.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo repositories.NotificationRepository, log *zap.Logger) *NotificationService {
	return &NotificationService{
		repo: repo,
		log:  log,
	}
}

// HandleProjectEvent stores a notification for the owner named in event.
// Events caused by the owner themselves are ignored.
func (s *NotificationService) HandleProjectEvent(ctx context.Context, event ProjectEvent) error {
	if event.ActorID == event.OwnerID {
		return nil
	}

	var content string
	switch event.Type {
	case models.NotificationLike:
		content = fmt.Sprintf("%s liked your project %q", event.ActorName, event.ProjectTitle)
	case models.NotificationComment:
		content = fmt.Sprintf("%s commented on your project %q", event.ActorName, event.ProjectTitle)
	default:
		return fmt.Errorf("unknown project event type %q", event.Type)
	}

	notification := &models.Notification{
		UserID:    event.OwnerID,
		ProjectID: event.ProjectID,
		ActorID:   event.ActorID,
		Type:      event.Type,
		Content:   content,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}
	s.log.Debug("notification stored",
		zap.String("type", event.Type),
		zap.String("user_id", event.OwnerID),
		zap.String("project_id", event.ProjectID))
	return nil
}

// List returns the notifications of userID, newest first.
func (s *NotificationService) List(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

// MarkRead flags one notification of userID as read.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) (*models.Notification, error) {
	return s.repo.MarkRead(ctx, id, userID)
}

// MarkAllRead flags every notification of userID as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}
