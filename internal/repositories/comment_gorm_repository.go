package repositories

import (
	"context"
	"fmt"

	"showcase/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCommentRepository is a GORM implementation of CommentRepository.
type GORMCommentRepository struct {
	db *gorm.DB
}

// NewGORMCommentRepository creates a new instance of GORMCommentRepository.
func NewGORMCommentRepository(db *gorm.DB) *GORMCommentRepository {
	return &GORMCommentRepository{
		db: db,
	}
}

// Create stores a comment and loads its author summary.
func (r *GORMCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Omit("User").Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return r.db.WithContext(ctx).Preload("User", ownerSummary).First(comment, "id = ?", comment.ID).Error
}

// ListByProject returns the comments of projectID, newest first.
func (r *GORMCommentRepository) ListByProject(ctx context.Context, projectID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("User", ownerSummary).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for project %s: %w", projectID, err)
	}
	return comments, nil
}

// GORMNotificationRepository is a GORM implementation of NotificationRepository.
type GORMNotificationRepository struct {
	db *gorm.DB
}

// NewGORMNotificationRepository creates a new instance of GORMNotificationRepository.
func NewGORMNotificationRepository(db *gorm.DB) *GORMNotificationRepository {
	return &GORMNotificationRepository{
		db: db,
	}
}

// Create stores a notification.
func (r *GORMNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListByUser returns the notifications addressed to userID, newest first.
func (r *GORMNotificationRepository) ListByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for user %s: %w", userID, err)
	}
	return notifications, nil
}

// MarkRead flags one notification of userID as read.
func (r *GORMNotificationRepository) MarkRead(ctx context.Context, id, userID string) (*models.Notification, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to mark notification read: %w", res.Error)
	}
	var notification models.Notification
	if err := r.db.WithContext(ctx).First(&notification, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, fmt.Errorf("failed to mark notification read: %w", translate(err, "notification with ID "+id))
	}
	return &notification, nil
}

// MarkAllRead flags every unread notification of userID as read.
func (r *GORMNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", res.Error)
	}
	return res.RowsAffected, nil
}
