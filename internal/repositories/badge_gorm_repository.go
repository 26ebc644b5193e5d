package repositories

import (
	"context"
	"fmt"
	"time"

	"showcase/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMBadgeRepository is a GORM implementation of BadgeRepository.
type GORMBadgeRepository struct {
	db *gorm.DB
}

// NewGORMBadgeRepository creates a new instance of GORMBadgeRepository.
func NewGORMBadgeRepository(db *gorm.DB) *GORMBadgeRepository {
	return &GORMBadgeRepository{
		db: db,
	}
}

// List returns every badge definition.
func (r *GORMBadgeRepository) List(ctx context.Context) ([]models.Badge, error) {
	var badges []models.Badge
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&badges).Error; err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	return badges, nil
}

// Upsert creates a badge or refreshes the description and icon of the badge
// with the same name. badge.ID is set to the stored row's ID.
func (r *GORMBadgeRepository) Upsert(ctx context.Context, badge *models.Badge) error {
	if badge.ID == "" {
		badge.ID = uuid.New().String()
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"description", "icon"}),
	}).Create(badge).Error
	if err != nil {
		return fmt.Errorf("failed to save badge %s: %w", badge.Name, err)
	}

	var stored models.Badge
	if err := r.db.WithContext(ctx).First(&stored, "name = ?", badge.Name).Error; err != nil {
		return fmt.Errorf("failed to reload badge %s: %w", badge.Name, err)
	}
	*badge = stored
	return nil
}

// ListByUser returns the badges held by userID.
func (r *GORMBadgeRepository) ListByUser(ctx context.Context, userID string) ([]models.Badge, error) {
	var badges []models.Badge
	err := r.db.WithContext(ctx).
		Joins("JOIN user_badges ON user_badges.badge_id = badges.id").
		Where("user_badges.user_id = ?", userID).
		Order("user_badges.created_at ASC").
		Find(&badges).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list badges for user %s: %w", userID, err)
	}
	return badges, nil
}

// Grant inserts the user_badges row unless it already exists.
func (r *GORMBadgeRepository) Grant(ctx context.Context, userID, badgeID string) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&models.UserBadge{
		UserID:    userID,
		BadgeID:   badgeID,
		CreatedAt: time.Now(),
	})
	if res.Error != nil {
		return false, fmt.Errorf("failed to grant badge %s to user %s: %w", badgeID, userID, res.Error)
	}
	return res.RowsAffected == 1, nil
}
