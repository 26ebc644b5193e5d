package repositories

import (
	"context"
	"fmt"

	"showcase/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMSupportRepository is a GORM implementation of SupportRepository.
type GORMSupportRepository struct {
	db *gorm.DB
}

// NewGORMSupportRepository creates a new instance of GORMSupportRepository.
func NewGORMSupportRepository(db *gorm.DB) *GORMSupportRepository {
	return &GORMSupportRepository{
		db: db,
	}
}

// Get retrieves the reaction of userID on projectID.
func (r *GORMSupportRepository) Get(ctx context.Context, userID, projectID string) (*models.Support, error) {
	var support models.Support
	err := r.db.WithContext(ctx).First(&support, "user_id = ? AND project_id = ?", userID, projectID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get reaction: %w", translate(err, "reaction"))
	}
	return &support, nil
}

// Upsert writes support, overwriting the type of an existing row for the
// same pair. Concurrent inserts for one pair converge on a single row.
func (r *GORMSupportRepository) Upsert(ctx context.Context, support *models.Support) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "project_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"type", "updated_at"}),
	}).Create(support).Error
	if err != nil {
		return fmt.Errorf("failed to save reaction: %w", err)
	}
	return nil
}

// Delete clears the reaction of userID on projectID. Deleting an absent row is not an error.
func (r *GORMSupportRepository) Delete(ctx context.Context, userID, projectID string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Delete(&models.Support{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete reaction: %w", err)
	}
	return nil
}

// CountByType counts the ledger rows of projectID per reaction type.
func (r *GORMSupportRepository) CountByType(ctx context.Context, projectID string) (int, int, error) {
	var rows []struct {
		Type  models.ReactionType
		Total int
	}
	err := r.db.WithContext(ctx).Model(&models.Support{}).
		Select("type, COUNT(*) AS total").
		Where("project_id = ?", projectID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count reactions for project %s: %w", projectID, err)
	}

	var likes, dislikes int
	for _, row := range rows {
		switch row.Type {
		case models.ReactionLike:
			likes = row.Total
		case models.ReactionDislike:
			dislikes = row.Total
		}
	}
	return likes, dislikes, nil
}
