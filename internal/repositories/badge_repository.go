package repositories

import (
	"context"

	"showcase/internal/models"
)

// BadgeRepository defines the interface for badge definitions and grants.
type BadgeRepository interface {
	List(ctx context.Context) ([]models.Badge, error)
	Upsert(ctx context.Context, badge *models.Badge) error
	ListByUser(ctx context.Context, userID string) ([]models.Badge, error)
	// Grant links a badge to a user and reports whether the link is new.
	Grant(ctx context.Context, userID, badgeID string) (bool, error)
}
