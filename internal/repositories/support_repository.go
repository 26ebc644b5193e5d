package repositories

import (
	"context"

	"showcase/internal/models"
)

// SupportRepository is the reaction ledger: at most one row per (user, project).
type SupportRepository interface {
	Get(ctx context.Context, userID, projectID string) (*models.Support, error)
	Upsert(ctx context.Context, support *models.Support) error
	Delete(ctx context.Context, userID, projectID string) error
	CountByType(ctx context.Context, projectID string) (likes, dislikes int, err error)
}
