package repositories

import (
	"context"

	"showcase/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByGithubID(ctx context.Context, githubID string) (*models.User, error)
	GetProfile(ctx context.Context, username string) (*models.User, error)
	UpdateIdentity(ctx context.Context, user *models.User) error
	UpdateUsername(ctx context.Context, id, username string) error
	UpdateBio(ctx context.Context, id, bio string) error
	UpdateTotalLikes(ctx context.Context, id string, total int) error
	Count(ctx context.Context) (int64, error)
	Search(ctx context.Context, query string, limit int) ([]models.User, error)
}
