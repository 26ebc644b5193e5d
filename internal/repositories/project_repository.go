package repositories

import (
	"context"

	"showcase/internal/models"
)

// Catalog sort orders.
const (
	SortStars       = "stars"
	SortLastUpdated = "lastUpdated"
	SortLikes       = "likes"
	SortViews       = "views"
)

// ProjectFilter narrows and orders a catalog listing. Zero values disable a filter.
type ProjectFilter struct {
	Sort     string
	Language string
	Topic    string
	MinStars int
	Limit    int
}

// ProjectRepository defines the interface for project data access.
type ProjectRepository interface {
	List(ctx context.Context, filter ProjectFilter) ([]models.Project, error)
	GetByID(ctx context.Context, id string) (*models.Project, error)
	Create(ctx context.Context, project *models.Project) error
	UpdateDetails(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id, ownerID string) error
	UpdateCounts(ctx context.Context, id string, likes, dislikes int) error
	SumLikesByOwner(ctx context.Context, ownerID string) (int, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	CountPinned(ctx context.Context, ownerID string) (int64, error)
	SetPinned(ctx context.Context, id string, pinned bool) error
	IncrementViews(ctx context.Context, id string) error
	Search(ctx context.Context, query string, limit int) ([]models.Project, error)
}
