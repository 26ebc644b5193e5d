package services

import (
	"context"

	"showcase/internal/repositories"
)

// AggregateService rebuilds the cached reaction counts from the ledger.
// Counts are always recomputed in full, never incremented.
type AggregateService struct {
	supports repositories.SupportRepository
	projects repositories.ProjectRepository
	users    repositories.UserRepository
}

// NewAggregateService creates a new AggregateService.
func NewAggregateService(
	supports repositories.SupportRepository,
	projects repositories.ProjectRepository,
	users repositories.UserRepository,
) *AggregateService {
	return &AggregateService{
		supports: supports,
		projects: projects,
		users:    users,
	}
}

// RecomputeProjectCounts counts the ledger rows of projectID by type and
// stores both totals on the project.
func (s *AggregateService) RecomputeProjectCounts(ctx context.Context, projectID string) (int, int, error) {
	likes, dislikes, err := s.supports.CountByType(ctx, projectID)
	if err != nil {
		return 0, 0, err
	}
	if err := s.projects.UpdateCounts(ctx, projectID, likes, dislikes); err != nil {
		return 0, 0, err
	}
	return likes, dislikes, nil
}

// RecomputeUserTotalLikes sums the likes of every project owned by userID and
// stores the total on the user.
func (s *AggregateService) RecomputeUserTotalLikes(ctx context.Context, userID string) (int, error) {
	total, err := s.projects.SumLikesByOwner(ctx, userID)
	if err != nil {
		return 0, err
	}
	if err := s.users.UpdateTotalLikes(ctx, userID, total); err != nil {
		return 0, err
	}
	return total, nil
}
