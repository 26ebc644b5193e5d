package services

import (
	"context"
	"fmt"
	"strings"

	"showcase/internal/apperrors"
	"showcase/internal/models"
	"showcase/internal/repositories"

	"golang.org/x/sync/errgroup"
)

// SearchLimit caps each result list of a search.
const SearchLimit = 10

// SearchResult holds the matches of a search query.
type SearchResult struct {
	Projects []models.Project     `json:"projects"`
	Users    []models.UserSummary `json:"users"`
}

// SearchService looks up projects and users by free text.
type SearchService struct {
	projects repositories.ProjectRepository
	users    repositories.UserRepository
}

// NewSearchService creates a new SearchService.
func NewSearchService(projects repositories.ProjectRepository, users repositories.UserRepository) *SearchService {
	return &SearchService{projects: projects, users: users}
}

// Search matches query case-insensitively against project titles and
// descriptions and against user names and usernames.
func (s *SearchService) Search(ctx context.Context, query string) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query is required: %w", apperrors.ErrInvalidArgument)
	}

	result := &SearchResult{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		result.Projects, err = s.projects.Search(gctx, query, SearchLimit)
		return err
	})
	g.Go(func() error {
		users, err := s.users.Search(gctx, query, SearchLimit)
		if err != nil {
			return err
		}
		result.Users = make([]models.UserSummary, 0, len(users))
		for i := range users {
			result.Users = append(result.Users, users[i].Summary())
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if result.Projects == nil {
		result.Projects = []models.Project{}
	}
	return result, nil
}
