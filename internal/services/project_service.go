package services

import (
	"context"
	"fmt"
	"time"

	"showcase/internal/apperrors"
	"showcase/internal/models"
	"showcase/internal/repositories"
	"showcase/pkg/github"

	"go.uber.org/zap"
)

// CreateProjectInput is what a user submits to showcase a repository.
type CreateProjectInput struct {
	Title               string               `json:"title" validate:"required,min=1,max=255"`
	Description         string               `json:"description" validate:"omitempty,max=2000"`
	GithubURL           string               `json:"github_url" validate:"required,url"`
	TechnicalDetails    string               `json:"technical_details" validate:"omitempty,max=10000"`
	LiveURL             string               `json:"live_url" validate:"omitempty,url"`
	Image               string               `json:"image" validate:"omitempty,url"`
	MostPopularLanguage string               `json:"most_popular_language" validate:"omitempty,max=100"`
	Technologies        []string             `json:"technologies" validate:"omitempty,max=30,dive,max=50"`
	Stars               int                  `json:"stars" validate:"gte=0"`
	Contributors        []models.Contributor `json:"contributors" validate:"omitempty,dive"`
}

// UpdateProjectInput holds the owner-editable fields of a project.
type UpdateProjectInput struct {
	Description      string   `json:"description" validate:"omitempty,max=2000"`
	TechnicalDetails string   `json:"technical_details" validate:"omitempty,max=10000"`
	LiveURL          string   `json:"live_url" validate:"omitempty,url"`
	Technologies     []string `json:"technologies" validate:"omitempty,max=30,dive,max=50"`
}

// ProjectView is a project as seen by one (possibly anonymous) viewer.
type ProjectView struct {
	*models.Project
	UserReaction *models.ReactionType `json:"user_reaction"`
}

// ProjectService handles business logic related to projects.
type ProjectService struct {
	projects   repositories.ProjectRepository
	users      repositories.UserRepository
	reactions  *ReactionService
	aggregates *AggregateService
	badges     *BadgeService
	log        *zap.Logger
}

// NewProjectService creates a new ProjectService.
func NewProjectService(
	projects repositories.ProjectRepository,
	users repositories.UserRepository,
	reactions *ReactionService,
	aggregates *AggregateService,
	badges *BadgeService,
	log *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projects:   projects,
		users:      users,
		reactions:  reactions,
		aggregates: aggregates,
		badges:     badges,
		log:        log,
	}
}

// List retrieves the catalog.
func (s *ProjectService) List(ctx context.Context, filter repositories.ProjectFilter) ([]models.Project, error) {
	return s.projects.List(ctx, filter)
}

// Get retrieves a project. When viewerID is set the viewer's reaction is included.
func (s *ProjectService) Get(ctx context.Context, id, viewerID string) (*ProjectView, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := &ProjectView{Project: project}
	if viewerID == "" {
		return view, nil
	}
	reaction, err := s.reactions.ReactionOf(ctx, viewerID, id)
	if err != nil {
		s.log.Warn("failed to load viewer reaction", zap.String("project_id", id), zap.Error(err))
		return view, nil
	}
	view.UserReaction = reaction
	return view, nil
}

// Create stores a new project for ownerID and evaluates the owner's badges.
// It returns the badges granted as a result.
func (s *ProjectService) Create(ctx context.Context, ownerID string, in CreateProjectInput) (*models.Project, []models.Badge, error) {
	if _, _, err := github.ParseRepoURL(in.GithubURL); err != nil {
		return nil, nil, fmt.Errorf("%v: %w", err, apperrors.ErrInvalidArgument)
	}
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, nil, err
	}

	language := in.MostPopularLanguage
	if language == "" {
		language = "Unknown"
	}
	project := &models.Project{
		UserID:              ownerID,
		Title:               in.Title,
		Description:         in.Description,
		GithubURL:           in.GithubURL,
		TechnicalDetails:    in.TechnicalDetails,
		LiveURL:             in.LiveURL,
		Image:               in.Image,
		MostPopularLanguage: language,
		Technologies:        models.NormalizeTechnologies(in.Technologies),
		Stars:               in.Stars,
		LastUpdated:         time.Now(),
		Contributors:        in.Contributors,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, nil, err
	}

	newBadges := []models.Badge{}
	if s.badges != nil {
		granted, err := s.badges.EvaluateBadges(ctx, ownerID)
		if err != nil {
			s.log.Warn("failed to evaluate badges", zap.String("user_id", ownerID), zap.Error(err))
		} else {
			newBadges = granted
		}
	}
	return project, newBadges, nil
}

// owned loads project id and checks that callerID owns it.
func (s *ProjectService) owned(ctx context.Context, id, callerID string) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.UserID != callerID {
		return nil, fmt.Errorf("project %s belongs to another user: %w", id, apperrors.ErrForbidden)
	}
	return project, nil
}

// Update edits the owner-editable fields of a project.
func (s *ProjectService) Update(ctx context.Context, id, callerID string, in UpdateProjectInput) (*models.Project, error) {
	project, err := s.owned(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	project.Description = in.Description
	project.TechnicalDetails = in.TechnicalDetails
	project.LiveURL = in.LiveURL
	project.Technologies = models.NormalizeTechnologies(in.Technologies)
	if err := s.projects.UpdateDetails(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes a project of callerID with everything attached to it and
// recomputes the owner's like total.
func (s *ProjectService) Delete(ctx context.Context, id, callerID string) error {
	if _, err := s.owned(ctx, id, callerID); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, id, callerID); err != nil {
		return err
	}
	if _, err := s.aggregates.RecomputeUserTotalLikes(ctx, callerID); err != nil {
		s.log.Error("failed to recompute total likes", zap.String("user_id", callerID), zap.Error(err))
	}
	return nil
}

// TogglePin flips the pin flag of a project and returns the new value. A
// user may pin at most models.MaxPinnedProjects projects.
func (s *ProjectService) TogglePin(ctx context.Context, id, callerID string) (bool, error) {
	project, err := s.owned(ctx, id, callerID)
	if err != nil {
		return false, err
	}
	if !project.IsPinned {
		pinned, err := s.projects.CountPinned(ctx, callerID)
		if err != nil {
			return false, err
		}
		if pinned >= models.MaxPinnedProjects {
			return false, fmt.Errorf("at most %d projects can be pinned: %w", models.MaxPinnedProjects, apperrors.ErrConflict)
		}
	}
	if err := s.projects.SetPinned(ctx, id, !project.IsPinned); err != nil {
		return false, err
	}
	return !project.IsPinned, nil
}

// RecordView counts one view of a project.
func (s *ProjectService) RecordView(ctx context.Context, id string) error {
	return s.projects.IncrementViews(ctx, id)
}
