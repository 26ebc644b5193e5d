package services

import (
	"context"
	"errors"

	"showcase/internal/apperrors"
	"showcase/internal/models"
	"showcase/internal/repositories"

	"go.uber.org/zap"
)

// ReactionResult is the authoritative state after a reaction change.
type ReactionResult struct {
	Likes        int                  `json:"likes"`
	Dislikes     int                  `json:"dislikes"`
	UserReaction *models.ReactionType `json:"user_reaction"`
}

// ReactionService owns the reaction ledger and the work that follows each of
// its mutations: count recomputation, owner badge evaluation and the like event.
type ReactionService struct {
	supports   repositories.SupportRepository
	projects   repositories.ProjectRepository
	users      repositories.UserRepository
	aggregates *AggregateService
	badges     *BadgeService
	events     EventPublisher
	log        *zap.Logger
}

// NewReactionService creates a new ReactionService. events may be nil.
func NewReactionService(
	supports repositories.SupportRepository,
	projects repositories.ProjectRepository,
	users repositories.UserRepository,
	aggregates *AggregateService,
	badges *BadgeService,
	events EventPublisher,
	log *zap.Logger,
) *ReactionService {
	return &ReactionService{
		supports:   supports,
		projects:   projects,
		users:      users,
		aggregates: aggregates,
		badges:     badges,
		events:     events,
		log:        log,
	}
}

// nextReaction is the ledger state machine. Submitting the current type or
// nil clears the reaction; any other type replaces it.
func nextReaction(current, desired *models.ReactionType) *models.ReactionType {
	if desired == nil {
		return nil
	}
	if current != nil && *current == *desired {
		return nil
	}
	return desired
}

// ReactionOf returns the reaction of userID on projectID, or nil.
func (s *ReactionService) ReactionOf(ctx context.Context, userID, projectID string) (*models.ReactionType, error) {
	support, err := s.supports.Get(ctx, userID, projectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	t := support.Type
	return &t, nil
}

// SetReaction applies desired to the (userID, projectID) ledger entry and
// returns the recomputed counts. Only a failed ledger write fails the call;
// the follow-up steps are logged and skipped on error.
func (s *ReactionService) SetReaction(ctx context.Context, userID, projectID string, desired *models.ReactionType) (*ReactionResult, error) {
	actor, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	current, err := s.ReactionOf(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	next := nextReaction(current, desired)

	switch {
	case next == nil && current != nil:
		if err := s.supports.Delete(ctx, userID, projectID); err != nil {
			return nil, err
		}
	case next != nil:
		if err := s.supports.Upsert(ctx, &models.Support{UserID: userID, ProjectID: projectID, Type: *next}); err != nil {
			return nil, err
		}
	}

	result := &ReactionResult{
		Likes:        project.Likes,
		Dislikes:     project.Dislikes,
		UserReaction: next,
	}

	likes, dislikes, err := s.aggregates.RecomputeProjectCounts(ctx, projectID)
	if err != nil {
		s.log.Error("failed to recompute project counts", zap.String("project_id", projectID), zap.Error(err))
	} else {
		result.Likes, result.Dislikes = likes, dislikes
		s.refreshOwner(ctx, project.UserID)
	}

	freshLike := next != nil && *next == models.ReactionLike && (current == nil || *current != models.ReactionLike)
	if freshLike && actor.ID != project.UserID {
		s.publishLike(ctx, actor, project)
	}

	return result, nil
}

// refreshOwner recomputes the owner's like total and evaluates their badges.
func (s *ReactionService) refreshOwner(ctx context.Context, ownerID string) {
	if _, err := s.aggregates.RecomputeUserTotalLikes(ctx, ownerID); err != nil {
		s.log.Error("failed to recompute total likes", zap.String("user_id", ownerID), zap.Error(err))
		return
	}
	if s.badges == nil {
		return
	}
	if _, err := s.badges.EvaluateBadges(ctx, ownerID); err != nil {
		s.log.Warn("failed to evaluate badges", zap.String("user_id", ownerID), zap.Error(err))
	}
}

func (s *ReactionService) publishLike(ctx context.Context, actor *models.User, project *models.Project) {
	if s.events == nil {
		return
	}
	event := ProjectEvent{
		Type:         models.NotificationLike,
		ProjectID:    project.ID,
		ProjectTitle: project.Title,
		OwnerID:      project.UserID,
		ActorID:      actor.ID,
		ActorName:    displayName(actor),
	}
	if err := s.events.PublishProjectEvent(ctx, event); err != nil {
		s.log.Warn("failed to publish like event", zap.String("project_id", project.ID), zap.Error(err))
	}
}

func displayName(u *models.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}
