package services

import (
	"context"
	"fmt"
	"strings"

	"showcase/internal/apperrors"
	"showcase/internal/models"
	"showcase/internal/repositories"

	"go.uber.org/zap"
)

// MaxCommentLength bounds the content of a single comment.
const MaxCommentLength = 2000

// CommentService handles business logic related to comments.
type CommentService struct {
	comments repositories.CommentRepository
	projects repositories.ProjectRepository
	users    repositories.UserRepository
	events   EventPublisher
	log      *zap.Logger
}

// NewCommentService creates a new CommentService. events may be nil.
func NewCommentService(
	comments repositories.CommentRepository,
	projects repositories.ProjectRepository,
	users repositories.UserRepository,
	events EventPublisher,
	log *zap.Logger,
) *CommentService {
	return &CommentService{
		comments: comments,
		projects: projects,
		users:    users,
		events:   events,
		log:      log,
	}
}

// List returns the comments of projectID, newest first.
func (s *CommentService) List(ctx context.Context, projectID string) ([]models.Comment, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.comments.ListByProject(ctx, projectID)
}

// Add stores a comment by userID on projectID and notifies the project owner.
func (s *CommentService) Add(ctx context.Context, userID, projectID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" || len(content) > MaxCommentLength {
		return nil, fmt.Errorf("comment must be between 1 and %d characters: %w", MaxCommentLength, apperrors.ErrInvalidArgument)
	}
	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{ProjectID: projectID, UserID: userID, Content: content}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	if s.events != nil && author.ID != project.UserID {
		event := ProjectEvent{
			Type:         models.NotificationComment,
			ProjectID:    project.ID,
			ProjectTitle: project.Title,
			OwnerID:      project.UserID,
			ActorID:      author.ID,
			ActorName:    displayName(author),
		}
		if err := s.events.PublishProjectEvent(ctx, event); err != nil {
			s.log.Warn("failed to publish comment event", zap.String("project_id", project.ID), zap.Error(err))
		}
	}
	return comment, nil
}
