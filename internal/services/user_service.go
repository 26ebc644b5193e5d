package services

import (
	"context"
	"fmt"
	"strings"

	"showcase/internal/apperrors"
	"showcase/internal/models"
	"showcase/internal/repositories"
)

// MaxBioLength bounds a user's bio.
const MaxBioLength = 500

// UserService serves user profiles.
type UserService struct {
	users repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(users repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

// Me returns the full profile of the signed-in user.
func (s *UserService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.users.GetProfile(ctx, user.Username)
}

// Profile returns the public profile of username.
func (s *UserService) Profile(ctx context.Context, username string) (*models.User, error) {
	return s.users.GetProfile(ctx, username)
}

// UpdateBio replaces the bio of userID.
func (s *UserService) UpdateBio(ctx context.Context, userID, bio string) (*models.User, error) {
	bio = strings.TrimSpace(bio)
	if len(bio) > MaxBioLength {
		return nil, fmt.Errorf("bio must be at most %d characters: %w", MaxBioLength, apperrors.ErrInvalidArgument)
	}
	if err := s.users.UpdateBio(ctx, userID, bio); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}
