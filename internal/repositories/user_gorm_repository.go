package repositories

import (
	"context"
	"fmt"
	"strings"

	"showcase/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Username = strings.ToLower(user.Username)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", translate(err, "user "+user.Username))
	}
	return nil
}

func (r *GORMUserRepository) first(ctx context.Context, what, query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, query, arg).Error; err != nil {
		return nil, fmt.Errorf("failed to get user: %w", translate(err, what))
	}
	return &user, nil
}

// GetByID retrieves a user by their ID.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, "user with ID "+id, "id = ?", id)
}

// GetByGithubID retrieves the user linked to a GitHub account.
func (r *GORMUserRepository) GetByGithubID(ctx context.Context, githubID string) (*models.User, error) {
	return r.first(ctx, "user with GitHub ID "+githubID, "github_id = ?", githubID)
}

// GetProfile retrieves a user with their projects and badges.
func (r *GORMUserRepository) GetProfile(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Projects", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_pinned DESC").Order("stars DESC")
		}).
		Preload("Badges").
		First(&user, "username = ?", strings.ToLower(username)).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", translate(err, "user "+username))
	}
	return &user, nil
}

// UpdateIdentity refreshes the provider-sourced profile fields of a user.
// The handle is left alone; see UpdateUsername.
func (r *GORMUserRepository) UpdateIdentity(ctx context.Context, user *models.User) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"name":  user.Name,
		"email": user.Email,
		"image": user.Image,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to update user: %w", translate(gorm.ErrRecordNotFound, "user with ID "+user.ID))
	}
	return nil
}

// UpdateUsername changes the handle of a user. A handle held by another
// account yields apperrors.ErrConflict.
func (r *GORMUserRepository) UpdateUsername(ctx context.Context, id, username string) error {
	username = strings.ToLower(username)
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("username", username)
	if res.Error != nil {
		return fmt.Errorf("failed to rename user: %w", translate(res.Error, "user "+username))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to rename user: %w", translate(gorm.ErrRecordNotFound, "user with ID "+id))
	}
	return nil
}

// UpdateBio sets the free-text bio of a user.
func (r *GORMUserRepository) UpdateBio(ctx context.Context, id, bio string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("bio", bio)
	if res.Error != nil {
		return fmt.Errorf("failed to update bio: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to update bio: %w", translate(gorm.ErrRecordNotFound, "user with ID "+id))
	}
	return nil
}

// UpdateTotalLikes persists a recomputed like total.
func (r *GORMUserRepository) UpdateTotalLikes(ctx context.Context, id string, total int) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("total_likes", total).Error
	if err != nil {
		return fmt.Errorf("failed to update total likes for user %s: %w", id, err)
	}
	return nil
}

// Count returns the number of accounts ever created.
func (r *GORMUserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// Search matches users by display name or handle.
func (r *GORMUserRepository) Search(ctx context.Context, query string, limit int) ([]models.User, error) {
	var users []models.User
	pattern := containsPattern(query)
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? ESCAPE '"+likeEscape+"' OR LOWER(username) LIKE ? ESCAPE '"+likeEscape+"'", pattern, pattern).
		Order("username ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}
