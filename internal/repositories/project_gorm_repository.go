package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"showcase/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProjectRepository is a GORM implementation of ProjectRepository.
type GORMProjectRepository struct {
	db *gorm.DB
}

// NewGORMProjectRepository creates a new instance of GORMProjectRepository.
func NewGORMProjectRepository(db *gorm.DB) *GORMProjectRepository {
	return &GORMProjectRepository{
		db: db,
	}
}

func ownerSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "name", "image")
}

// List retrieves catalog projects matching filter.
func (r *GORMProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]models.Project, error) {
	q := r.db.WithContext(ctx).Model(&models.Project{}).Preload("User", ownerSummary)

	if filter.Language != "" && !strings.EqualFold(filter.Language, "all") {
		q = q.Where("LOWER(most_popular_language) = ?", strings.ToLower(filter.Language))
	}
	if filter.Topic != "" && !strings.EqualFold(filter.Topic, "all") {
		q = withTechnology(q, strings.ToLower(filter.Topic))
	}
	if filter.MinStars > 0 {
		q = q.Where("stars >= ?", filter.MinStars)
	}

	switch filter.Sort {
	case SortLastUpdated:
		q = q.Order("last_updated DESC")
	case SortLikes:
		q = q.Order("likes DESC")
	case SortViews:
		q = q.Order("views DESC")
	default:
		q = q.Order("stars DESC")
	}
	q = q.Order("id ASC")

	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var projects []models.Project
	if err := q.Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// withTechnology filters on membership of tag in the JSON technologies column.
func withTechnology(q *gorm.DB, tag string) *gorm.DB {
	encoded, _ := json.Marshal(tag)
	switch q.Dialector.Name() {
	case "postgres":
		return q.Where("technologies @> ?", "["+string(encoded)+"]")
	case "mysql":
		return q.Where("JSON_CONTAINS(technologies, ?)", string(encoded))
	default:
		return q.Where("technologies LIKE ? ESCAPE '"+likeEscape+"'", containsPattern(string(encoded)))
	}
}

// GetByID retrieves a single project with its owner and contributors.
func (r *GORMProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("User", ownerSummary).
		Preload("Contributors").
		First(&project, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", translate(err, "project with ID "+id))
	}
	return &project, nil
}

// Create creates a new project and its contributors.
func (r *GORMProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	for i := range project.Contributors {
		if project.Contributors[i].ID == "" {
			project.Contributors[i].ID = uuid.New().String()
		}
	}
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return fmt.Errorf("failed to create project: %w", translate(err, "project "+project.GithubURL))
	}
	return nil
}

// UpdateDetails saves the owner-editable fields of a project.
func (r *GORMProjectRepository) UpdateDetails(ctx context.Context, project *models.Project) error {
	res := r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", project.ID).
		Select("description", "technical_details", "live_url", "technologies").
		Updates(project)
	if res.Error != nil {
		return fmt.Errorf("failed to update project: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to update project: %w", translate(gorm.ErrRecordNotFound, "project with ID "+project.ID))
	}
	return nil
}

// Delete removes a project owned by ownerID together with every row that
// references it, in one transaction.
func (r *GORMProjectRepository) Delete(ctx context.Context, id, ownerID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dependent := range []interface{}{
			&models.Support{}, &models.Comment{}, &models.Contributor{}, &models.Notification{},
		} {
			if err := tx.Where("project_id = ?", id).Delete(dependent).Error; err != nil {
				return fmt.Errorf("failed to delete project dependents: %w", err)
			}
		}
		if err := tx.Exec("DELETE FROM project_badges WHERE project_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete project badges: %w", err)
		}
		res := tx.Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.Project{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete project: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("failed to delete project: %w", translate(gorm.ErrRecordNotFound, "project with ID "+id))
		}
		return nil
	})
}

// UpdateCounts persists recomputed reaction counts.
func (r *GORMProjectRepository) UpdateCounts(ctx context.Context, id string, likes, dislikes int) error {
	err := r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).
		Updates(map[string]interface{}{"likes": likes, "dislikes": dislikes}).Error
	if err != nil {
		return fmt.Errorf("failed to update counts for project %s: %w", id, err)
	}
	return nil
}

// SumLikesByOwner adds up the cached like counts of every project of ownerID.
func (r *GORMProjectRepository) SumLikesByOwner(ctx context.Context, ownerID string) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("user_id = ?", ownerID).
		Select("COALESCE(SUM(likes), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum likes for user %s: %w", ownerID, err)
	}
	return int(total), nil
}

// CountByOwner returns how many projects ownerID has.
func (r *GORMProjectRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Project{}).Where("user_id = ?", ownerID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count projects for user %s: %w", ownerID, err)
	}
	return n, nil
}

// CountPinned returns how many projects ownerID has pinned.
func (r *GORMProjectRepository) CountPinned(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("user_id = ? AND is_pinned = ?", ownerID, true).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count pinned projects for user %s: %w", ownerID, err)
	}
	return n, nil
}

// SetPinned sets the pin flag of a project.
func (r *GORMProjectRepository) SetPinned(ctx context.Context, id string, pinned bool) error {
	err := r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).Update("is_pinned", pinned).Error
	if err != nil {
		return fmt.Errorf("failed to update pin for project %s: %w", id, err)
	}
	return nil
}

// IncrementViews bumps the view counter of a project by one.
func (r *GORMProjectRepository) IncrementViews(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("failed to increment views for project %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to increment views: %w", translate(gorm.ErrRecordNotFound, "project with ID "+id))
	}
	return nil
}

// Search matches projects by title or description.
func (r *GORMProjectRepository) Search(ctx context.Context, query string, limit int) ([]models.Project, error) {
	var projects []models.Project
	pattern := containsPattern(query)
	err := r.db.WithContext(ctx).
		Preload("User", ownerSummary).
		Where("LOWER(title) LIKE ? ESCAPE '"+likeEscape+"' OR LOWER(description) LIKE ? ESCAPE '"+likeEscape+"'", pattern, pattern).
		Order("stars DESC").
		Limit(limit).
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search projects: %w", err)
	}
	return projects, nil
}
