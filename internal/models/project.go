package models

import (
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// MaxPinnedProjects caps how many projects a user may feature on their profile.
const MaxPinnedProjects = 4

// Project is a showcased repository owned by exactly one user.
type Project struct {
	ID                  string                      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID              string                      `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_owner_repo,priority:1"`
	User                *User                       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Title               string                      `json:"title" gorm:"type:varchar(255)"`
	Description         string                      `json:"description" gorm:"type:text"`
	GithubURL           string                      `json:"github_url" gorm:"type:varchar(512);not null;uniqueIndex:idx_owner_repo,priority:2"`
	TechnicalDetails    string                      `json:"technical_details" gorm:"type:text"`
	LiveURL             string                      `json:"live_url" gorm:"type:varchar(512)"`
	Image               string                      `json:"image" gorm:"type:varchar(512)"`
	MostPopularLanguage string                      `json:"most_popular_language" gorm:"type:varchar(100);index"`
	Technologies        datatypes.JSONSlice[string] `json:"technologies"`
	Stars               int                         `json:"stars" gorm:"not null;default:0;index"`
	Views               int                         `json:"views" gorm:"not null;default:0"`
	Likes               int                         `json:"likes" gorm:"not null;default:0"`
	Dislikes            int                         `json:"dislikes" gorm:"not null;default:0"`
	IsPinned            bool                        `json:"is_pinned" gorm:"not null;default:false"`
	LastUpdated         time.Time                   `json:"last_updated"`
	Contributors        []Contributor               `json:"contributors,omitempty" gorm:"foreignKey:ProjectID"`
	Badges              []Badge                     `json:"badges,omitempty" gorm:"many2many:project_badges"`
	CreatedAt           time.Time                   `json:"created_at"`
	UpdatedAt           time.Time                   `json:"updated_at"`
}

// Contributor is a person credited on a project's repository.
type Contributor struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProjectID string `json:"project_id" gorm:"type:varchar(36);index;not null"`
	Name      string `json:"name" gorm:"type:varchar(255)" validate:"required"`
	GithubURL string `json:"github_url" gorm:"type:varchar(512)" validate:"required,url"`
	Image     string `json:"image" gorm:"type:varchar(512)" validate:"required"`
}

// NormalizeTechnologies lowercases, trims and de-duplicates tags, sorted.
func NormalizeTechnologies(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
