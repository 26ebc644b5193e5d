package models

import "time"

// User is a showcase account linked to a GitHub identity.
type User struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username   string    `json:"username" gorm:"uniqueIndex;type:varchar(100)"`
	Name       string    `json:"name" gorm:"type:varchar(255)"`
	Email      string    `json:"email" gorm:"index;type:varchar(255)"`
	Image      string    `json:"image" gorm:"type:varchar(512)"`
	Bio        string    `json:"bio" gorm:"type:text"`
	GithubID   string    `json:"-" gorm:"uniqueIndex;type:varchar(64)"`
	TotalLikes int       `json:"total_likes" gorm:"not null;default:0"`
	Projects   []Project `json:"projects,omitempty" gorm:"foreignKey:UserID"`
	Badges     []Badge   `json:"badges,omitempty" gorm:"many2many:user_badges"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UserSummary is the public slice of a user embedded in other payloads.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Image    string `json:"image"`
}

// Summary returns the public fields of u.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Name: u.Name, Image: u.Image}
}
