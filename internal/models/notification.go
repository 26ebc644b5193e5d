package models

import "time"

// Notification types.
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
)

// Notification tells a project owner that someone interacted with their project.
type Notification struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);index;not null"`
	ProjectID string    `json:"project_id" gorm:"type:varchar(36);index"`
	ActorID   string    `json:"actor_id" gorm:"type:varchar(36)"`
	Type      string    `json:"type" gorm:"type:varchar(30)"`
	Content   string    `json:"content" gorm:"type:text"`
	Read      bool      `json:"read" gorm:"column:is_read;not null;default:false;index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}
