package models

import "time"

// Badge is an achievement definition.
type Badge struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string `json:"name" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Description string `json:"description" gorm:"type:varchar(500)" validate:"omitempty,max=500"`
	Icon        string `json:"icon" gorm:"type:varchar(255)"`
}

// UserBadge is the join row granting a badge to a user. Rows are never deleted.
type UserBadge struct {
	UserID    string    `gorm:"primaryKey;type:varchar(36)"`
	BadgeID   string    `gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time
}
