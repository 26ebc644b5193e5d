package models

import (
	"fmt"
	"time"
)

// ReactionType is the kind of vote a user casts on a project.
type ReactionType string

const (
	ReactionLike    ReactionType = "like"
	ReactionDislike ReactionType = "dislike"
)

// ParseReactionType maps a request value onto a reaction. A nil input means
// "clear"; anything other than like or dislike is rejected.
func ParseReactionType(raw *string) (*ReactionType, error) {
	if raw == nil {
		return nil, nil
	}
	switch t := ReactionType(*raw); t {
	case ReactionLike, ReactionDislike:
		return &t, nil
	default:
		return nil, fmt.Errorf("unknown reaction type %q", *raw)
	}
}

// Support is a single user's reaction on a single project. The composite
// primary key keeps at most one row per (user, project).
type Support struct {
	UserID    string       `json:"user_id" gorm:"primaryKey;type:varchar(36)"`
	ProjectID string       `json:"project_id" gorm:"primaryKey;type:varchar(36);index"`
	Type      ReactionType `json:"type" gorm:"type:varchar(16);not null"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
