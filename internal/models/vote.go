package models

import (
	"time"
)

// Vote is one row per (user, story) pair: created on upvote, deleted on
// unvote, never updated in place. The composite unique index is what
// enforces one-vote-per-user when two requests race past the existence
// check; the insert that loses surfaces as a duplicate-key error.
type Vote struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:idx_votes_user_story" json:"user_id"`
	StoryID   string    `gorm:"size:64;not null;uniqueIndex:idx_votes_user_story;index" json:"story_id"`
	CreatedAt time.Time `json:"created_at"`
}
