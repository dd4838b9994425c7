package models

import (
	"time"
)

// KarmaLog is the audit trail for every karma mutation. Rows are written in
// the same transaction as the balance update.
type KarmaLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:64;not null;index" json:"user_id"`
	Amount    int       `gorm:"not null" json:"amount"` // positive or negative delta
	Action    string    `gorm:"size:40;not null" json:"action"`
	StoryID   string    `gorm:"size:64" json:"story_id"`
	CreatedAt time.Time `json:"created_at"`
}
