package models

import (
	"time"
)

// Story types accepted by the listing filter.
const (
	TypeStory = "story"
	TypeAsk   = "ask"
	TypeShow  = "show"
	TypeJobs  = "jobs"
)

// ValidType reports whether t is one of the known story types.
func ValidType(t string) bool {
	switch t {
	case TypeStory, TypeAsk, TypeShow, TypeJobs:
		return true
	}
	return false
}

type Story struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"`
	Title         string    `gorm:"not null" json:"title"`
	URL           *string   `json:"url"` // Optional, text posts have none
	Domain        *string   `json:"domain"`
	Type          string    `gorm:"size:10;not null;default:'story';index" json:"type"`
	Points        int       `gorm:"not null;default:0" json:"points"`
	CommentsCount int       `gorm:"not null;default:0" json:"comments_count"`
	SubmittedBy   *string   `gorm:"size:64;index" json:"submitted_by"` // NULL for seeded/external stories
	Username      string    `json:"username"`                          // display snapshot, fallback when there is no submitter
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
