package services

import (
	"gorm.io/gorm"

	"emberlink/internal/models"
)

// Karma actions recorded in the ledger
const (
	ActionStoryUpvoted  = "story upvoted"
	ActionUpvoteRemoved = "upvote removed"
)

// addKarma writes a ledger row and moves the balance inside the caller's
// transaction. The balance update is a relative increment so concurrent
// votes for the same submitter never lose a point.
func addKarma(tx *gorm.DB, userID string, amount int, action, storyID string) error {
	entry := models.KarmaLog{
		UserID:  userID,
		Amount:  amount,
		Action:  action,
		StoryID: storyID,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}
	return tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("karma", gorm.Expr("karma + ?", amount)).Error
}
