package services

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"emberlink/internal/db"
	"emberlink/internal/models"
	"emberlink/internal/utils"
)

// Vote error kinds, discriminated by code rather than Go type so the
// transport layer can map them straight onto the wire envelope.
const (
	CodeAuth           = "AUTH_ERROR"
	CodeValidation     = "VALIDATION_ERROR"
	CodeRateLimit      = "RATE_LIMIT_ERROR"
	CodeAlreadyUpvoted = "ALREADY_UPVOTED_ERROR"
	CodeSelfUpvote     = "SELF_UPVOTE_ERROR"
	CodeInternal       = "INTERNAL_ERROR"
)

// VoteError is the structured result for every expected vote/unvote
// failure. Internal detail never rides on Message: storage errors are
// logged server-side and replaced with a generic line.
type VoteError struct {
	Code        string              `json:"code"`
	Message     string              `json:"message"`
	FieldErrors map[string][]string `json:"fieldErrors,omitempty"`
}

func (e *VoteError) Error() string {
	return e.Code + ": " + e.Message
}

func internalError(op string, err error) *VoteError {
	log.Printf("vote ledger: %s: %v", op, err)
	return &VoteError{Code: CodeInternal, Message: "Something went wrong"}
}

// storyVoteRow is the outer-joined story + caller's-vote projection shared
// by Vote and Unvote: one round trip answers "does the story exist", "did I
// already vote" and "is this my own story".
type storyVoteRow struct {
	ID          string
	Username    string
	SubmittedBy *string
	VoteID      *string
}

func loadStoryWithVote(tx *gorm.DB, storyID, userID string) (*storyVoteRow, error) {
	var row storyVoteRow
	res := tx.Table("stories").
		Select("stories.id, stories.username, stories.submitted_by, votes.id AS vote_id").
		Joins("LEFT JOIN votes ON votes.story_id = stories.id AND votes.user_id = ?", userID).
		Where("stories.id = ?", storyID).
		Limit(1).
		Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

// checkVoteInput runs the preconditions shared by Vote and Unvote. The rate
// limit is consumed here, before any read or mutation.
func checkVoteInput(userID, storyID string) *VoteError {
	if userID == "" {
		return &VoteError{Code: CodeAuth, Message: "You must be logged in to vote."}
	}
	if storyID == "" {
		return &VoteError{
			Code:        CodeValidation,
			Message:     "Invalid input",
			FieldErrors: map[string][]string{"storyId": {"storyId is required"}},
		}
	}
	if !voteLimiter.Allow(userID) {
		return &VoteError{Code: CodeRateLimit, Message: "Too many votes. Try again later"}
	}
	return nil
}

// Vote records an upvote by userID on storyID: one vote row per (user,
// story), story points +1, submitter karma +1. All three writes happen in
// one transaction; the relative increments keep concurrent votes on the
// same story from clobbering each other.
func Vote(userID, storyID string) *VoteError {
	if verr := checkVoteInput(userID, storyID); verr != nil {
		return verr
	}

	row, err := loadStoryWithVote(db.DB, storyID, userID)
	if err != nil {
		// an unresolvable story on a vote form is an unexpected condition,
		// not a user-facing 404
		return internalError("load story", err)
	}
	if row.VoteID != nil {
		return &VoteError{Code: CodeAlreadyUpvoted, Message: "You already upvoted this story"}
	}
	if row.SubmittedBy != nil && *row.SubmittedBy == userID {
		return &VoteError{Code: CodeSelfUpvote, Message: "You can't upvote your own story"}
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		vote := models.Vote{ID: utils.NewVoteID(), UserID: userID, StoryID: storyID}
		if err := tx.Create(&vote).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Story{}).
			Where("id = ?", storyID).
			UpdateColumn("points", gorm.Expr("points + 1")).Error; err != nil {
			return err
		}
		if row.SubmittedBy != nil {
			// karma goes to the submitter id; the denormalized username is
			// display-only and may diverge after a rename
			if err := addKarma(tx, *row.SubmittedBy, 1, ActionStoryUpvoted, storyID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// the (user_id, story_id) unique index closes the window between
			// the existence check and the insert
			return &VoteError{Code: CodeAlreadyUpvoted, Message: "You already upvoted this story"}
		}
		return internalError("apply vote", err)
	}

	invalidateStoryCaches(storyID)
	return nil
}

// Unvote reverses a previous upvote, restoring the story's points and the
// submitter's karma. There is no dedicated "not voted" kind: a missing vote
// row is treated like the missing-story case.
func Unvote(userID, storyID string) *VoteError {
	if verr := checkVoteInput(userID, storyID); verr != nil {
		return verr
	}

	row, err := loadStoryWithVote(db.DB, storyID, userID)
	if err != nil {
		return internalError("load story", err)
	}
	if row.VoteID == nil {
		return internalError("no vote to remove", gorm.ErrRecordNotFound)
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND story_id = ?", userID, storyID).Delete(&models.Vote{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// raced with another unvote for the same pair
			return gorm.ErrRecordNotFound
		}
		if err := tx.Model(&models.Story{}).
			Where("id = ?", storyID).
			UpdateColumn("points", gorm.Expr("points - 1")).Error; err != nil {
			return err
		}
		if row.SubmittedBy != nil {
			if err := addKarma(tx, *row.SubmittedBy, -1, ActionUpvoteRemoved, storyID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return internalError("apply unvote", err)
	}

	invalidateStoryCaches(storyID)
	return nil
}

// invalidateStoryCaches drops every cached listing page plus the story's
// detail entry so subsequent reads reflect the new point total.
func invalidateStoryCaches(storyID string) {
	utils.GetCache().InvalidateTag("stories:")
	utils.GetCache().Delete("story-" + storyID)
}
