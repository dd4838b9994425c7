package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"emberlink/internal/services"
)

type VoteHandler struct{}

func NewVoteHandler() *VoteHandler {
	return &VoteHandler{}
}

// Vote handles the upvote form action
func (h *VoteHandler) Vote(c *gin.Context) {
	h.handle(c, services.Vote)
}

// Unvote reverses a previous upvote
func (h *VoteHandler) Unvote(c *gin.Context) {
	h.handle(c, services.Unvote)
}

func (h *VoteHandler) handle(c *gin.Context, action func(userID, storyID string) *services.VoteError) {
	userID := ""
	if user := CurrentUser(c); user != nil {
		userID = user.ID
	}
	storyID := c.PostForm("storyId")

	if verr := action(userID, storyID); verr != nil {
		c.JSON(voteErrStatus(verr.Code), gin.H{"error": verr})
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
