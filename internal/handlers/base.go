package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"emberlink/internal/middleware"
	"emberlink/internal/models"
	"emberlink/internal/services"
)

// CurrentUser pulls the session-loaded user off the context, nil when the
// request is anonymous.
func CurrentUser(c *gin.Context) *models.User {
	if u, exists := c.Get(middleware.CheckUserKey); exists {
		if user, ok := u.(*models.User); ok {
			return user
		}
	}
	return nil
}

// voteErrStatus maps vote-ledger error kinds onto HTTP status codes.
func voteErrStatus(code string) int {
	switch code {
	case services.CodeAuth:
		return http.StatusUnauthorized
	case services.CodeValidation:
		return http.StatusBadRequest
	case services.CodeRateLimit:
		return http.StatusTooManyRequests
	case services.CodeAlreadyUpvoted, services.CodeSelfUpvote:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
