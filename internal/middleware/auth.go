package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"emberlink/internal/db"
	"emberlink/internal/models"
)

const CheckUserKey = "user"

// LoadUser resolves the session user and sets it on the context. Routes
// stay usable without a session; handlers that need the viewer check the
// key themselves.
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, _ := session.Get("user_id").(string)

		if userID != "" {
			var user models.User
			if err := db.DB.First(&user, "id = ?", userID).Error; err == nil {
				c.Set(CheckUserKey, &user)
			}
		}
		c.Next()
	}
}

// AuthRequired guards routes that only make sense with a logged-in user.
// The vote actions are not behind this guard: the ledger reports its own
// AUTH_ERROR envelope so the form gets a structured result, not a 401.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "AUTH_ERROR", "message": "You must be logged in."},
			})
			return
		}
		c.Next()
	}
}
