package router

import (
	"github.com/gin-gonic/gin"

	"emberlink/internal/handlers"
	"emberlink/internal/middleware"
	"emberlink/internal/models"
)

func RegisterRoutes(r *gin.Engine) {
	// Handlers
	authHandler := handlers.NewAuthHandler()
	storyHandler := handlers.NewStoryHandler()
	voteHandler := handlers.NewVoteHandler()

	// Public routes
	r.GET("/", storyHandler.List)                               // ranked front page (seed stories)
	r.GET("/newest", storyHandler.ListNewest)                   // user-submitted stories by recency
	r.GET("/ask", storyHandler.ListTyped(models.TypeAsk))       // ranked, faster decay
	r.GET("/show", storyHandler.ListTyped(models.TypeShow))     // ranked, faster decay
	r.GET("/jobs", storyHandler.ListTyped(models.TypeJobs))     // ranked, faster decay
	r.GET("/search", storyHandler.List)                         // ?q= search, recency ordered
	r.GET("/item/:id", storyHandler.Detail)                     // single story

	r.POST("/signup", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)

	// Vote actions do their own auth so an anonymous caller gets the
	// structured AUTH_ERROR envelope rather than a bare 401.
	r.POST("/vote", voteHandler.Vote)
	r.POST("/unvote", voteHandler.Unvote)

	// Protected routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/submit", storyHandler.Submit)
	}
}
