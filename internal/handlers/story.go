package handlers

import (
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"emberlink/internal/db"
	"emberlink/internal/middleware"
	"emberlink/internal/models"
	"emberlink/internal/services"
	"emberlink/internal/utils"
)

const detailCacheTTL = 5 * time.Minute

// titlePolicy strips any markup from user-submitted titles
var titlePolicy = bluemonday.StrictPolicy()

type StoryHandler struct{}

func NewStoryHandler() *StoryHandler {
	return &StoryHandler{}
}

// List serves the ranked front page. ?type= narrows to ask/show/jobs and
// ?q= switches to recency-ordered search across all stories.
func (h *StoryHandler) List(c *gin.Context) {
	storyType := c.Query("type")
	if !models.ValidType(storyType) {
		storyType = ""
	}
	h.list(c, services.StoryFilter{
		Type: storyType,
		Q:    c.Query("q"),
		Page: utils.ParsePage(c.Query("page")),
	})
}

// ListNewest serves user-submitted stories by recency.
func (h *StoryHandler) ListNewest(c *gin.Context) {
	h.list(c, services.StoryFilter{
		IsNewest: true,
		Q:        c.Query("q"),
		Page:     utils.ParsePage(c.Query("page")),
	})
}

// ListTyped serves the ask/show/jobs feeds.
func (h *StoryHandler) ListTyped(storyType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.list(c, services.StoryFilter{
			Type: storyType,
			Q:    c.Query("q"),
			Page: utils.ParsePage(c.Query("page")),
		})
	}
}

func (h *StoryHandler) list(c *gin.Context, filter services.StoryFilter) {
	viewerID := ""
	if user := CurrentUser(c); user != nil {
		viewerID = user.ID
	}

	stories, err := services.ListStories(filter, viewerID)
	if err != nil {
		log.Printf("list stories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	hasMore, err := services.HasMore(filter)
	if err != nil {
		log.Printf("has more stories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	// coarse page math only, the estimate may lag
	total, err := services.StoriesCount()
	if err != nil {
		log.Printf("stories count: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"stories":  stories,
		"page":     filter.Page,
		"has_more": hasMore,
		"total":    total,
	})
}

// Detail serves a single story, shared-cached under story-<id> so the vote
// ledger can invalidate it by key.
func (h *StoryHandler) Detail(c *gin.Context) {
	id := c.Param("id")

	cacheKey := "story-" + id
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if story, ok := cached.(models.Story); ok {
			c.JSON(http.StatusOK, story)
			return
		}
	}

	var story models.Story
	if err := db.DB.First(&story, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Story not found"})
		return
	}

	utils.GetCache().Set(cacheKey, story, detailCacheTTL)
	c.JSON(http.StatusOK, story)
}

// Submit creates a story on behalf of the logged-in user. Points start at
// zero: a submitter never counts toward their own story and cannot vote on
// it afterwards either.
func (h *StoryHandler) Submit(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	title := strings.TrimSpace(titlePolicy.Sanitize(c.PostForm("title")))
	rawURL := strings.TrimSpace(c.PostForm("url"))
	storyType := c.PostForm("type")
	if !models.ValidType(storyType) {
		storyType = models.TypeStory
	}

	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":        services.CodeValidation,
				"message":     "Invalid input",
				"fieldErrors": gin.H{"title": []string{"title is required"}},
			},
		})
		return
	}

	var urlPtr, domainPtr *string
	if rawURL != "" {
		u, err := url.Parse(rawURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{
					"code":        services.CodeValidation,
					"message":     "Invalid input",
					"fieldErrors": gin.H{"url": []string{"url must be absolute http(s)"}},
				},
			})
			return
		}
		urlPtr = &rawURL
		domain := strings.TrimPrefix(u.Hostname(), "www.")
		domainPtr = &domain
	}

	story := models.Story{
		ID:          utils.NewStoryID(),
		Title:       title,
		URL:         urlPtr,
		Domain:      domainPtr,
		Type:        storyType,
		SubmittedBy: &user.ID,
		Username:    user.Username,
	}

	if err := db.DB.Create(&story).Error; err != nil {
		log.Printf("create story: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	// new submissions land on the newest listing immediately
	utils.GetCache().InvalidateTag("stories:")

	c.JSON(http.StatusCreated, story)
}
