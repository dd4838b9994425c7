package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"emberlink/internal/db"
	"emberlink/internal/models"
	"emberlink/internal/utils"
)

// setupTestDB swaps the global DB for an in-memory SQLite instance scoped
// to the test, and replaces the vote limiter with a generous one so tests
// that don't care about throttling never trip it.
func setupTestDB(t *testing.T) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := gdb.AutoMigrate(&models.User{}, &models.Story{}, &models.Vote{}, &models.KarmaLog{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	prevDB := db.DB
	prevLimiter := voteLimiter
	db.DB = gdb
	voteLimiter = NewRateLimiter(60000, 60000)
	utils.GetCache().InvalidateTag("")

	t.Cleanup(func() {
		db.DB = prevDB
		voteLimiter = prevLimiter
		utils.GetCache().InvalidateTag("")
	})
}

func createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		ID:       utils.NewUserID(),
		Username: username,
		Email:    username + "@example.com",
		Password: "irrelevant",
	}
	if err := db.DB.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

// seedStory fills defaults and truncates CreatedAt to whole seconds so the
// stored value round-trips cleanly through SQLite's date functions.
func seedStory(t *testing.T, s models.Story) *models.Story {
	t.Helper()
	if s.ID == "" {
		s.ID = utils.NewStoryID()
	}
	if s.Title == "" {
		s.Title = "Story " + utils.RandStringBytesMaskImpr(6)
	}
	if s.Type == "" {
		s.Type = models.TypeStory
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	s.CreatedAt = s.CreatedAt.UTC().Truncate(time.Second)
	if err := db.DB.Create(&s).Error; err != nil {
		t.Fatalf("seed story %s: %v", s.Title, err)
	}
	return &s
}

func getStory(t *testing.T, id string) *models.Story {
	t.Helper()
	var s models.Story
	if err := db.DB.First(&s, "id = ?", id).Error; err != nil {
		t.Fatalf("load story %s: %v", id, err)
	}
	return &s
}

func getUser(t *testing.T, id string) *models.User {
	t.Helper()
	var u models.User
	if err := db.DB.First(&u, "id = ?", id).Error; err != nil {
		t.Fatalf("load user %s: %v", id, err)
	}
	return &u
}

func countVotes(t *testing.T, userID, storyID string) int64 {
	t.Helper()
	var n int64
	if err := db.DB.Model(&models.Vote{}).
		Where("user_id = ? AND story_id = ?", userID, storyID).
		Count(&n).Error; err != nil {
		t.Fatalf("count votes: %v", err)
	}
	return n
}
