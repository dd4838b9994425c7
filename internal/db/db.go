package db

import (
	"log"
	"math/rand"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"emberlink/internal/models"
	"emberlink/internal/utils"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=emberlink port=5432 sslmode=disable"
	}

	var err error
	// TranslateError lets the vote ledger see unique-index violations as
	// gorm.ErrDuplicatedKey instead of driver-specific errors
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	err = DB.AutoMigrate(
		&models.User{},
		&models.Story{},
		&models.Vote{},
		&models.KarmaLog{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	if os.Getenv("SEED_STORIES") != "" {
		SeedStories()
	}
}

// SeedStories fills an empty stories table with external seed content so
// the ranked front page has something to show. Seed stories carry no
// submitter, which is exactly what the default listing filters for.
func SeedStories() {
	var count int64
	DB.Model(&models.Story{}).Count(&count)
	if count > 0 {
		log.Println("Stories already seeded, skipping")
		return
	}

	const numStories = 100
	now := time.Now()
	week := int64(7 * 24 * time.Hour)

	for i := 0; i < numStories; i++ {
		story := models.Story{
			ID:        utils.NewStoryID(),
			Title:     "Story " + utils.RandStringBytesMaskImpr(6),
			Type:      models.TypeStory,
			Points:    rand.Intn(501),
			CreatedAt: now.Add(-time.Duration(rand.Int63n(week))),
		}
		if err := DB.Create(&story).Error; err != nil {
			log.Printf("Failed to seed story %d: %v", i+1, err)
		}
	}
	log.Printf("Seeded the database with %d stories", numStories)
}
