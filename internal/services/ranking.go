package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"emberlink/internal/models"
)

// minAgeDays floors a story's age so a just-posted story doesn't divide the
// rank by (near) zero. One second, expressed in days.
const minAgeDays = 1.0 / 86400

// Score implements the Hacker News style decaying-popularity formula:
// points divided by the story's age in days raised to an exponent.
// https://news.ycombinator.com/newsfaq.html
func Score(points int, createdAt, now time.Time, exponent float64) float64 {
	age := now.Sub(createdAt).Hours() / 24
	if age < minAgeDays {
		age = minAgeDays
	}
	return float64(points) / math.Pow(age, exponent)
}

// DecayExponent picks the decay tier for a listing. ok=false means the
// listing is not ranked at all (newest mode, or an active search) and is
// ordered by recency instead. Ask/show/jobs feeds decay faster than the
// front page so they stay fresher.
func DecayExponent(isNewest bool, q, storyType string) (exponent float64, ok bool) {
	if isNewest || q != "" {
		return 0, false
	}
	switch storyType {
	case models.TypeAsk, models.TypeShow, models.TypeJobs:
		return 3, true
	}
	return 2, true
}

// rankOrder renders the Score formula as an ORDER BY expression so ranking
// and pagination happen in the database. The exponent is only ever 2 or 3,
// so the power is written as repeated multiplication; only the age-in-days
// term differs between Postgres and SQLite (tests run on SQLite).
func rankOrder(tx *gorm.DB, exponent float64) string {
	age := "GREATEST(EXTRACT(EPOCH FROM (NOW() - stories.created_at)) / 86400.0, 1.0 / 86400.0)"
	if tx.Dialector.Name() == "sqlite" {
		age = "MAX(julianday('now') - julianday(stories.created_at), 1.0 / 86400.0)"
	}
	terms := make([]string, int(exponent))
	for i := range terms {
		terms[i] = age
	}
	return fmt.Sprintf("stories.points / (%s) DESC", strings.Join(terms, " * "))
}
