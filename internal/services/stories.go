package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"emberlink/internal/db"
	"emberlink/internal/models"
	"emberlink/internal/utils"
)

// PerPage is the fixed page size shared by the listings and the has-more
// probe.
const PerPage = 30

// Anonymous listing pages are cached briefly; votes invalidate the whole
// "stories:" tag, so the TTL only bounds staleness from external writes.
const listCacheTTL = time.Minute

// StoryFilter carries the URL-level listing parameters.
type StoryFilter struct {
	IsNewest bool
	Type     string // "", "ask", "show" or "jobs"; empty means the default front page
	Q        string // free-text title search
	Page     int    // 1-indexed, values < 1 are treated as 1
}

func (f StoryFilter) page() int {
	if f.Page < 1 {
		return 1
	}
	return f.Page
}

// StoryView is one listing row. SubmittedBy carries the submitter's
// *current* username (joined at query time); Username is the story's stored
// snapshot, kept for seeded stories that have no submitter.
type StoryView struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	URL           *string   `json:"url"`
	Domain        *string   `json:"domain"`
	Username      string    `json:"username"`
	Points        int       `json:"points"`
	SubmittedBy   *string   `json:"submitted_by"`
	CommentsCount int       `json:"comments_count"`
	CreatedAt     time.Time `json:"created_at"`
	VotedByMe     bool      `json:"voted_by_me"`
}

// By returns the display name: the submitter's current username when the
// story has one, else the stored snapshot.
func (v StoryView) By() string {
	if v.SubmittedBy != nil {
		return *v.SubmittedBy
	}
	return v.Username
}

const storyViewSelect = "stories.id, stories.title, stories.url, stories.domain, stories.username, " +
	"stories.points, stories.comments_count, stories.created_at, users.username AS submitted_by"

// storiesWhere applies the filter predicate shared by ListStories and
// HasMore:
//   - newest mode shows user-submitted stories only
//   - the default front page shows seed/external stories only, optionally
//     narrowed by type
//   - a search query relaxes the submitter restriction and matches the
//     title case-insensitively; the type filter stays in force, and newest
//     mode keeps its submitter restriction even while searching
func storiesWhere(tx *gorm.DB, f StoryFilter) *gorm.DB {
	if f.IsNewest {
		tx = tx.Where("stories.submitted_by IS NOT NULL")
	} else {
		if f.Q == "" {
			tx = tx.Where("stories.submitted_by IS NULL")
		}
		if f.Type != "" {
			tx = tx.Where("stories.type = ?", f.Type)
		}
	}
	if f.Q != "" {
		tx = tx.Where("LOWER(stories.title) LIKE ?", "%"+strings.ToLower(f.Q)+"%")
	}
	return tx
}

// storiesOrder picks the ordering policy: rank score for the default and
// type feeds, plain recency for newest mode and searches. Ties between
// equal keys are left to the database.
func storiesOrder(tx *gorm.DB, f StoryFilter) string {
	if exponent, ok := DecayExponent(f.IsNewest, f.Q, f.Type); ok {
		return rankOrder(tx, exponent)
	}
	return "stories.created_at DESC"
}

// ListStories returns one page of stories for the filter. When viewerID is
// non-empty every row carries VotedByMe, resolved against the vote ledger;
// viewer-annotated results are never cached.
func ListStories(filter StoryFilter, viewerID string) ([]StoryView, error) {
	cacheKey := ""
	if viewerID == "" {
		cacheKey = fmt.Sprintf("stories:%t:%s:%s:%d", filter.IsNewest, filter.Type, filter.Q, filter.page())
		if cached := utils.GetCache().Get(cacheKey); cached != nil {
			if views, ok := cached.([]StoryView); ok {
				return views, nil
			}
		}
	}

	tx := db.DB.Table("stories").
		Joins("LEFT JOIN users ON users.id = stories.submitted_by")
	if viewerID != "" {
		tx = tx.Select(storyViewSelect + ", votes.id IS NOT NULL AS voted_by_me").
			Joins("LEFT JOIN votes ON votes.story_id = stories.id AND votes.user_id = ?", viewerID)
	} else {
		tx = tx.Select(storyViewSelect)
	}

	tx = storiesWhere(tx, filter).
		Order(storiesOrder(tx, filter)).
		Limit(PerPage).
		Offset((filter.page() - 1) * PerPage)

	var views []StoryView
	if err := tx.Scan(&views).Error; err != nil {
		return nil, err
	}

	if cacheKey != "" {
		utils.GetCache().Set(cacheKey, views, listCacheTTL)
	}
	return views, nil
}

// HasMore reports whether a page after filter.Page exists. It probes with
// the current page's limit at the next page's offset (page*PerPage, not
// (page+1)*PerPage) and checks for at least one row, so a listing whose
// last page is exactly full reports no further page.
func HasMore(filter StoryFilter) (bool, error) {
	var ids []string
	err := storiesWhere(db.DB.Model(&models.Story{}), filter).
		Limit(PerPage).
		Offset(filter.page() * PerPage).
		Pluck("stories.id", &ids).Error
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

// StoriesCount returns the planner's row estimate for the stories table.
// reltuples lags vacuum/analyze, which is acceptable: callers only use it
// for coarse page math. Dialects without pg_class (and freshly created
// tables, which report -1) fall back to an exact count.
func StoriesCount() (int64, error) {
	var estimate int64
	err := db.DB.Raw(
		"SELECT reltuples::BIGINT AS estimate FROM pg_class WHERE relname = ?",
		"stories",
	).Scan(&estimate).Error
	if err != nil || estimate < 0 {
		var exact int64
		if err := db.DB.Model(&models.Story{}).Count(&exact).Error; err != nil {
			return 0, err
		}
		return exact, nil
	}
	return estimate, nil
}
