package services

import (
	"log"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// Vote rate limit: 10 actions per minute per user, with a small burst.
const (
	voteRatePerMinute = 10
	voteRateBurst     = 5
)

// voteLimiter guards Vote and Unvote; swapped out in tests.
var voteLimiter = NewRateLimiter(voteRatePerMinute, voteRateBurst)

// RateLimiter hands out one token bucket per user id. Buckets live in an
// LRU so idle users age out instead of growing the table forever.
type RateLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters *lru.Cache[string, *rate.Limiter]
}

func NewRateLimiter(perMinute, burst int) *RateLimiter {
	l, err := lru.New[string, *rate.Limiter](10000)
	if err != nil {
		log.Fatalf("Failed to create rate limiter table: %v", err)
	}
	return &RateLimiter{
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    burst,
		limiters: l,
	}
}

// Allow reports whether userID may perform another action now, consuming a
// token when it may.
func (r *RateLimiter) Allow(userID string) bool {
	r.mu.Lock()
	lim, ok := r.limiters.Get(userID)
	if !ok {
		lim = rate.NewLimiter(r.limit, r.burst)
		r.limiters.Add(userID, lim)
	}
	r.mu.Unlock()
	return lim.Allow()
}
