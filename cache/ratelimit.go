package cache

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// CounterStore is the slice of the cache client the limiter needs.
type CounterStore interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration)
}

// RateLimiter is a fixed-window counter limiter over redis. Rate limiting
// is a boundary concern: it rejects an interaction before it reaches the
// engines and fails open when redis is unavailable.
type RateLimiter struct {
	Counters CounterStore
	Action   string
	Interval time.Duration
	Limit    int64
}

// Allow reports whether the identifier may perform the limiter's action in
// the current window.
func (rl *RateLimiter) Allow(ctx context.Context, identifier string) bool {
	key := fmt.Sprintf("ratelimit:%s:%s", rl.Action, identifier)

	count, err := rl.Counters.Incr(ctx, key)
	if err != nil {
		log.Errorf("Rate limit check error for %s: %s", key, err)
		return true
	}
	if count == 1 {
		rl.Counters.Expire(ctx, key, rl.Interval)
	}
	return count <= rl.Limit
}

// ActionLimits holds the per-action limiters applied at the controller
// boundary. Windows and limits follow the platform's published limits.
type ActionLimits struct {
	Like        *RateLimiter
	Retweet     *RateLimiter
	CreatePost  *RateLimiter
	CreateStory *RateLimiter
	Comment     *RateLimiter
	SendMessage *RateLimiter
}

func NewActionLimits(counters CounterStore) *ActionLimits {
	return &ActionLimits{
		Like:        &RateLimiter{Counters: counters, Action: "like", Interval: time.Minute, Limit: 30},
		Retweet:     &RateLimiter{Counters: counters, Action: "retweet", Interval: time.Minute, Limit: 20},
		CreatePost:  &RateLimiter{Counters: counters, Action: "create_post", Interval: time.Minute, Limit: 5},
		CreateStory: &RateLimiter{Counters: counters, Action: "create_story", Interval: time.Minute, Limit: 10},
		Comment:     &RateLimiter{Counters: counters, Action: "comment", Interval: time.Minute, Limit: 20},
		SendMessage: &RateLimiter{Counters: counters, Action: "send_message", Interval: time.Minute, Limit: 20},
	}
}
