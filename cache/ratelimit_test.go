package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeCounters struct {
	counts  map[string]int64
	expired map[string]time.Duration
	err     error
}

func newFakeCounters() *fakeCounters {
	return &fakeCounters{counts: make(map[string]int64), expired: make(map[string]time.Duration)}
}

func (f *fakeCounters) Incr(ctx context.Context, key string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeCounters) Expire(ctx context.Context, key string, ttl time.Duration) {
	f.expired[key] = ttl
}

func TestRateLimiterEnforcesLimit(t *testing.T) {
	ctx := context.Background()
	counters := newFakeCounters()
	limiter := &RateLimiter{Counters: counters, Action: "like", Interval: time.Minute, Limit: 3}

	for i := 0; i < 3; i++ {
		if !limiter.Allow(ctx, "u1") {
			t.Fatalf("request %d denied under the limit", i+1)
		}
	}
	if limiter.Allow(ctx, "u1") {
		t.Fatal("request over the limit allowed")
	}

	// Another identifier has its own window.
	if !limiter.Allow(ctx, "u2") {
		t.Fatal("independent identifier denied")
	}
}

func TestRateLimiterSetsWindowOnFirstHit(t *testing.T) {
	ctx := context.Background()
	counters := newFakeCounters()
	limiter := &RateLimiter{Counters: counters, Action: "comment", Interval: 30 * time.Second, Limit: 5}

	limiter.Allow(ctx, "u1")
	limiter.Allow(ctx, "u1")

	ttl, ok := counters.expired["ratelimit:comment:u1"]
	if !ok {
		t.Fatal("window TTL never set")
	}
	if ttl != 30*time.Second {
		t.Fatalf("got ttl=%s, want 30s", ttl)
	}
}

func TestRateLimiterFailsOpen(t *testing.T) {
	ctx := context.Background()
	counters := newFakeCounters()
	counters.err = errors.New("connection refused")
	limiter := &RateLimiter{Counters: counters, Action: "like", Interval: time.Minute, Limit: 1}

	for i := 0; i < 5; i++ {
		if !limiter.Allow(ctx, "u1") {
			t.Fatal("limiter denied while the counter store is down")
		}
	}
}

func TestActionLimitsCoverAllActions(t *testing.T) {
	limits := NewActionLimits(newFakeCounters())
	for name, limiter := range map[string]*RateLimiter{
		"like":        limits.Like,
		"retweet":     limits.Retweet,
		"createPost":  limits.CreatePost,
		"createStory": limits.CreateStory,
		"comment":     limits.Comment,
		"sendMessage": limits.SendMessage,
	} {
		if limiter == nil {
			t.Fatalf("limiter %s not configured", name)
		}
		if limiter.Limit <= 0 || limiter.Interval <= 0 {
			t.Fatalf("limiter %s has no window", name)
		}
	}
}
