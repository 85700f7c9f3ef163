package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Cache TTLs. The cache is a pure accelerator: every value is also held by
// the document store and every mutation path invalidates, so short TTLs
// only bound staleness, never correctness.
const (
	TTLUserProfile = 5 * time.Minute
	TTLPost        = time.Minute
	TTLFeed        = 30 * time.Second
	TTLStories     = time.Minute
)

// Cache key builders
func KeyUserProfile(userID string) string { return fmt.Sprintf("user:%s", userID) }
func KeyPost(postID string) string        { return fmt.Sprintf("post:%s", postID) }
func KeyFeed(creatorID string) string     { return fmt.Sprintf("feed:%s", creatorID) }
func KeyStories(creatorID string) string  { return fmt.Sprintf("stories:%s", creatorID) }

// Client is a thin wrapper over redis used for read-through caching, action
// rate limiting, and the XP frequency rule. All cache operations swallow
// errors: a broken cache degrades to direct store reads.
type Client struct {
	redisClient *redis.Client
}

func NewClient(options *redis.Options) *Client {
	return &Client{
		redisClient: redis.NewClient(options),
	}
}

// Get loads a cached value into out, reporting whether it was present.
func (c *Client) Get(ctx context.Context, key string, out interface{}) bool {
	val, err := c.redisClient.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Errorf("Cache get error for %s: %s", key, err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		log.Errorf("Error unmarshalling cached value for %s: %s", key, err)
		return false
	}
	return true
}

// Set stores a value with a TTL.
func (c *Client) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	bytes, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.redisClient.Set(ctx, key, bytes, ttl).Err(); err != nil {
		log.Errorf("Cache set error for %s: %s", key, err)
	}
}

// Del removes keys.
func (c *Client) Del(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.redisClient.Del(ctx, keys...).Err(); err != nil {
		log.Errorf("Cache delete error: %s", err)
	}
}

// DelPattern removes every key matching a glob pattern.
func (c *Client) DelPattern(ctx context.Context, pattern string) {
	keys, err := c.redisClient.Keys(ctx, pattern).Result()
	if err != nil {
		log.Errorf("Cache delete pattern error for %s: %s", pattern, err)
		return
	}
	if len(keys) > 0 {
		c.Del(ctx, keys...)
	}
}

// Incr increments a counter key.
func (c *Client) Incr(ctx context.Context, key string) (int64, error) {
	return c.redisClient.Incr(ctx, key).Result()
}

// Expire sets a TTL on an existing key.
func (c *Client) Expire(ctx context.Context, key string, ttl time.Duration) {
	if err := c.redisClient.Expire(ctx, key, ttl).Err(); err != nil {
		log.Errorf("Cache expire error for %s: %s", key, err)
	}
}
