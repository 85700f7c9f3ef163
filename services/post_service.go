package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"fanlink_server/cache"
	"fanlink_server/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// PostService manages creator feed posts, the like/retweet targets. Reads
// go through the cache; every mutation invalidates the post and the
// creator's feed entry.
type PostService struct {
	Dynamo Datastore
	Cache  Cache
	Now    func() time.Time
}

func NewPostService(dynamo Datastore, c Cache) *PostService {
	return &PostService{Dynamo: dynamo, Cache: c, Now: time.Now}
}

// Create persists a new post with zeroed counters.
func (s *PostService) Create(ctx context.Context, creatorID string, req models.CreatePostRequest) (*models.Post, error) {
	if creatorID == "" {
		return nil, ErrUnauthenticated
	}
	if strings.TrimSpace(req.Content) == "" && strings.TrimSpace(req.MediaURL) == "" {
		return nil, ErrEmptyContent
	}

	post := models.Post{
		ID:        uuid.NewString(),
		CreatorID: creatorID,
		Content:   strings.TrimSpace(req.Content),
		MediaURL:  req.MediaURL,
		CreatedAt: s.Now(),
	}

	if err := s.Dynamo.PutItem(ctx, models.PostsTable, post); err != nil {
		return nil, storeErr(err)
	}

	s.Cache.Del(ctx, cache.KeyFeed(creatorID))
	log.Printf("✅ Post %s created by %s", post.ID, creatorID)
	return &post, nil
}

// Get fetches a single post, cache first.
func (s *PostService) Get(ctx context.Context, postID string) (*models.Post, error) {
	var post models.Post
	if s.Cache.Get(ctx, cache.KeyPost(postID), &post) {
		return &post, nil
	}

	if err := s.Dynamo.GetItem(ctx, models.PostsTable, map[string]string{"id": postID}, &post); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr(err)
	}

	s.Cache.Set(ctx, cache.KeyPost(postID), post, cache.TTLPost)
	return &post, nil
}

// CreatorFeed returns a creator's posts, newest first.
func (s *PostService) CreatorFeed(ctx context.Context, creatorID string) ([]models.Post, error) {
	var posts []models.Post
	if s.Cache.Get(ctx, cache.KeyFeed(creatorID), &posts) {
		return posts, nil
	}

	if err := s.Dynamo.QueryByField(ctx, models.PostsTable, models.PostsCreatorIndex, "creatorId", creatorID, 100, &posts); err != nil {
		return nil, storeErr(err)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	s.Cache.Set(ctx, cache.KeyFeed(creatorID), posts, cache.TTLFeed)
	return posts, nil
}

// Delete removes a post; only its creator may do so.
func (s *PostService) Delete(ctx context.Context, postID, callerID string) error {
	if callerID == "" {
		return ErrUnauthenticated
	}

	post, err := s.Get(ctx, postID)
	if err != nil {
		return err
	}
	if post.CreatorID != callerID {
		return ErrForbidden
	}

	if err := s.Dynamo.DeleteItem(ctx, models.PostsTable, map[string]string{"id": postID}); err != nil {
		return storeErr(err)
	}
	s.Cache.Del(ctx, cache.KeyPost(postID), cache.KeyFeed(post.CreatorID))
	return nil
}
