package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fanlink_server/cache"
	"fanlink_server/models"
)

func newPostEnv(t *testing.T) (*memStore, *memCache, *PostService) {
	t.Helper()
	store := newMemStore()
	c := newMemCache()
	svc := NewPostService(store, c)

	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return store, c, svc
}

func TestPostCreateAndGet(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newPostEnv(t)

	if _, err := svc.Create(ctx, "creator1", models.CreatePostRequest{}); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("got %v, want ErrEmptyContent", err)
	}
	if _, err := svc.Create(ctx, "", models.CreatePostRequest{Content: "hi"}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("got %v, want ErrUnauthenticated", err)
	}

	created, err := svc.Create(ctx, "creator1", models.CreatePostRequest{Content: "  first post  "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Content != "first post" {
		t.Fatalf("got content %q, want trimmed", created.Content)
	}
	if created.LikeCount != 0 || created.RetweetCount != 0 {
		t.Fatal("new post has non-zero counters")
	}

	fetched, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fetched.ID != created.ID {
		t.Fatalf("got %s, want %s", fetched.ID, created.ID)
	}

	if _, err := svc.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestCreatorFeedNewestFirst(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newPostEnv(t)

	first, _ := svc.Create(ctx, "creator1", models.CreatePostRequest{Content: "one"})
	second, _ := svc.Create(ctx, "creator1", models.CreatePostRequest{Content: "two"})
	if _, err := svc.Create(ctx, "creator2", models.CreatePostRequest{Content: "other"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	feed, err := svc.CreatorFeed(ctx, "creator1")
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("got %d posts, want 2", len(feed))
	}
	if feed[0].ID != second.ID || feed[1].ID != first.ID {
		t.Fatal("feed not ordered newest first")
	}
}

func TestPostDeleteAuthorization(t *testing.T) {
	ctx := context.Background()
	store, _, svc := newPostEnv(t)

	post, _ := svc.Create(ctx, "creator1", models.CreatePostRequest{Content: "mine"})

	if err := svc.Delete(ctx, post.ID, "intruder"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
	if err := svc.Delete(ctx, post.ID, "creator1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if store.has(models.PostsTable, map[string]string{"id": post.ID}) {
		t.Fatal("post still stored after delete")
	}
}

func TestProfileUpsertPreservesHistory(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	c := newMemCache()
	svc := NewUserProfileService(store, c)
	svc.Now = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }

	if _, err := svc.Upsert(ctx, models.UserProfile{}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("got %v, want ErrUnauthenticated", err)
	}

	created, err := svc.Upsert(ctx, models.UserProfile{ID: "u1", Username: "ana"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("creation time not set")
	}

	// XP accrues outside the profile API; an update must not wipe it.
	if _, err := store.AtomicAdd(ctx, models.UsersTable, map[string]string{"id": "u1"}, "xp", 30); err != nil {
		t.Fatalf("add xp: %v", err)
	}
	c.Del(ctx, cache.KeyUserProfile("u1"))

	updated, err := svc.Upsert(ctx, models.UserProfile{ID: "u1", Username: "ana-renamed"})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if updated.XP != 30 {
		t.Fatalf("got xp=%d after rename, want 30", updated.XP)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatal("creation time changed on update")
	}
}
