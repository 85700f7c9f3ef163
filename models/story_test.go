package models

import (
	"testing"
	"time"
)

func TestStoryActiveBoundary(t *testing.T) {
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	story := Story{CreatedAt: created, ExpiresAt: created.Add(24 * time.Hour)}

	if !story.Active(created) {
		t.Fatal("story inactive at creation")
	}
	if !story.Active(story.ExpiresAt.Add(-time.Second)) {
		t.Fatal("story inactive just before expiry")
	}
	// The expiry instant itself is outside the window.
	if story.Active(story.ExpiresAt) {
		t.Fatal("story active at its expiry instant")
	}
	if story.Active(story.ExpiresAt.Add(time.Second)) {
		t.Fatal("story active after expiry")
	}
}

func TestStoryRemainingFloorsAtZero(t *testing.T) {
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	story := Story{CreatedAt: created, ExpiresAt: created.Add(time.Hour)}

	if got := story.Remaining(created); got != time.Hour {
		t.Fatalf("got %s, want 1h", got)
	}
	if got := story.Remaining(created.Add(45 * time.Minute)); got != 15*time.Minute {
		t.Fatalf("got %s, want 15m", got)
	}
	if got := story.Remaining(created.Add(2 * time.Hour)); got != 0 {
		t.Fatalf("got %s, want 0 after expiry", got)
	}
}

func TestInteractionIDDeterministic(t *testing.T) {
	a := InteractionID("u1", "p1", KindLike)
	b := InteractionID("u1", "p1", KindLike)
	if a != b {
		t.Fatalf("ids differ: %s vs %s", a, b)
	}
	if a == InteractionID("u1", "p1", KindRetweet) {
		t.Fatal("kinds collide")
	}
	if a == InteractionID("u2", "p1", KindLike) {
		t.Fatal("users collide")
	}
}

func TestUserProfileLevel(t *testing.T) {
	cases := []struct {
		xp    int
		level int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{250, 3},
	}
	for _, tc := range cases {
		if got := (UserProfile{XP: tc.xp}).Level(); got != tc.level {
			t.Errorf("Level() with %d xp = %d, want %d", tc.xp, got, tc.level)
		}
	}
}
