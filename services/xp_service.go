package services

import (
	"context"
	"fmt"
	"time"

	"fanlink_server/cache"
	"fanlink_server/models"
	"fanlink_server/monitoring"

	log "github.com/sirupsen/logrus"
)

// xpAwardWindow is how long a (user, target, action) tuple stays
// disqualified from earning XP again. Stops like/unlike farming.
const xpAwardWindow = 24 * time.Hour

// XPService owns the gamification side-effect of interactions: a fixed XP
// grant per qualifying action, at most once per (user, target, action) per
// window, accumulated atomically on the user profile.
type XPService struct {
	Dynamo Datastore
	Cache  Cache
}

// AwardForAction grants XP for an action a user performed on a target and
// returns the amount granted, zero when the action does not qualify.
// The frequency rule lives in redis; if redis is down the grant goes
// through, the same fail-open stance the rate limiters take.
func (s *XPService) AwardForAction(ctx context.Context, userID, targetID, action string) int {
	amount := xpAmount(action)
	if amount == 0 || userID == "" {
		return 0
	}

	key := fmt.Sprintf("xp:%s:%s:%s", action, userID, targetID)
	count, err := s.Cache.Incr(ctx, key)
	if err != nil {
		log.Errorf("XP frequency check error for %s: %s", key, err)
	} else {
		if count == 1 {
			s.Cache.Expire(ctx, key, xpAwardWindow)
		} else {
			// Already awarded for this target inside the window.
			return 0
		}
	}

	if _, err := s.Dynamo.AtomicAdd(ctx, models.UsersTable, map[string]string{"id": userID}, "xp", amount); err != nil {
		log.Errorf("❌ Failed to add %d XP to user %s: %v", amount, userID, err)
		return 0
	}

	s.Cache.Del(ctx, cache.KeyUserProfile(userID))
	monitoring.XPAwarded.WithLabelValues(action).Add(float64(amount))
	log.Printf("✨ Awarded %d XP to %s for %s", amount, userID, action)
	return amount
}

func xpAmount(action string) int {
	switch action {
	case models.KindLike:
		return models.XPForLike
	case models.KindRetweet:
		return models.XPForRetweet
	case "comment":
		return models.XPForComment
	default:
		return 0
	}
}
