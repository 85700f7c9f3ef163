package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fanlink_server/cache"
	"fanlink_server/models"
	"fanlink_server/monitoring"

	log "github.com/sirupsen/logrus"
)

// InteractionService is the toggle engine for the at-most-one-per-
// (user, target, kind) like/retweet relation. The interaction record's
// existence is the boolean; the target document carries the denormalized
// counter. Record and counter are a best-effort dual write — the store's
// per-document conditional writes are the only serialization point, so a
// losing writer reconciles by reading instead of mutating twice.
type InteractionService struct {
	Dynamo Datastore
	Cache  Cache
	XP     *XPService
	Now    func() time.Time
}

func NewInteractionService(dynamo Datastore, c Cache, xp *XPService) *InteractionService {
	return &InteractionService{Dynamo: dynamo, Cache: c, XP: xp, Now: time.Now}
}

// targetRef is the slice of a post or story document the toggle needs.
type targetRef struct {
	ID           string `dynamodbav:"id"`
	CreatorID    string `dynamodbav:"creatorId"`
	LikeCount    int    `dynamodbav:"likeCount"`
	RetweetCount int    `dynamodbav:"retweetCount"`
}

func (t targetRef) count(kind string) int {
	if kind == models.KindRetweet {
		return t.RetweetCount
	}
	return t.LikeCount
}

// Toggle flips the user's relation to the target and returns the
// authoritative post-toggle state. Toggling on creates the record and
// increments the counter; toggling off deletes it and decrements with a
// floor of zero. XP is granted only on the transition to active.
func (s *InteractionService) Toggle(ctx context.Context, userID, targetTable, targetID, kind string) (*models.ToggleResult, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if kind != models.KindLike && kind != models.KindRetweet {
		return nil, fmt.Errorf("unknown interaction kind %q", kind)
	}

	target, err := s.getTarget(ctx, targetTable, targetID)
	if err != nil {
		return nil, err
	}

	recordID := models.InteractionID(userID, targetID, kind)
	recordKey := map[string]string{"id": recordID}
	counterField := kind + "Count"

	var existing models.Interaction
	err = s.Dynamo.GetItem(ctx, models.InteractionsTable, recordKey, &existing)

	switch {
	case errors.Is(err, ErrItemNotFound):
		// Toggle on.
		record := models.Interaction{
			ID:        recordID,
			UserID:    userID,
			TargetID:  targetID,
			Kind:      kind,
			CreatedAt: s.Now(),
		}
		if err := s.Dynamo.PutItemIfAbsent(ctx, models.InteractionsTable, record, "id"); err != nil {
			if errors.Is(err, ErrConditionFailed) {
				// A concurrent toggle already created the record; the state
				// is the one we wanted, so report it without re-counting.
				log.Printf("⚠️ Concurrent %s toggle on %s resolved to active", kind, targetID)
				return s.reconcile(ctx, targetTable, targetID, kind, true)
			}
			return nil, storeErr(err)
		}

		count, err := s.Dynamo.AtomicAdd(ctx, targetTable, map[string]string{"id": targetID}, counterField, 1)
		if err != nil {
			return nil, storeErr(err)
		}

		xp := s.XP.AwardForAction(ctx, userID, targetID, kind)
		s.invalidate(ctx, targetTable, targetID, target.CreatorID)
		monitoring.InteractionsToggled.WithLabelValues(kind, "true").Inc()
		log.Printf("✅ %s %sd %s (%s: %d)", userID, kind, targetID, counterField, count)

		return &models.ToggleResult{Active: true, Count: count, XPGained: xp}, nil

	case err == nil:
		// Toggle off.
		if err := s.Dynamo.DeleteItemIfExists(ctx, models.InteractionsTable, recordKey, "id"); err != nil {
			if errors.Is(err, ErrConditionFailed) {
				log.Printf("⚠️ Concurrent %s toggle on %s resolved to inactive", kind, targetID)
				return s.reconcile(ctx, targetTable, targetID, kind, false)
			}
			return nil, storeErr(err)
		}

		count, err := s.Dynamo.AtomicAdd(ctx, targetTable, map[string]string{"id": targetID}, counterField, -1)
		if err != nil {
			return nil, storeErr(err)
		}

		s.invalidate(ctx, targetTable, targetID, target.CreatorID)
		monitoring.InteractionsToggled.WithLabelValues(kind, "false").Inc()
		log.Printf("✅ %s un-%sd %s (%s: %d)", userID, kind, targetID, counterField, count)

		return &models.ToggleResult{Active: false, Count: count, XPGained: 0}, nil

	default:
		return nil, storeErr(err)
	}
}

// LikedTargets returns which of the given targets the user currently has an
// active record of the given kind for. Feeds the caller's optimistic
// liked/retweeted set before any toggling happens.
func (s *InteractionService) LikedTargets(ctx context.Context, userID, kind string, targetIDs []string) (map[string]bool, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	var records []models.Interaction
	if err := s.Dynamo.QueryByField(ctx, models.InteractionsTable, models.InteractionsUserIndex, "userId", userID, 500, &records); err != nil {
		return nil, storeErr(err)
	}

	wanted := make(map[string]bool, len(targetIDs))
	for _, id := range targetIDs {
		wanted[id] = true
	}

	active := make(map[string]bool)
	for _, record := range records {
		if record.Kind != kind {
			continue
		}
		if len(targetIDs) > 0 && !wanted[record.TargetID] {
			continue
		}
		active[record.TargetID] = true
	}
	return active, nil
}

// reconcile reports the already-reached terminal state after losing a
// conditional-write race. Not an error: the toggle is idempotent.
func (s *InteractionService) reconcile(ctx context.Context, targetTable, targetID, kind string, active bool) (*models.ToggleResult, error) {
	target, err := s.getTarget(ctx, targetTable, targetID)
	if err != nil {
		return nil, err
	}
	return &models.ToggleResult{Active: active, Count: target.count(kind), XPGained: 0}, nil
}

func (s *InteractionService) getTarget(ctx context.Context, targetTable, targetID string) (*targetRef, error) {
	var target targetRef
	if err := s.Dynamo.GetItem(ctx, targetTable, map[string]string{"id": targetID}, &target); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr(err)
	}
	return &target, nil
}

func (s *InteractionService) invalidate(ctx context.Context, targetTable, targetID, creatorID string) {
	if targetTable == models.StoriesTable {
		s.Cache.Del(ctx, cache.KeyStories(creatorID))
		return
	}
	s.Cache.Del(ctx, cache.KeyPost(targetID), cache.KeyFeed(creatorID))
}

// storeErr maps unexpected store failures onto the retryable
// ErrStoreUnavailable while letting sentinel errors pass through.
func storeErr(err error) error {
	if errors.Is(err, ErrItemNotFound) || errors.Is(err, ErrConditionFailed) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
