package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"fanlink_server/cache"
	"fanlink_server/models"
	"fanlink_server/monitoring"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// StoryService manages the ephemeral story lifecycle: creation with a
// bounded visibility window, per-viewer view tracking, embedded likes and
// comments, and the sweep that purges expired items. Expiry is a pure
// function of wall clock — every read path filters on it, so visibility
// never depends on sweep timing. Now is injectable for the boundary tests.
type StoryService struct {
	Dynamo        Datastore
	Cache         Cache
	Interactions  *InteractionService
	Profiles      *UserProfileService
	Notifications *NotificationService
	Now           func() time.Time
}

func NewStoryService(dynamo Datastore, c Cache, interactions *InteractionService, profiles *UserProfileService, notifications *NotificationService) *StoryService {
	return &StoryService{
		Dynamo:        dynamo,
		Cache:         c,
		Interactions:  interactions,
		Profiles:      profiles,
		Notifications: notifications,
		Now:           time.Now,
	}
}

// Create persists a new story opening its visibility window now.
func (s *StoryService) Create(ctx context.Context, creatorID string, req models.CreateStoryRequest) (*models.Story, error) {
	if creatorID == "" {
		return nil, ErrUnauthenticated
	}
	if strings.TrimSpace(req.MediaURL) == "" && strings.TrimSpace(req.VideoURL) == "" {
		return nil, ErrEmptyContent
	}

	duration := req.DurationHours
	if duration <= 0 {
		duration = models.DefaultStoryDurationHours
	}

	now := s.Now()
	story := models.Story{
		ID:            uuid.NewString(),
		CreatorID:     creatorID,
		MediaURL:      req.MediaURL,
		VideoURL:      req.VideoURL,
		Caption:       strings.TrimSpace(req.Caption),
		DurationHours: duration,
		CreatedAt:     now,
		ExpiresAt:     now.Add(time.Duration(duration) * time.Hour),
	}

	if err := s.Dynamo.PutItem(ctx, models.StoriesTable, story); err != nil {
		return nil, storeErr(err)
	}

	s.Cache.Del(ctx, cache.KeyStories(creatorID))
	monitoring.StoriesCreated.Inc()
	log.Printf("✅ Story %s created by %s, expires %s", story.ID, creatorID, story.ExpiresAt.Format(time.RFC3339))
	return &story, nil
}

// ActiveStories returns the creator's stories whose expiry instant has not
// passed, oldest first (chronological viewing order). Expired-but-unswept
// stories are filtered out here, and cached results are re-filtered so a
// cache hit can never resurrect an expired story.
func (s *StoryService) ActiveStories(ctx context.Context, creatorID string) ([]models.Story, error) {
	now := s.Now()

	var stories []models.Story
	if s.Cache.Get(ctx, cache.KeyStories(creatorID), &stories) {
		return filterActive(stories, now), nil
	}

	if err := s.Dynamo.QueryByField(ctx, models.StoriesTable, models.StoriesCreatorIndex, "creatorId", creatorID, 100, &stories); err != nil {
		return nil, storeErr(err)
	}

	active := filterActive(stories, now)
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].CreatedAt.Before(active[j].CreatedAt)
	})

	s.Cache.Set(ctx, cache.KeyStories(creatorID), active, cache.TTLStories)
	return active, nil
}

// MarkViewed records that a user saw a story. The string-set add is
// idempotent, and expired-but-present stories are still tracked — view
// analytics tolerate the window having closed.
func (s *StoryService) MarkViewed(ctx context.Context, storyID, userID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	if _, err := s.getStory(ctx, storyID); err != nil {
		return err
	}
	if err := s.Dynamo.AddToStringSet(ctx, models.StoriesTable, map[string]string{"id": storyID}, "viewedBy", userID); err != nil {
		return storeErr(err)
	}
	return nil
}

// Like toggles the user's like on a story via the interaction engine and
// notifies the creator on the transition to active.
func (s *StoryService) Like(ctx context.Context, userID, storyID string) (*models.ToggleResult, error) {
	story, err := s.getStory(ctx, storyID)
	if err != nil {
		return nil, err
	}

	result, err := s.Interactions.Toggle(ctx, userID, models.StoriesTable, storyID, models.KindLike)
	if err != nil {
		return nil, err
	}

	if result.Active && story.CreatorID != userID && s.Notifications != nil {
		s.Notifications.NotifyLike(ctx, story.CreatorID, userID, storyID)
	}
	return result, nil
}

// Comment appends a new comment to a story. Comments are append-only and
// owned by the story document, so they vanish with it.
func (s *StoryService) Comment(ctx context.Context, userID, storyID, text string) (*models.StoryComment, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyContent
	}

	story, err := s.getStory(ctx, storyID)
	if err != nil {
		return nil, err
	}

	comment := models.StoryComment{
		ID:        uuid.NewString(),
		UserID:    userID,
		UserName:  userID,
		Text:      text,
		CreatedAt: s.Now(),
	}
	if s.Profiles != nil {
		if profile, err := s.Profiles.Get(ctx, userID); err == nil {
			comment.UserName = profile.Username
			comment.UserAvatar = profile.AvatarURL
		}
	}

	if err := s.Dynamo.AppendToList(ctx, models.StoriesTable, map[string]string{"id": storyID}, "comments", comment); err != nil {
		return nil, storeErr(err)
	}

	s.Cache.Del(ctx, cache.KeyStories(story.CreatorID))
	if story.CreatorID != userID && s.Notifications != nil {
		s.Notifications.NotifyComment(ctx, story.CreatorID, userID, storyID)
	}
	if s.Interactions != nil && s.Interactions.XP != nil {
		s.Interactions.XP.AwardForAction(ctx, userID, storyID, "comment")
	}

	log.Printf("💬 %s commented on story %s", userID, storyID)
	return &comment, nil
}

// Delete removes a story before its window closes. Only the creator may do
// this; embedded comments and likes go with the document.
func (s *StoryService) Delete(ctx context.Context, storyID, callerID string) error {
	if callerID == "" {
		return ErrUnauthenticated
	}
	story, err := s.getStory(ctx, storyID)
	if err != nil {
		return err
	}
	if story.CreatorID != callerID {
		return ErrForbidden
	}

	if err := s.Dynamo.DeleteItem(ctx, models.StoriesTable, map[string]string{"id": storyID}); err != nil {
		return storeErr(err)
	}
	s.Cache.Del(ctx, cache.KeyStories(story.CreatorID))
	log.Printf("🗑️ Story %s deleted by its creator", storyID)
	return nil
}

// SweepExpired purges every story whose expiry instant has passed. Safe to
// re-run: deleting an already-deleted id is a no-op, so overlapping
// scheduler triggers cannot fail.
func (s *StoryService) SweepExpired(ctx context.Context) (*models.SweepResult, error) {
	var expired []models.Story
	if err := s.Dynamo.ScanNumericAtMost(ctx, models.StoriesTable, "expiresAt", s.Now().Unix(), &expired); err != nil {
		return nil, storeErr(err)
	}
	if len(expired) == 0 {
		return &models.SweepResult{PurgedCount: 0}, nil
	}

	keys := make([]map[string]string, 0, len(expired))
	creators := make(map[string]bool)
	for _, story := range expired {
		keys = append(keys, map[string]string{"id": story.ID})
		creators[story.CreatorID] = true
	}

	if err := s.Dynamo.BatchDeleteItems(ctx, models.StoriesTable, keys); err != nil {
		return nil, storeErr(err)
	}

	for creatorID := range creators {
		s.Cache.Del(ctx, cache.KeyStories(creatorID))
	}

	monitoring.StoriesPurged.Add(float64(len(expired)))
	log.Printf("🧹 Sweep purged %d expired stories", len(expired))
	return &models.SweepResult{PurgedCount: len(expired)}, nil
}

func (s *StoryService) getStory(ctx context.Context, storyID string) (*models.Story, error) {
	var story models.Story
	if err := s.Dynamo.GetItem(ctx, models.StoriesTable, map[string]string{"id": storyID}, &story); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr(err)
	}
	return &story, nil
}

func filterActive(stories []models.Story, now time.Time) []models.Story {
	active := make([]models.Story, 0, len(stories))
	for _, story := range stories {
		if story.Active(now) {
			active = append(active, story)
		}
	}
	return active
}
