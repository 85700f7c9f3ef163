package services

import (
	"context"
	"errors"
	"time"

	"fanlink_server/cache"
	"fanlink_server/models"
)

// UserProfileService manages user profile documents.
type UserProfileService struct {
	Dynamo Datastore
	Cache  Cache
	Now    func() time.Time
}

func NewUserProfileService(dynamo Datastore, c Cache) *UserProfileService {
	return &UserProfileService{Dynamo: dynamo, Cache: c, Now: time.Now}
}

// Get fetches a profile, cache first.
func (s *UserProfileService) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if s.Cache.Get(ctx, cache.KeyUserProfile(userID), &profile) {
		return &profile, nil
	}

	if err := s.Dynamo.GetItem(ctx, models.UsersTable, map[string]string{"id": userID}, &profile); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr(err)
	}

	s.Cache.Set(ctx, cache.KeyUserProfile(userID), profile, cache.TTLUserProfile)
	return &profile, nil
}

// Upsert writes a profile, keeping the original creation time when one
// already exists.
func (s *UserProfileService) Upsert(ctx context.Context, profile models.UserProfile) (*models.UserProfile, error) {
	if profile.ID == "" {
		return nil, ErrUnauthenticated
	}

	if existing, err := s.Get(ctx, profile.ID); err == nil {
		profile.CreatedAt = existing.CreatedAt
		if profile.XP == 0 {
			profile.XP = existing.XP
		}
	} else if profile.CreatedAt.IsZero() {
		profile.CreatedAt = s.Now()
	}

	if err := s.Dynamo.PutItem(ctx, models.UsersTable, profile); err != nil {
		return nil, storeErr(err)
	}

	s.Cache.Del(ctx, cache.KeyUserProfile(profile.ID))
	return &profile, nil
}
