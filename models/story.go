package models

import "time"

// Story is an ephemeral item that self-expires durationHours after creation.
// A story is active iff now < ExpiresAt; expired-but-unswept stories must be
// filtered out of every read path. Comments are embedded so deleting the
// document cascades to them.
type Story struct {
	ID            string         `dynamodbav:"id" json:"id"`
	CreatorID     string         `dynamodbav:"creatorId" json:"creatorId"`
	MediaURL      string         `dynamodbav:"mediaUrl" json:"mediaUrl"`
	VideoURL      string         `dynamodbav:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	Caption       string         `dynamodbav:"caption,omitempty" json:"caption,omitempty"`
	DurationHours int            `dynamodbav:"durationHours" json:"durationHours"`
	LikeCount     int            `dynamodbav:"likeCount" json:"likeCount"`
	ViewedBy      []string       `dynamodbav:"viewedBy,omitempty" json:"viewedBy,omitempty"`
	Comments      []StoryComment `dynamodbav:"comments,omitempty" json:"comments,omitempty"`
	CreatedAt     time.Time      `dynamodbav:"createdAt,unixtime" json:"createdAt"`
	ExpiresAt     time.Time      `dynamodbav:"expiresAt,unixtime" json:"expiresAt"`
}

// Active reports whether the story is still inside its visibility window.
func (s Story) Active(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}

// Remaining returns the time left in the visibility window, floored at zero.
// Callers apply their own "expiring soon" threshold to it.
func (s Story) Remaining(now time.Time) time.Duration {
	if !now.Before(s.ExpiresAt) {
		return 0
	}
	return s.ExpiresAt.Sub(now)
}

// StoryComment is appended to a story and never mutated afterwards.
type StoryComment struct {
	ID         string    `dynamodbav:"id" json:"id"`
	UserID     string    `dynamodbav:"userId" json:"userId"`
	UserName   string    `dynamodbav:"userName" json:"userName"`
	UserAvatar string    `dynamodbav:"userAvatar,omitempty" json:"userAvatar,omitempty"`
	Text       string    `dynamodbav:"text" json:"text"`
	CreatedAt  time.Time `dynamodbav:"createdAt,unixtime" json:"createdAt"`
}

type CreateStoryRequest struct {
	MediaURL      string `json:"mediaUrl"`
	VideoURL      string `json:"videoUrl,omitempty"`
	Caption       string `json:"caption,omitempty"`
	DurationHours int    `json:"durationHours,omitempty"`
}

type CommentStoryRequest struct {
	Text string `json:"text"`
}

// SweepResult reports how many expired stories a sweep removed.
type SweepResult struct {
	PurgedCount int `json:"purgedCount"`
}

// StoriesTable is the DynamoDB table name for stories
const StoriesTable = "Stories"

// StoriesCreatorIndex is the GSI keyed by creatorId
const StoriesCreatorIndex = "creatorId-index"
