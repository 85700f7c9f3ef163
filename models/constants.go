package models

// Interaction kinds (each kind has its own uniqueness constraint)
const (
	KindLike    = "like"
	KindRetweet = "retweet"
)

// Notification types
const (
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
	NotificationTypeMessage = "message"
)

// XP awards per qualifying action
const (
	XPForLike    = 10
	XPForRetweet = 15
	XPForComment = 5
)

// DefaultStoryDurationHours is the visibility window applied when a story
// is created without an explicit duration.
const DefaultStoryDurationHours = 24
