package models

import "time"

// Notification is shown in a user's notification feed and pushed live over
// the socket server when the user has an open session.
type Notification struct {
	ID        string    `dynamodbav:"id" json:"id"`
	UserID    string    `dynamodbav:"userId" json:"userId"`
	Type      string    `dynamodbav:"type" json:"type"`
	ActorID   string    `dynamodbav:"actorId" json:"actorId"`
	TargetID  string    `dynamodbav:"targetId,omitempty" json:"targetId,omitempty"`
	Message   string    `dynamodbav:"message" json:"message"`
	Read      bool      `dynamodbav:"read" json:"read"`
	CreatedAt time.Time `dynamodbav:"createdAt,unixtime" json:"createdAt"`
}

// NotificationsTable is the DynamoDB table name for notifications
const NotificationsTable = "Notifications"

// NotificationsUserIndex is the GSI keyed by userId
const NotificationsUserIndex = "userId-index"
