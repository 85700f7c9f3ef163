package models

import (
	"sort"
	"strings"
	"time"
)

// Message is a direct-chat message between a subscriber and a creator.
type Message struct {
	ConversationID string    `dynamodbav:"conversationId" json:"conversationId"`
	CreatedAt      time.Time `dynamodbav:"createdAt,unixtime" json:"createdAt"`
	MessageID      string    `dynamodbav:"messageId" json:"messageId"`
	SenderID       string    `dynamodbav:"senderId" json:"senderId"`
	Content        string    `dynamodbav:"content" json:"content"`
	Read           bool      `dynamodbav:"read" json:"read"`
}

// ConversationID derives the shared conversation key for a pair of users,
// order-independent so both sides resolve the same key.
func ConversationID(userA, userB string) string {
	pair := []string{userA, userB}
	sort.Strings(pair)
	return strings.Join(pair, "_")
}

// MessagesTable is the DynamoDB table name for chat messages
const MessagesTable = "Messages"
