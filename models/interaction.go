package models

import (
	"fmt"
	"time"
)

// Interaction records that a user has liked or retweeted a target (post or
// story). Existence of the record IS the boolean: it is created on
// toggle-on and hard-deleted on toggle-off, never flagged.
type Interaction struct {
	ID        string    `dynamodbav:"id" json:"id"` // {userId}_{targetId}_{kind}
	UserID    string    `dynamodbav:"userId" json:"userId"`
	TargetID  string    `dynamodbav:"targetId" json:"targetId"`
	Kind      string    `dynamodbav:"kind" json:"kind"`
	CreatedAt time.Time `dynamodbav:"createdAt,unixtime" json:"createdAt"`
}

// InteractionID builds the deterministic composite key that enforces the
// at-most-one-record-per-(user,target,kind) invariant.
func InteractionID(userID, targetID, kind string) string {
	return fmt.Sprintf("%s_%s_%s", userID, targetID, kind)
}

// ToggleResult is the authoritative post-toggle state returned to callers,
// which reconcile their optimistic local state against it.
type ToggleResult struct {
	Active   bool `json:"active"`
	Count    int  `json:"count"`
	XPGained int  `json:"xpGained"`
}

// InteractionsTable is the DynamoDB table name for interaction records
const InteractionsTable = "Interactions"

// InteractionsUserIndex is the GSI used to fetch all of a user's records
const InteractionsUserIndex = "userId-index"
