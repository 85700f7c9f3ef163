package models

import "time"

// UserProfile defines the structure for user profiles. XP accumulates from
// interaction awards; Level is derived from it at read time.
type UserProfile struct {
	ID          string    `dynamodbav:"id" json:"id"`
	Username    string    `dynamodbav:"username" json:"username"`
	DisplayName string    `dynamodbav:"displayName,omitempty" json:"displayName,omitempty"`
	AvatarURL   string    `dynamodbav:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	Bio         string    `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	IsCreator   bool      `dynamodbav:"isCreator" json:"isCreator"`
	XP          int       `dynamodbav:"xp" json:"xp"`
	CreatedAt   time.Time `dynamodbav:"createdAt,unixtime" json:"createdAt"`
}

// Level is derived from accumulated XP, 100 XP per level starting at 1.
func (u UserProfile) Level() int {
	return u.XP/100 + 1
}

// UsersTable is the DynamoDB table name for user profiles
const UsersTable = "Users"
