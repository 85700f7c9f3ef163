package models

import "time"

// Post is a creator feed post. LikeCount and RetweetCount are denormalized
// counters kept in step with the Interactions table; they are never allowed
// to go negative.
type Post struct {
	ID           string    `dynamodbav:"id" json:"id"`
	CreatorID    string    `dynamodbav:"creatorId" json:"creatorId"`
	Content      string    `dynamodbav:"content" json:"content"`
	MediaURL     string    `dynamodbav:"mediaUrl,omitempty" json:"mediaUrl,omitempty"`
	LikeCount    int       `dynamodbav:"likeCount" json:"likeCount"`
	RetweetCount int       `dynamodbav:"retweetCount" json:"retweetCount"`
	CreatedAt    time.Time `dynamodbav:"createdAt,unixtime" json:"createdAt"`
}

type CreatePostRequest struct {
	Content  string `json:"content"`
	MediaURL string `json:"mediaUrl,omitempty"`
}

// PostsTable is the DynamoDB table name for posts
const PostsTable = "Posts"

// PostsCreatorIndex is the GSI keyed by creatorId
const PostsCreatorIndex = "creatorId-index"
