package dto

import (
	"time"

	"github.com/deniz/bookbridge/internal/app/models"
)

// CreatePostRequest represents a new community board entry
type CreatePostRequest struct {
	Text string `json:"text" binding:"required"`
}

// PostResponse represents one community board entry
type PostResponse struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Class     string    `json:"class"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// PostListResponse represents the community feed, newest first
type PostListResponse struct {
	Posts []PostResponse `json:"posts"`
}

// FromPost converts a models.Post to a PostResponse
func FromPost(post *models.Post) PostResponse {
	return PostResponse{
		ID:        post.ID.String(),
		Author:    post.Author,
		Class:     post.Class,
		Text:      post.Text,
		Timestamp: post.CreatedAt,
	}
}
