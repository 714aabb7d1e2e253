package dto

import "time"

// CreateCommentRequest represents the comment creation payload
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=3,max=5000"`
}

// UpdateCommentRequest represents the comment update payload
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=3,max=5000"`
}

// CommentDTO represents a comment for API responses
type CommentDTO struct {
	ID          uint      `json:"id"`
	PostID      uint      `json:"post_id"`
	Author      AuthorDTO `json:"author"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"content_html,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CommentListQuery carries the raw pagination values of comment list endpoints
type CommentListQuery struct {
	Page     string `query:"page"`
	PageSize string `query:"page_size"`
}
