package models

import "time"

// Comment belongs to exactly one post and one author; both references are
// fixed at creation. CreatedAt never changes after insert, UpdatedAt is
// bumped on every edit. Deletes are hard deletes.
type Comment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PostID uint  `gorm:"not null;index:idx_comments_post_id" json:"post_id"`
	Post   *Post `gorm:"foreignKey:PostID;references:ID" json:"-"`

	AuthorID uint     `gorm:"not null;index:idx_comments_author_id" json:"author_id"`
	Author   *Account `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`

	Content string `gorm:"size:5000;not null" json:"content"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_comments_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Comment) TableName() string {
	return "comments"
}

// CommentFilter represents filter criteria for comment queries
type CommentFilter struct {
	ID            *uint
	PostID        *uint
	AuthorID      *uint
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
