package models

import "time"

// Tag labels posts. Tags are shared: they are get-or-created lazily the
// first time a post references the name and survive the deletion of every
// post that carried them.
// Table: tags
// Unique by name and by slug; slug is derived from name (lowercase,
// spaces to hyphens) and never recomputed after creation.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:50;not null;uniqueIndex:uk_tags_name" json:"name"`
	Slug      string    `gorm:"size:50;not null;uniqueIndex:uk_tags_slug" json:"slug"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_tags_created_at" json:"created_at"`

	Posts []Post `gorm:"many2many:post_tags" json:"-"`
}

func (Tag) TableName() string { return "tags" }

// TagFilter represents filter criteria for tag queries
type TagFilter struct {
	ID            *uint
	Name          *string
	Slug          *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// TagWithCount pairs a tag with the number of posts carrying it, for the
// tag listing endpoint.
type TagWithCount struct {
	Tag
	PostCount int64 `gorm:"column:post_count" json:"post_count"`
}
