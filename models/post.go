package models

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_posts_uuid" json:"uuid"`

	Title   string `gorm:"size:200;not null;index:idx_posts_title" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`

	AuthorID uint     `gorm:"not null;index:idx_posts_author_id" json:"author_id"`
	Author   *Account `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`

	PublishedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_posts_published_at" json:"published_at"`
	UpdatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Tags     []Tag     `gorm:"many2many:post_tags;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	Comments []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Post) TableName() string {
	return "posts"
}

// PostFilter represents filter criteria for post queries
type PostFilter struct {
	ID              *uint
	UUID            *uuid.UUID
	AuthorID        *uint
	Title           *string
	PublishedAfter  *time.Time
	PublishedBefore *time.Time
}

// SearchMode selects which fields a free-text search value is matched
// against. Unknown values fall back to SearchModeAll; the fallback is
// deliberately silent, unlike numeric filter parsing.
type SearchMode string

const (
	SearchModeAll     SearchMode = "all"
	SearchModeTitle   SearchMode = "title"
	SearchModeContent SearchMode = "content"
	SearchModeTags    SearchMode = "tags"
	SearchModeAuthor  SearchMode = "author"
)

func (m SearchMode) Valid() bool {
	switch m {
	case SearchModeAll, SearchModeTitle, SearchModeContent, SearchModeTags, SearchModeAuthor:
		return true
	}
	return false
}

// NormalizeSearchMode maps a raw search_type parameter onto a SearchMode,
// falling back to SearchModeAll for empty or unrecognized values.
func NormalizeSearchMode(raw string) SearchMode {
	m := SearchMode(raw)
	if !m.Valid() {
		return SearchModeAll
	}
	return m
}

// SortKey enumerates the supported post orderings. Unknown values fall back
// to SortNewest silently.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
	SortTitleAsc  SortKey = "title_asc"
	SortTitleDesc SortKey = "title_desc"
)

func (k SortKey) Valid() bool {
	switch k {
	case SortNewest, SortOldest, SortTitleAsc, SortTitleDesc:
		return true
	}
	return false
}

// NormalizeSortKey maps a raw sort_by parameter onto a SortKey, falling back
// to SortNewest for empty or unrecognized values.
func NormalizeSortKey(raw string) SortKey {
	k := SortKey(raw)
	if !k.Valid() {
		return SortNewest
	}
	return k
}

// OrderClause returns the SQL ordering for the key. Every ordering carries a
// posts.id tiebreak so that equal keys sort deterministically and repeated
// queries return identical pages.
func (k SortKey) OrderClause() string {
	switch k {
	case SortOldest:
		return "posts.published_at ASC, posts.id ASC"
	case SortTitleAsc:
		return "LOWER(posts.title) ASC, posts.id DESC"
	case SortTitleDesc:
		return "LOWER(posts.title) DESC, posts.id DESC"
	default:
		return "posts.published_at DESC, posts.id DESC"
	}
}

// PostSearchQuery carries one fully-parsed listing request: free-text search
// scoped by mode, an AND-combined tag filter, optional author and
// publication-year constraints, ordering and pagination. Zero values mean
// "no constraint"; parsing errors for numeric fields are rejected before a
// query is ever built.
type PostSearchQuery struct {
	Search     string
	Mode       SearchMode
	FilterTags []string // post must carry every listed tag
	AuthorName string
	Year       *int
	YearMin    *int
	YearMax    *int
	SortBy     SortKey
	Page       int
	PageSize   int
}

// NeedsTagJoin reports whether the free-text search traverses the post-tag
// relation. Such a join can yield one row per matching tag for the same
// post, so results must be deduplicated by post identity.
func (q *PostSearchQuery) NeedsTagJoin() bool {
	return q.Search != "" && (q.Mode == SearchModeAll || q.Mode == SearchModeTags)
}
