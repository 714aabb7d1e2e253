package dto

import "time"

// CreatePostRequest represents the post creation payload
type CreatePostRequest struct {
	Title   string   `json:"title" validate:"required,min=3,max=200"`
	Content string   `json:"content" validate:"required,min=10"`
	Tags    []string `json:"tags,omitempty" validate:"omitempty,max=10,dive,min=2,max=50"`
}

// UpdatePostRequest represents the post update payload.
// A nil Tags slice keeps the existing tag set; an empty one clears it.
type UpdatePostRequest struct {
	Title   string    `json:"title" validate:"required,min=3,max=200"`
	Content string    `json:"content" validate:"required,min=10"`
	Tags    *[]string `json:"tags,omitempty" validate:"omitempty,max=10,dive,min=2,max=50"`
}

// PostDTO represents a post for API responses
type PostDTO struct {
	ID          uint      `json:"id"`
	UUID        string    `json:"uuid"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"content_html,omitempty"`
	Author      AuthorDTO `json:"author"`
	Tags        []TagDTO  `json:"tags"`
	PublishedAt time.Time `json:"published_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PostSummaryDTO is the compact post representation used in list results
type PostSummaryDTO struct {
	ID          uint      `json:"id"`
	UUID        string    `json:"uuid"`
	Title       string    `json:"title"`
	Author      AuthorDTO `json:"author"`
	Tags        []TagDTO  `json:"tags"`
	PublishedAt time.Time `json:"published_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PostListQuery carries the raw query string values of the post list endpoint.
// Interpretation (defaults, clamping, rejection of bad values) happens in the
// search flow so handlers stay thin.
type PostListQuery struct {
	Search             string `query:"q"`
	SearchType         string `query:"search_type"`
	Tags               string `query:"tags"` // comma-separated tag names
	Author             string `query:"author"`
	AuthorName         string `query:"author_name"` // alias for author
	PublicationYear    string `query:"publication_year"`
	PublicationYearMin string `query:"publication_year_min"`
	PublicationYearMax string `query:"publication_year_max"`
	SortBy             string `query:"sort_by"`
	Page               string `query:"page"`
	PageSize           string `query:"page_size"`
}
