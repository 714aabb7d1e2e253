package dto

// TagDTO represents a tag for API responses
type TagDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// TagWithCountDTO extends TagDTO with the number of posts carrying the tag
type TagWithCountDTO struct {
	TagDTO
	PostCount int64 `json:"post_count"`
}

// TagDetailResponse returns a tag together with a page of its posts
type TagDetailResponse struct {
	Tag   TagDTO            `json:"tag"`
	Posts PaginatedResponse `json:"posts"`
}
