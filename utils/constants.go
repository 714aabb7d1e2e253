package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour

	// SessionTimeout is the default session timeout (24 hours)
	SessionTimeout = 24 * time.Hour
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Post listing constants
const (
	// DefaultPageSize is the number of posts per page when none is requested
	DefaultPageSize = 10

	// MaxPageSize caps the page size a client may request
	MaxPageSize = 100

	// MaxTagsPerPost caps the number of tags attached to a single post
	MaxTagsPerPost = 10

	// MaxTagFilters caps the number of tags in the AND-filter list of a search
	MaxTagFilters = 10

	// MinTagNameLength and MaxTagNameLength bound individual tag names
	MinTagNameLength = 2
	MaxTagNameLength = 50

	// MinSearchLength and MaxSearchLength bound the free-text search value
	MinSearchLength = 2
	MaxSearchLength = 200
)

// Content length bounds, counted in runes
const (
	MinTitleLength       = 3
	MaxTitleLength       = 200
	MinPostContentLength = 10

	MinCommentLength = 3
	MaxCommentLength = 5000
)

// Cache keys and TTLs
const (
	CacheKeyTagList    = "inkwell:tags:list"
	CacheKeyPostPrefix = "inkwell:post:"

	PostCacheTTL    = 5 * time.Minute
	TagListCacheTTL = 10 * time.Minute
)
