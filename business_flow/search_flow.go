package businessflow

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/quillhq/inkwell/app/dto"
	"github.com/quillhq/inkwell/models"
	"github.com/quillhq/inkwell/repository"
	"github.com/quillhq/inkwell/utils"
	"gorm.io/gorm"
)

// SearchFlow handles the composed post listing: free-text search scoped by
// mode, AND-combined tag filters, author and publication-year constraints,
// ordering and pagination.
type SearchFlow interface {
	ListPosts(ctx context.Context, query *dto.PostListQuery) (*SearchResult, error)
}

// SearchResult is one page of a composed listing together with the total
// count of the filtered set.
type SearchResult struct {
	Results  []dto.PostSummaryDTO
	Count    int64
	Page     int
	PageSize int
}

// SearchFlowImpl implements the search business flow
type SearchFlowImpl struct {
	postRepo repository.PostRepository
	db       *gorm.DB
}

// NewSearchFlow creates a new search flow instance
func NewSearchFlow(postRepo repository.PostRepository, db *gorm.DB) SearchFlow {
	return &SearchFlowImpl{
		postRepo: postRepo,
		db:       db,
	}
}

// ListPosts parses the raw query values, composes the search and returns one
// page of results. Unknown search_type and sort_by values fall back silently;
// non-numeric values for numeric filters are hard errors.
func (sf *SearchFlowImpl) ListPosts(ctx context.Context, query *dto.PostListQuery) (*SearchResult, error) {
	parsed, err := ParsePostListQuery(query)
	if err != nil {
		return nil, err
	}

	posts, total, err := sf.postRepo.Search(ctx, *parsed)
	if err != nil {
		return nil, NewBusinessError("LIST_POSTS_FAILED", "Failed to list posts", err)
	}

	return &SearchResult{
		Results:  ToPostSummaryDTOs(posts),
		Count:    total,
		Page:     parsed.Page,
		PageSize: parsed.PageSize,
	}, nil
}

// ParsePostListQuery turns raw query string values into a PostSearchQuery.
// search_type and sort_by tolerate unknown values, numeric filters reject
// them.
func ParsePostListQuery(query *dto.PostListQuery) (*models.PostSearchQuery, error) {
	search := strings.TrimSpace(query.Search)
	if search != "" {
		length := utf8.RuneCountInString(search)
		if length < utils.MinSearchLength || length > utils.MaxSearchLength {
			return nil, NewBusinessError("INVALID_SEARCH_QUERY", "Invalid search query", ErrInvalidSearchQuery)
		}
	}

	filterTags, err := parseTagFilter(query.Tags)
	if err != nil {
		return nil, NewBusinessError("INVALID_TAG_FILTER", "Invalid tag filter", err)
	}

	year, err := parseYearParam("publication_year", query.PublicationYear)
	if err != nil {
		return nil, err
	}
	yearMin, err := parseYearParam("publication_year_min", query.PublicationYearMin)
	if err != nil {
		return nil, err
	}
	yearMax, err := parseYearParam("publication_year_max", query.PublicationYearMax)
	if err != nil {
		return nil, err
	}

	page, err := parsePositiveInt("page", query.Page, 1)
	if err != nil {
		return nil, err
	}
	pageSize, err := parsePositiveInt("page_size", query.PageSize, utils.DefaultPageSize)
	if err != nil {
		return nil, err
	}
	page, pageSize = NormalizePagination(page, pageSize)

	// author and author_name are aliases; author wins when both are present.
	author := strings.TrimSpace(query.Author)
	if author == "" {
		author = strings.TrimSpace(query.AuthorName)
	}

	return &models.PostSearchQuery{
		Search:     search,
		Mode:       models.NormalizeSearchMode(strings.TrimSpace(query.SearchType)),
		FilterTags: filterTags,
		AuthorName: author,
		Year:       year,
		YearMin:    yearMin,
		YearMax:    yearMax,
		SortBy:     models.NormalizeSortKey(strings.TrimSpace(query.SortBy)),
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// NormalizePagination clamps page and page size into their valid ranges
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = utils.DefaultPageSize
	}
	if pageSize > utils.MaxPageSize {
		pageSize = utils.MaxPageSize
	}
	return page, pageSize
}

// parseTagFilter splits a comma-separated tag list, normalizes each name and
// enforces the count and length bounds.
func parseTagFilter(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		name := utils.NormalizeTagName(part)
		if name == "" {
			continue
		}
		length := utf8.RuneCountInString(name)
		if length < utils.MinTagNameLength || length > utils.MaxTagNameLength {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTagName, part)
		}
		names = append(names, name)
	}

	if len(names) > utils.MaxTagFilters {
		return nil, ErrTooManyTags
	}

	return names, nil
}

// parseYearParam parses an optional integer filter value. A non-numeric
// value is a client error, never silently dropped.
func parseYearParam(field, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, NewBusinessErrorf("INVALID_FILTER_VALUE", "Invalid value for %s", ErrInvalidFilterValue, field)
	}

	return &value, nil
}

// parsePositiveInt parses an optional pagination value, using def when empty
func parsePositiveInt(field, raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, NewBusinessErrorf("INVALID_FILTER_VALUE", "Invalid value for %s", ErrInvalidFilterValue, field)
	}

	return value, nil
}
