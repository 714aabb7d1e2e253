package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quillhq/inkwell/models"
	"gorm.io/gorm"
)

// PostRepositoryImpl implements PostRepository interface
type PostRepositoryImpl struct {
	*BaseRepository[models.Post, models.PostFilter]
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &PostRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Post, models.PostFilter](db),
	}
}

// ByIDWithRelations retrieves a post with its author and tags preloaded
func (r *PostRepositoryImpl) ByIDWithRelations(ctx context.Context, id uint) (*models.Post, error) {
	db := r.getDB(ctx)
	var row models.Post
	err := db.Preload("Author").Preload("Tags").First(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *PostRepositoryImpl) applyFilter(query *gorm.DB, filter models.PostFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("posts.id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("posts.uuid = ?", *filter.UUID)
	}
	if filter.AuthorID != nil {
		query = query.Where("posts.author_id = ?", *filter.AuthorID)
	}
	if filter.Title != nil {
		query = query.Where("posts.title = ?", *filter.Title)
	}
	if filter.PublishedAfter != nil {
		query = query.Where("posts.published_at > ?", *filter.PublishedAfter)
	}
	if filter.PublishedBefore != nil {
		query = query.Where("posts.published_at < ?", *filter.PublishedBefore)
	}
	return query
}

// ByFilter retrieves posts based on filter criteria
func (r *PostRepositoryImpl) ByFilter(ctx context.Context, filter models.PostFilter, orderBy string, limit, offset int) ([]*models.Post, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Post{}), filter)

	if orderBy == "" {
		orderBy = "posts.published_at DESC, posts.id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Post
	if err := query.Preload("Author").Preload("Tags").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of posts matching the filter
func (r *PostRepositoryImpl) Count(ctx context.Context, filter models.PostFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Post{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any post matching the filter exists
func (r *PostRepositoryImpl) Exists(ctx context.Context, filter models.PostFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// composeSearch builds the filtered (but unordered, unsliced) query for a
// search request. Predicate order follows the listing contract: free-text
// search scoped by mode first, then author and publication-year filters,
// then the AND-combined tag membership constraint.
func (r *PostRepositoryImpl) composeSearch(db *gorm.DB, q models.PostSearchQuery) *gorm.DB {
	query := db.Model(&models.Post{})

	joinAuthor := false
	joinTags := false

	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		switch q.Mode {
		case models.SearchModeTitle:
			query = query.Where("LOWER(posts.title) LIKE ?", pattern)
		case models.SearchModeContent:
			query = query.Where("LOWER(posts.content) LIKE ?", pattern)
		case models.SearchModeAuthor:
			joinAuthor = true
			query = query.Where("LOWER(accounts.username) LIKE ?", pattern)
		case models.SearchModeTags:
			joinTags = true
			query = query.Where("LOWER(tags.name) LIKE ?", pattern)
		default: // SearchModeAll: OR over title, content, author and tag names
			joinAuthor = true
			joinTags = true
			query = query.Where(
				"LOWER(posts.title) LIKE ? OR LOWER(posts.content) LIKE ? OR LOWER(accounts.username) LIKE ? OR LOWER(tags.name) LIKE ?",
				pattern, pattern, pattern, pattern,
			)
		}
	}

	if q.AuthorName != "" {
		joinAuthor = true
		query = query.Where("LOWER(accounts.username) LIKE ?", "%"+strings.ToLower(q.AuthorName)+"%")
	}

	if q.Year != nil {
		from, to := yearBounds(*q.Year)
		query = query.Where("posts.published_at >= ? AND posts.published_at < ?", from, to)
	}
	if q.YearMin != nil {
		from, _ := yearBounds(*q.YearMin)
		query = query.Where("posts.published_at >= ?", from)
	}
	if q.YearMax != nil {
		_, to := yearBounds(*q.YearMax)
		query = query.Where("posts.published_at < ?", to)
	}

	// AND-tag filter: the post's tag set must be a superset of the listed
	// tags. Implemented as a membership subquery grouped by post so the
	// outer query gains no join rows from it.
	if len(q.FilterTags) > 0 {
		names := make([]string, 0, len(q.FilterTags))
		for _, name := range q.FilterTags {
			names = append(names, strings.ToLower(name))
		}
		sub := r.DB.Table("post_tags").
			Select("post_tags.post_id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("LOWER(tags.name) IN ?", names).
			Group("post_tags.post_id").
			Having("COUNT(DISTINCT tags.id) = ?", len(names))
		query = query.Where("posts.id IN (?)", sub)
	}

	if joinAuthor {
		query = query.Joins("LEFT JOIN accounts ON accounts.id = posts.author_id")
	}
	if joinTags {
		query = query.Joins("LEFT JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("LEFT JOIN tags ON tags.id = post_tags.tag_id")
	}

	return query
}

// Search executes a composed listing query and returns one page of posts
// plus the total size of the filtered set. Traversing the post-tag join can
// produce one row per matching tag for a single post; grouping by post
// identity deduplicates before ordering and slicing, and the count always
// counts distinct posts.
func (r *PostRepositoryImpl) Search(ctx context.Context, q models.PostSearchQuery) ([]*models.Post, int64, error) {
	db := r.getDB(ctx)

	var total int64
	if err := r.composeSearch(db, q).Distinct("posts.id").Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	query := r.composeSearch(db, q)
	if q.NeedsTagJoin() {
		query = query.Group("posts.id")
	}
	query = query.Order(q.SortBy.OrderClause())

	if q.PageSize > 0 {
		query = query.Limit(q.PageSize)
		if q.Page > 1 {
			query = query.Offset((q.Page - 1) * q.PageSize)
		}
	}

	var rows []*models.Post
	if err := query.Preload("Author").Preload("Tags").Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search posts: %w", err)
	}
	return rows, total, nil
}

// ListByTag returns the page of posts carrying a tag, newest first unless
// overridden, plus the total count for that tag.
func (r *PostRepositoryImpl) ListByTag(ctx context.Context, tagID uint, orderBy string, limit, offset int) ([]*models.Post, int64, error) {
	db := r.getDB(ctx)

	base := func() *gorm.DB {
		return db.Model(&models.Post{}).
			Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Where("post_tags.tag_id = ?", tagID)
	}

	var total int64
	if err := base().Distinct("posts.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if orderBy == "" {
		orderBy = "posts.published_at DESC, posts.id DESC"
	}
	query := base().Order(orderBy)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Post
	if err := query.Preload("Author").Preload("Tags").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Update persists changed post fields; the author reference never changes
func (r *PostRepositoryImpl) Update(ctx context.Context, post *models.Post) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Model(post).Select("Title", "Content", "UpdatedAt").Updates(post).Error
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return nil
}

// Delete removes a post together with its comments and tag associations.
// Tags themselves are shared and survive.
func (r *PostRepositoryImpl) Delete(ctx context.Context, postID uint) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	if err = db.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
		return fmt.Errorf("failed to delete post comments: %w", err)
	}
	if err = db.Exec("DELETE FROM post_tags WHERE post_id = ?", postID).Error; err != nil {
		return fmt.Errorf("failed to delete post tag associations: %w", err)
	}
	if err = db.Delete(&models.Post{}, postID).Error; err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// ReplaceTags swaps the post's tag set wholesale (clear + re-add)
func (r *PostRepositoryImpl) ReplaceTags(ctx context.Context, post *models.Post, tags []*models.Tag) error {
	db := r.getDB(ctx)
	if err := db.Model(post).Association("Tags").Replace(tags); err != nil {
		return fmt.Errorf("failed to replace post tags: %w", err)
	}
	return nil
}

// yearBounds returns the [start, end) UTC instants of a calendar year
func yearBounds(year int) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}
