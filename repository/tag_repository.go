package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/quillhq/inkwell/models"
	"github.com/quillhq/inkwell/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagRepositoryImpl implements TagRepository interface
type TagRepositoryImpl struct {
	*BaseRepository[models.Tag, models.TagFilter]
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &TagRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Tag, models.TagFilter](db),
	}
}

// ByName retrieves a tag by name, matched case-insensitively
func (r *TagRepositoryImpl) ByName(ctx context.Context, name string) (*models.Tag, error) {
	db := r.getDB(ctx)
	var row models.Tag
	err := db.Where("LOWER(name) = ?", strings.ToLower(name)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// BySlug retrieves a tag by its URL slug
func (r *TagRepositoryImpl) BySlug(ctx context.Context, slug string) (*models.Tag, error) {
	db := r.getDB(ctx)
	var row models.Tag
	err := db.Where("slug = ?", slug).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// GetOrCreateByNames resolves each name to an existing tag (case-insensitive
// match) or creates it with a derived slug. Results preserve input order.
func (r *TagRepositoryImpl) GetOrCreateByNames(ctx context.Context, names []string) ([]*models.Tag, error) {
	db := r.getDB(ctx)

	tags := make([]*models.Tag, 0, len(names))
	for _, raw := range names {
		name := utils.NormalizeTagName(raw)
		if name == "" {
			continue
		}

		existing, err := r.ByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			tags = append(tags, existing)
			continue
		}

		tag := &models.Tag{
			Name: name,
			Slug: utils.Slugify(name),
		}
		// ON CONFLICT DO NOTHING keeps the transaction usable when a
		// concurrent writer inserts the same name first; a silently skipped
		// insert leaves tag.ID zero and the winner is re-read instead.
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(tag).Error; err != nil {
			return nil, fmt.Errorf("failed to create tag %q: %w", name, err)
		}
		if tag.ID == 0 {
			again, err := r.ByName(ctx, name)
			if err != nil {
				return nil, err
			}
			if again == nil {
				return nil, fmt.Errorf("failed to create tag %q", name)
			}
			tags = append(tags, again)
			continue
		}
		tags = append(tags, tag)
	}

	return tags, nil
}

// ListWithCounts returns tags sorted by post count (most used first), each
// with the number of posts currently carrying it. Orphaned tags are listed
// with a zero count; they are never pruned.
func (r *TagRepositoryImpl) ListWithCounts(ctx context.Context, limit, offset int) ([]*models.TagWithCount, error) {
	db := r.getDB(ctx)

	query := db.Model(&models.Tag{}).
		Select("tags.*, COUNT(post_tags.post_id) AS post_count").
		Joins("LEFT JOIN post_tags ON post_tags.tag_id = tags.id").
		Group("tags.id").
		Order("post_count DESC, tags.name ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.TagWithCount
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *TagRepositoryImpl) applyFilter(query *gorm.DB, filter models.TagFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Name != nil {
		query = query.Where("LOWER(name) = ?", strings.ToLower(*filter.Name))
	}
	if filter.Slug != nil {
		query = query.Where("slug = ?", *filter.Slug)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves tags based on filter criteria
func (r *TagRepositoryImpl) ByFilter(ctx context.Context, filter models.TagFilter, orderBy string, limit, offset int) ([]*models.Tag, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Tag{}), filter)

	if orderBy == "" {
		orderBy = "name ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Tag
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of tags matching the filter
func (r *TagRepositoryImpl) Count(ctx context.Context, filter models.TagFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Tag{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any tag matching the filter exists
func (r *TagRepositoryImpl) Exists(ctx context.Context, filter models.TagFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
