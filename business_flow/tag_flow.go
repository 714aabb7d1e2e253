package businessflow

import (
	"context"
	"encoding/json"

	"github.com/quillhq/inkwell/app/dto"
	"github.com/quillhq/inkwell/repository"
	"github.com/quillhq/inkwell/utils"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// TagFlow handles tag listing and tag detail operations
type TagFlow interface {
	ListTags(ctx context.Context) ([]dto.TagWithCountDTO, error)
	GetTagBySlug(ctx context.Context, slug string, page, pageSize int) (*TagDetail, error)
}

// TagDetail is a tag together with one page of its posts
type TagDetail struct {
	Tag      dto.TagDTO
	Posts    []dto.PostSummaryDTO
	Count    int64
	Page     int
	PageSize int
}

// TagFlowImpl implements the tag business flow
type TagFlowImpl struct {
	tagRepo  repository.TagRepository
	postRepo repository.PostRepository
	rc       *redis.Client
	db       *gorm.DB
}

// NewTagFlow creates a new tag flow instance
func NewTagFlow(tagRepo repository.TagRepository, postRepo repository.PostRepository, rc *redis.Client, db *gorm.DB) TagFlow {
	return &TagFlowImpl{
		tagRepo:  tagRepo,
		postRepo: postRepo,
		rc:       rc,
		db:       db,
	}
}

// ListTags returns every tag with its post count, most-used first. The list
// is served cache-aside from Redis with a short TTL, so counts may lag post
// writes by up to the TTL.
func (tf *TagFlowImpl) ListTags(ctx context.Context) ([]dto.TagWithCountDTO, error) {
	if tf.rc != nil {
		if bs, err := tf.rc.Get(ctx, utils.CacheKeyTagList).Bytes(); err == nil && len(bs) > 0 {
			var cached []dto.TagWithCountDTO
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
		}
	}

	tags, err := tf.tagRepo.ListWithCounts(ctx, 0, 0)
	if err != nil {
		return nil, NewBusinessError("LIST_TAGS_FAILED", "Failed to list tags", err)
	}

	out := make([]dto.TagWithCountDTO, 0, len(tags))
	for _, tag := range tags {
		out = append(out, dto.TagWithCountDTO{
			TagDTO:    ToTagDTO(tag.Tag),
			PostCount: tag.PostCount,
		})
	}

	if tf.rc != nil {
		if bs, err := json.Marshal(out); err == nil {
			_ = tf.rc.Set(ctx, utils.CacheKeyTagList, bs, utils.TagListCacheTTL).Err()
		}
	}

	return out, nil
}

// GetTagBySlug returns the tag and one page of the posts carrying it
func (tf *TagFlowImpl) GetTagBySlug(ctx context.Context, slug string, page, pageSize int) (*TagDetail, error) {
	tag, err := tf.tagRepo.BySlug(ctx, slug)
	if err != nil {
		return nil, NewBusinessError("GET_TAG_FAILED", "Failed to get tag", err)
	}
	if tag == nil {
		return nil, NewBusinessError("TAG_NOT_FOUND", "Tag not found", ErrTagNotFound)
	}

	page, pageSize = NormalizePagination(page, pageSize)
	offset := (page - 1) * pageSize

	posts, total, err := tf.postRepo.ListByTag(ctx, tag.ID, "posts.published_at DESC, posts.id DESC", pageSize, offset)
	if err != nil {
		return nil, NewBusinessError("GET_TAG_FAILED", "Failed to list tag posts", err)
	}

	return &TagDetail{
		Tag:      ToTagDTO(*tag),
		Posts:    ToPostSummaryDTOs(posts),
		Count:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
