package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/quillhq/inkwell/app/dto"
	"github.com/quillhq/inkwell/app/services"
	"github.com/quillhq/inkwell/models"
	"github.com/quillhq/inkwell/repository"
	"github.com/quillhq/inkwell/utils"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// PostFlow handles post authoring operations
type PostFlow interface {
	CreatePost(ctx context.Context, accountID uint, request *dto.CreatePostRequest, metadata *ClientMetadata) (*dto.PostDTO, error)
	GetPost(ctx context.Context, postID uint) (*dto.PostDTO, error)
	UpdatePost(ctx context.Context, accountID, postID uint, request *dto.UpdatePostRequest, metadata *ClientMetadata) (*dto.PostDTO, error)
	DeletePost(ctx context.Context, accountID, postID uint, metadata *ClientMetadata) error
}

// PostFlowImpl implements the post business flow
type PostFlowImpl struct {
	postRepo    repository.PostRepository
	tagRepo     repository.TagRepository
	accountRepo repository.AccountRepository
	auditRepo   repository.AuditLogRepository
	markdownSvc services.MarkdownService
	rc          *redis.Client
	db          *gorm.DB
}

// NewPostFlow creates a new post flow instance
func NewPostFlow(
	postRepo repository.PostRepository,
	tagRepo repository.TagRepository,
	accountRepo repository.AccountRepository,
	auditRepo repository.AuditLogRepository,
	markdownSvc services.MarkdownService,
	rc *redis.Client,
	db *gorm.DB,
) PostFlow {
	return &PostFlowImpl{
		postRepo:    postRepo,
		tagRepo:     tagRepo,
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
		markdownSvc: markdownSvc,
		rc:          rc,
		db:          db,
	}
}

// CreatePost creates a post and attaches its tags. Tags are get-or-created
// by normalized name inside the same transaction as the post itself.
func (pf *PostFlowImpl) CreatePost(ctx context.Context, accountID uint, request *dto.CreatePostRequest, metadata *ClientMetadata) (*dto.PostDTO, error) {
	title := strings.TrimSpace(request.Title)
	if err := validatePostFields(title, request.Content); err != nil {
		return nil, NewBusinessError("POST_VALIDATION_FAILED", "Post validation failed", err)
	}
	if err := validateTagNames(request.Tags); err != nil {
		return nil, NewBusinessError("POST_VALIDATION_FAILED", "Post validation failed", err)
	}

	var account *models.Account
	var post *models.Post

	err := repository.WithTransaction(ctx, pf.db, func(ctx context.Context) error {
		var err error
		account, err = pf.accountRepo.ByID(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return ErrAccountNotFound
		}

		post = &models.Post{
			UUID:        uuid.New(),
			Title:       title,
			Content:     request.Content,
			AuthorID:    accountID,
			PublishedAt: utils.UTCNow(),
			UpdatedAt:   utils.UTCNow(),
		}

		if err := pf.postRepo.Save(ctx, post); err != nil {
			return err
		}

		if len(request.Tags) > 0 {
			tags, err := pf.tagRepo.GetOrCreateByNames(ctx, request.Tags)
			if err != nil {
				return err
			}
			if err := pf.postRepo.ReplaceTags(ctx, post, tags); err != nil {
				return err
			}
		}

		post, err = pf.postRepo.ByIDWithRelations(ctx, post.ID)
		return err
	})

	if err != nil {
		errMsg := fmt.Sprintf("Post creation failed: %s", err.Error())
		_ = LogAuditEvent(ctx, pf.auditRepo, account, models.AuditActionPostCreated, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("POST_CREATION_FAILED", "Post creation failed", err)
	}

	msg := fmt.Sprintf("Post created: %d", post.ID)
	_ = LogAuditEvent(ctx, pf.auditRepo, account, models.AuditActionPostCreated, msg, true, nil, metadata)

	pf.invalidateCache(ctx, post.ID)

	return pf.toPostDTO(post)
}

// GetPost returns a single post with author, tags and rendered content. The
// detail is served cache-aside from Redis, so a just-edited post may be stale
// for readers on another instance for up to the TTL after a failed invalidation.
func (pf *PostFlowImpl) GetPost(ctx context.Context, postID uint) (*dto.PostDTO, error) {
	if pf.rc != nil {
		if bs, err := pf.rc.Get(ctx, postCacheKey(postID)).Bytes(); err == nil && len(bs) > 0 {
			var cached dto.PostDTO
			if err := json.Unmarshal(bs, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	post, err := pf.postRepo.ByIDWithRelations(ctx, postID)
	if err != nil {
		return nil, NewBusinessError("GET_POST_FAILED", "Failed to get post", err)
	}
	if post == nil {
		return nil, NewBusinessError("POST_NOT_FOUND", "Post not found", ErrPostNotFound)
	}

	result, err := pf.toPostDTO(post)
	if err != nil {
		return nil, err
	}

	if pf.rc != nil {
		if bs, err := json.Marshal(result); err == nil {
			_ = pf.rc.Set(ctx, postCacheKey(postID), bs, utils.PostCacheTTL).Err()
		}
	}

	return result, nil
}

// UpdatePost rewrites the title and content of an owned post. A non-nil Tags
// slice replaces the full tag set; nil leaves tags untouched.
func (pf *PostFlowImpl) UpdatePost(ctx context.Context, accountID, postID uint, request *dto.UpdatePostRequest, metadata *ClientMetadata) (*dto.PostDTO, error) {
	title := strings.TrimSpace(request.Title)
	if err := validatePostFields(title, request.Content); err != nil {
		return nil, NewBusinessError("POST_VALIDATION_FAILED", "Post validation failed", err)
	}
	if request.Tags != nil {
		if err := validateTagNames(*request.Tags); err != nil {
			return nil, NewBusinessError("POST_VALIDATION_FAILED", "Post validation failed", err)
		}
	}

	var account *models.Account
	var post *models.Post

	err := repository.WithTransaction(ctx, pf.db, func(ctx context.Context) error {
		var err error
		account, err = pf.accountRepo.ByID(ctx, accountID)
		if err != nil {
			return err
		}

		post, err = pf.postRepo.ByID(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrPostNotFound
		}
		if post.AuthorID != accountID {
			return ErrNotPostOwner
		}

		post.Title = title
		post.Content = request.Content
		post.UpdatedAt = utils.UTCNow()

		if err := pf.postRepo.Update(ctx, post); err != nil {
			return err
		}

		if request.Tags != nil {
			tags, err := pf.tagRepo.GetOrCreateByNames(ctx, *request.Tags)
			if err != nil {
				return err
			}
			if err := pf.postRepo.ReplaceTags(ctx, post, tags); err != nil {
				return err
			}
		}

		post, err = pf.postRepo.ByIDWithRelations(ctx, post.ID)
		return err
	})

	if err != nil {
		errMsg := fmt.Sprintf("Post update failed: %s", err.Error())
		_ = LogAuditEvent(ctx, pf.auditRepo, account, models.AuditActionPostUpdated, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("POST_UPDATE_FAILED", "Post update failed", err)
	}

	msg := fmt.Sprintf("Post updated: %d", post.ID)
	_ = LogAuditEvent(ctx, pf.auditRepo, account, models.AuditActionPostUpdated, msg, true, nil, metadata)

	pf.invalidateCache(ctx, post.ID)

	return pf.toPostDTO(post)
}

// DeletePost hard-deletes an owned post together with its comments and tag
// associations. The tags themselves survive even when orphaned.
func (pf *PostFlowImpl) DeletePost(ctx context.Context, accountID, postID uint, metadata *ClientMetadata) error {
	var account *models.Account

	err := repository.WithTransaction(ctx, pf.db, func(ctx context.Context) error {
		var err error
		account, err = pf.accountRepo.ByID(ctx, accountID)
		if err != nil {
			return err
		}

		post, err := pf.postRepo.ByID(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrPostNotFound
		}
		if post.AuthorID != accountID {
			return ErrNotPostOwner
		}

		return pf.postRepo.Delete(ctx, postID)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Post deletion failed: %s", err.Error())
		_ = LogAuditEvent(ctx, pf.auditRepo, account, models.AuditActionPostDeleted, errMsg, false, &errMsg, metadata)

		return NewBusinessError("POST_DELETION_FAILED", "Post deletion failed", err)
	}

	msg := fmt.Sprintf("Post deleted: %d", postID)
	_ = LogAuditEvent(ctx, pf.auditRepo, account, models.AuditActionPostDeleted, msg, true, nil, metadata)

	pf.invalidateCache(ctx, postID)

	return nil
}

// invalidateCache drops the cached detail for one post plus the tag list,
// whose counts change with any post mutation. Failures are ignored; stale
// entries expire on their own.
func (pf *PostFlowImpl) invalidateCache(ctx context.Context, postID uint) {
	if pf.rc == nil {
		return
	}
	_ = pf.rc.Del(ctx, postCacheKey(postID), utils.CacheKeyTagList).Err()
}

func postCacheKey(postID uint) string {
	return fmt.Sprintf("%s%d", utils.CacheKeyPostPrefix, postID)
}

func (pf *PostFlowImpl) toPostDTO(post *models.Post) (*dto.PostDTO, error) {
	contentHTML, err := pf.markdownSvc.Render(post.Content)
	if err != nil {
		return nil, NewBusinessError("POST_RENDER_FAILED", "Failed to render post content", err)
	}

	result := ToPostDTO(*post, contentHTML)
	return &result, nil
}

// validatePostFields enforces the title and content length bounds on the
// values actually stored, after trimming. Lengths are counted in runes.
func validatePostFields(title, content string) error {
	titleLen := utf8.RuneCountInString(title)
	if titleLen < utils.MinTitleLength || titleLen > utils.MaxTitleLength {
		return ErrInvalidTitle
	}
	if utf8.RuneCountInString(content) < utils.MinPostContentLength {
		return ErrInvalidPostContent
	}
	return nil
}

// validateTagNames enforces the tag count bound and per-name length and
// charset rules before any tag row is created.
func validateTagNames(names []string) error {
	if len(names) > utils.MaxTagsPerPost {
		return ErrTooManyTags
	}

	for _, name := range names {
		normalized := utils.NormalizeTagName(name)
		length := utf8.RuneCountInString(normalized)
		if length < utils.MinTagNameLength || length > utils.MaxTagNameLength {
			return fmt.Errorf("%w: %q", ErrInvalidTagName, name)
		}
		if !utils.IsValidTagName(normalized) {
			return fmt.Errorf("%w: %q", ErrInvalidTagName, name)
		}
	}

	return nil
}
