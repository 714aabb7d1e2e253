package businessflow

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/quillhq/inkwell/app/dto"
	"github.com/quillhq/inkwell/app/services"
	"github.com/quillhq/inkwell/models"
	"github.com/quillhq/inkwell/repository"
	"github.com/quillhq/inkwell/utils"
	"gorm.io/gorm"
)

// CommentFlow handles comment operations
type CommentFlow interface {
	CreateComment(ctx context.Context, accountID, postID uint, request *dto.CreateCommentRequest, metadata *ClientMetadata) (*dto.CommentDTO, error)
	ListComments(ctx context.Context, postID uint, page, pageSize int) ([]dto.CommentDTO, int64, error)
	UpdateComment(ctx context.Context, accountID, commentID uint, request *dto.UpdateCommentRequest, metadata *ClientMetadata) (*dto.CommentDTO, error)
	DeleteComment(ctx context.Context, accountID, commentID uint, metadata *ClientMetadata) error
}

// CommentFlowImpl implements the comment business flow
type CommentFlowImpl struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	accountRepo repository.AccountRepository
	auditRepo   repository.AuditLogRepository
	markdownSvc services.MarkdownService
	db          *gorm.DB
}

// NewCommentFlow creates a new comment flow instance
func NewCommentFlow(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	accountRepo repository.AccountRepository,
	auditRepo repository.AuditLogRepository,
	markdownSvc services.MarkdownService,
	db *gorm.DB,
) CommentFlow {
	return &CommentFlowImpl{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
		markdownSvc: markdownSvc,
		db:          db,
	}
}

// CreateComment attaches a comment to an existing post
func (cf *CommentFlowImpl) CreateComment(ctx context.Context, accountID, postID uint, request *dto.CreateCommentRequest, metadata *ClientMetadata) (*dto.CommentDTO, error) {
	content, err := validateCommentContent(request.Content)
	if err != nil {
		return nil, NewBusinessError("COMMENT_VALIDATION_FAILED", "Comment validation failed", err)
	}

	var account *models.Account
	var comment *models.Comment

	err = repository.WithTransaction(ctx, cf.db, func(ctx context.Context) error {
		var err error
		account, err = cf.accountRepo.ByID(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return ErrAccountNotFound
		}

		post, err := cf.postRepo.ByID(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrPostNotFound
		}

		comment = &models.Comment{
			PostID:    postID,
			AuthorID:  accountID,
			Content:   content,
			CreatedAt: utils.UTCNow(),
			UpdatedAt: utils.UTCNow(),
		}

		return cf.commentRepo.Save(ctx, comment)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Comment creation failed: %s", err.Error())
		_ = LogAuditEvent(ctx, cf.auditRepo, account, models.AuditActionCommentCreated, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("COMMENT_CREATION_FAILED", "Comment creation failed", err)
	}

	msg := fmt.Sprintf("Comment created: %d", comment.ID)
	_ = LogAuditEvent(ctx, cf.auditRepo, account, models.AuditActionCommentCreated, msg, true, nil, metadata)

	comment.Author = account
	return cf.toCommentDTO(comment)
}

// ListComments returns one page of a post's comments, newest first
func (cf *CommentFlowImpl) ListComments(ctx context.Context, postID uint, page, pageSize int) ([]dto.CommentDTO, int64, error) {
	post, err := cf.postRepo.ByID(ctx, postID)
	if err != nil {
		return nil, 0, NewBusinessError("LIST_COMMENTS_FAILED", "Failed to list comments", err)
	}
	if post == nil {
		return nil, 0, NewBusinessError("POST_NOT_FOUND", "Post not found", ErrPostNotFound)
	}

	page, pageSize = NormalizePagination(page, pageSize)
	offset := (page - 1) * pageSize

	comments, total, err := cf.commentRepo.ListByPost(ctx, postID, pageSize, offset)
	if err != nil {
		return nil, 0, NewBusinessError("LIST_COMMENTS_FAILED", "Failed to list comments", err)
	}

	out := make([]dto.CommentDTO, 0, len(comments))
	for _, comment := range comments {
		dtoComment, err := cf.toCommentDTO(comment)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *dtoComment)
	}

	return out, total, nil
}

// UpdateComment rewrites the content of an owned comment
func (cf *CommentFlowImpl) UpdateComment(ctx context.Context, accountID, commentID uint, request *dto.UpdateCommentRequest, metadata *ClientMetadata) (*dto.CommentDTO, error) {
	content, err := validateCommentContent(request.Content)
	if err != nil {
		return nil, NewBusinessError("COMMENT_VALIDATION_FAILED", "Comment validation failed", err)
	}

	var account *models.Account
	var comment *models.Comment

	err = repository.WithTransaction(ctx, cf.db, func(ctx context.Context) error {
		var err error
		account, err = cf.accountRepo.ByID(ctx, accountID)
		if err != nil {
			return err
		}

		comment, err = cf.commentRepo.ByID(ctx, commentID)
		if err != nil {
			return err
		}
		if comment == nil {
			return ErrCommentNotFound
		}
		if comment.AuthorID != accountID {
			return ErrNotCommentOwner
		}

		comment.Content = content
		comment.UpdatedAt = utils.UTCNow()

		return cf.commentRepo.Update(ctx, comment)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Comment update failed: %s", err.Error())
		_ = LogAuditEvent(ctx, cf.auditRepo, account, models.AuditActionCommentUpdated, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("COMMENT_UPDATE_FAILED", "Comment update failed", err)
	}

	msg := fmt.Sprintf("Comment updated: %d", comment.ID)
	_ = LogAuditEvent(ctx, cf.auditRepo, account, models.AuditActionCommentUpdated, msg, true, nil, metadata)

	comment.Author = account
	return cf.toCommentDTO(comment)
}

// DeleteComment hard-deletes an owned comment
func (cf *CommentFlowImpl) DeleteComment(ctx context.Context, accountID, commentID uint, metadata *ClientMetadata) error {
	var account *models.Account

	err := repository.WithTransaction(ctx, cf.db, func(ctx context.Context) error {
		var err error
		account, err = cf.accountRepo.ByID(ctx, accountID)
		if err != nil {
			return err
		}

		comment, err := cf.commentRepo.ByID(ctx, commentID)
		if err != nil {
			return err
		}
		if comment == nil {
			return ErrCommentNotFound
		}
		if comment.AuthorID != accountID {
			return ErrNotCommentOwner
		}

		return cf.commentRepo.Delete(ctx, commentID)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Comment deletion failed: %s", err.Error())
		_ = LogAuditEvent(ctx, cf.auditRepo, account, models.AuditActionCommentDeleted, errMsg, false, &errMsg, metadata)

		return NewBusinessError("COMMENT_DELETION_FAILED", "Comment deletion failed", err)
	}

	msg := fmt.Sprintf("Comment deleted: %d", commentID)
	_ = LogAuditEvent(ctx, cf.auditRepo, account, models.AuditActionCommentDeleted, msg, true, nil, metadata)

	return nil
}

// validateCommentContent trims the comment body and enforces the length
// bounds on the trimmed value, counted in runes.
func validateCommentContent(raw string) (string, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return "", ErrCommentContentRequired
	}

	length := utf8.RuneCountInString(content)
	if length < utils.MinCommentLength || length > utils.MaxCommentLength {
		return "", ErrInvalidCommentContent
	}

	return content, nil
}

func (cf *CommentFlowImpl) toCommentDTO(comment *models.Comment) (*dto.CommentDTO, error) {
	contentHTML, err := cf.markdownSvc.Render(comment.Content)
	if err != nil {
		return nil, NewBusinessError("COMMENT_RENDER_FAILED", "Failed to render comment content", err)
	}

	result := ToCommentDTO(*comment, contentHTML)
	return &result, nil
}
