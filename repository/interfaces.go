// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/quillhq/inkwell/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// AccountRepository defines operations for accounts
type AccountRepository interface {
	Repository[models.Account, models.AccountFilter]
	ByUsername(ctx context.Context, username string) (*models.Account, error)
	ByEmail(ctx context.Context, email string) (*models.Account, error)
	ByUUID(ctx context.Context, uuid string) (*models.Account, error)
	UpdateLastLogin(ctx context.Context, accountID uint) error
	UpdateNames(ctx context.Context, accountID uint, firstName, lastName *string) error
}

// ProfileRepository defines operations for account profiles
type ProfileRepository interface {
	Repository[models.Profile, models.ProfileFilter]
	ByAccountID(ctx context.Context, accountID uint) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
}

// AccountSessionRepository defines operations for account sessions
type AccountSessionRepository interface {
	Repository[models.AccountSession, models.AccountSessionFilter]
	BySessionToken(ctx context.Context, token string) (*models.AccountSession, error)
	ByRefreshToken(ctx context.Context, token string) (*models.AccountSession, error)
	ExpireSession(ctx context.Context, sessionID uint) error
	ExpireAllAccountSessions(ctx context.Context, accountID uint) error
	CleanupExpiredSessions(ctx context.Context) (int64, error)
}

// PostRepository defines operations for posts, including the composed
// search/filter/sort/page query behind the listing endpoint.
type PostRepository interface {
	Repository[models.Post, models.PostFilter]
	ByIDWithRelations(ctx context.Context, id uint) (*models.Post, error)
	Search(ctx context.Context, query models.PostSearchQuery) ([]*models.Post, int64, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, postID uint) error
	ReplaceTags(ctx context.Context, post *models.Post, tags []*models.Tag) error
	ListByTag(ctx context.Context, tagID uint, orderBy string, limit, offset int) ([]*models.Post, int64, error)
}

// CommentRepository defines operations for comments
type CommentRepository interface {
	Repository[models.Comment, models.CommentFilter]
	ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, int64, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, commentID uint) error
}

// TagRepository defines operations for tags
type TagRepository interface {
	Repository[models.Tag, models.TagFilter]
	ByName(ctx context.Context, name string) (*models.Tag, error)
	BySlug(ctx context.Context, slug string) (*models.Tag, error)
	GetOrCreateByNames(ctx context.Context, names []string) ([]*models.Tag, error)
	ListWithCounts(ctx context.Context, limit, offset int) ([]*models.TagWithCount, error)
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByAccount(ctx context.Context, accountID uint, limit, offset int) ([]*models.AuditLog, error)
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error)
	ListFailedActions(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
}
