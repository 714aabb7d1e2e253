// Package businessflow contains the core business logic and use cases for the blog platform
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Account-related errors
	ErrAccountNotFound       = errors.New("account not found")
	ErrAccountInactive       = errors.New("account is inactive")
	ErrIncorrectPassword     = errors.New("incorrect password")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrProfileNotFound       = errors.New("profile not found")

	// Session-related errors
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionExpired      = errors.New("session has expired")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// Post-related errors
	ErrPostNotFound        = errors.New("post not found")
	ErrNotPostOwner        = errors.New("post belongs to another account")
	ErrPostTitleRequired   = errors.New("post title is required")
	ErrPostContentRequired = errors.New("post content is required")
	ErrInvalidTitle        = errors.New("title must be between 3 and 200 characters")
	ErrInvalidPostContent  = errors.New("content must be at least 10 characters")

	// Comment-related errors
	ErrCommentNotFound        = errors.New("comment not found")
	ErrNotCommentOwner        = errors.New("comment belongs to another account")
	ErrCommentContentRequired = errors.New("comment content is required")
	ErrInvalidCommentContent  = errors.New("comment must be between 3 and 5000 characters")

	// Tag-related errors
	ErrTagNotFound    = errors.New("tag not found")
	ErrTooManyTags    = errors.New("too many tags")
	ErrInvalidTagName = errors.New("invalid tag name")

	// Listing and filter errors
	ErrInvalidFilterValue = errors.New("invalid filter value")
	ErrInvalidSearchQuery = errors.New("search query must be between 2 and 200 characters")
	ErrInvalidPage        = errors.New("page must be at least 1")
	ErrInvalidPageSize    = errors.New("page size must be between 1 and 100")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsAccountNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsUsernameAlreadyExists(err error) bool {
	return errors.Is(err, ErrUsernameAlreadyExists)
}

func IsProfileNotFound(err error) bool {
	return errors.Is(err, ErrProfileNotFound)
}

func IsSessionNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound)
}

func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

func IsInvalidRefreshToken(err error) bool {
	return errors.Is(err, ErrInvalidRefreshToken)
}

func IsPostNotFound(err error) bool {
	return errors.Is(err, ErrPostNotFound)
}

func IsNotPostOwner(err error) bool {
	return errors.Is(err, ErrNotPostOwner)
}

func IsInvalidTitle(err error) bool {
	return errors.Is(err, ErrInvalidTitle)
}

func IsInvalidPostContent(err error) bool {
	return errors.Is(err, ErrInvalidPostContent)
}

func IsCommentNotFound(err error) bool {
	return errors.Is(err, ErrCommentNotFound)
}

func IsNotCommentOwner(err error) bool {
	return errors.Is(err, ErrNotCommentOwner)
}

func IsInvalidCommentContent(err error) bool {
	return errors.Is(err, ErrInvalidCommentContent) || errors.Is(err, ErrCommentContentRequired)
}

func IsTagNotFound(err error) bool {
	return errors.Is(err, ErrTagNotFound)
}

func IsTooManyTags(err error) bool {
	return errors.Is(err, ErrTooManyTags)
}

func IsInvalidTagName(err error) bool {
	return errors.Is(err, ErrInvalidTagName)
}

func IsInvalidFilterValue(err error) bool {
	return errors.Is(err, ErrInvalidFilterValue)
}

func IsInvalidSearchQuery(err error) bool {
	return errors.Is(err, ErrInvalidSearchQuery)
}
