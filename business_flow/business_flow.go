// Package businessflow contains the business logic for the blog platform.
package businessflow

import (
	"github.com/quillhq/inkwell/app/dto"
	"github.com/quillhq/inkwell/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds client-related information for audit logging and session tracking
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	SessionID  string            `json:"session_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// SetSessionID sets the session ID
func (cm *ClientMetadata) SetSessionID(sessionID string) {
	cm.SessionID = sessionID
}

// ToAccountDTO converts an account model to AccountDTO for API responses
func ToAccountDTO(account models.Account) dto.AccountDTO {
	return dto.AccountDTO{
		ID:          account.ID,
		UUID:        account.UUID.String(),
		Username:    account.Username,
		Email:       account.Email,
		FirstName:   account.FirstName,
		LastName:    account.LastName,
		IsActive:    account.IsActive,
		CreatedAt:   account.CreatedAt,
		LastLoginAt: account.LastLoginAt,
	}
}

// ToAuthorDTO converts an account model to the compact author representation
func ToAuthorDTO(account *models.Account) dto.AuthorDTO {
	if account == nil {
		return dto.AuthorDTO{}
	}
	return dto.AuthorDTO{
		ID:       account.ID,
		Username: account.Username,
	}
}

// ToProfileDTO converts a profile model (with its account) to ProfileDTO
func ToProfileDTO(profile models.Profile, account models.Account) dto.ProfileDTO {
	avatarURL := ""
	if profile.AvatarURL != nil {
		avatarURL = *profile.AvatarURL
	}
	return dto.ProfileDTO{
		AccountID: account.ID,
		Username:  account.Username,
		Bio:       profile.Bio,
		Location:  profile.Location,
		Website:   profile.Website,
		AvatarURL: avatarURL,
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.UpdatedAt,
	}
}

// ToTagDTO converts a tag model to TagDTO
func ToTagDTO(tag models.Tag) dto.TagDTO {
	return dto.TagDTO{
		ID:   tag.ID,
		Name: tag.Name,
		Slug: tag.Slug,
	}
}

// ToTagDTOs converts a slice of tag models to TagDTOs, never returning nil
func ToTagDTOs(tags []models.Tag) []dto.TagDTO {
	out := make([]dto.TagDTO, 0, len(tags))
	for _, tag := range tags {
		out = append(out, ToTagDTO(tag))
	}
	return out
}

// ToPostDTO converts a post model to the full PostDTO. contentHTML may be
// empty when the caller does not render markdown.
func ToPostDTO(post models.Post, contentHTML string) dto.PostDTO {
	return dto.PostDTO{
		ID:          post.ID,
		UUID:        post.UUID.String(),
		Title:       post.Title,
		Content:     post.Content,
		ContentHTML: contentHTML,
		Author:      ToAuthorDTO(post.Author),
		Tags:        ToTagDTOs(post.Tags),
		PublishedAt: post.PublishedAt,
		UpdatedAt:   post.UpdatedAt,
	}
}

// ToPostSummaryDTO converts a post model to the compact list representation
func ToPostSummaryDTO(post models.Post) dto.PostSummaryDTO {
	return dto.PostSummaryDTO{
		ID:          post.ID,
		UUID:        post.UUID.String(),
		Title:       post.Title,
		Author:      ToAuthorDTO(post.Author),
		Tags:        ToTagDTOs(post.Tags),
		PublishedAt: post.PublishedAt,
		UpdatedAt:   post.UpdatedAt,
	}
}

// ToPostSummaryDTOs converts post models to list representations, never returning nil
func ToPostSummaryDTOs(posts []*models.Post) []dto.PostSummaryDTO {
	out := make([]dto.PostSummaryDTO, 0, len(posts))
	for _, post := range posts {
		out = append(out, ToPostSummaryDTO(*post))
	}
	return out
}

// ToCommentDTO converts a comment model to CommentDTO
func ToCommentDTO(comment models.Comment, contentHTML string) dto.CommentDTO {
	return dto.CommentDTO{
		ID:          comment.ID,
		PostID:      comment.PostID,
		Author:      ToAuthorDTO(comment.Author),
		Content:     comment.Content,
		ContentHTML: contentHTML,
		CreatedAt:   comment.CreatedAt,
		UpdatedAt:   comment.UpdatedAt,
	}
}
