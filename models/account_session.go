package models

import (
	"time"

	"github.com/quillhq/inkwell/utils"
)

type AccountSession struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	AccountID uint     `gorm:"not null;index:idx_sessions_account_id" json:"account_id"`
	Account   *Account `gorm:"foreignKey:AccountID;references:ID" json:"-"`

	SessionToken string  `gorm:"size:512;not null;uniqueIndex:uk_sessions_session_token" json:"-"` // Never serialize token
	RefreshToken *string `gorm:"size:512;uniqueIndex:uk_sessions_refresh_token" json:"-"`          // Never serialize refresh token

	IPAddress *string `gorm:"size:45;index:idx_sessions_ip_address" json:"ip_address,omitempty"`
	UserAgent *string `gorm:"type:text" json:"user_agent,omitempty"`

	IsActive *bool `gorm:"default:true;index:idx_sessions_is_active" json:"is_active"`

	CreatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	LastAccessedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_sessions_last_accessed" json:"last_accessed_at"`
	ExpiresAt      time.Time `gorm:"not null;index:idx_sessions_expires_at" json:"expires_at"`
}

func (AccountSession) TableName() string {
	return "account_sessions"
}

// AccountSessionFilter represents filter criteria for session queries
type AccountSessionFilter struct {
	ID            *uint
	AccountID     *uint
	IsActive      *bool
	IPAddress     *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	ExpiresAfter  *time.Time
	ExpiresBefore *time.Time
	IsExpired     *bool // Helper to filter expired sessions
}

func (s *AccountSession) IsExpired() bool {
	return utils.IsExpired(s.ExpiresAt)
}

func (s *AccountSession) IsValid() bool {
	return utils.IsTrue(s.IsActive) && !s.IsExpired()
}
