// Package models contains domain entities and business models for the blog platform
package models

import (
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_accounts_uuid" json:"uuid"`

	Username  string  `gorm:"size:30;not null;uniqueIndex:uk_accounts_username" json:"username"`
	Email     string  `gorm:"size:255;not null;uniqueIndex:uk_accounts_email" json:"email"`
	FirstName *string `gorm:"size:30" json:"first_name,omitempty"`
	LastName  *string `gorm:"size:150" json:"last_name,omitempty"`

	PasswordHash string `gorm:"size:255;not null" json:"-"` // Never serialize password hash

	IsActive *bool `gorm:"default:true;index:idx_accounts_is_active" json:"is_active"`

	CreatedAt   time.Time  `gorm:"default:CURRENT_TIMESTAMP;index:idx_accounts_created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
	LastLoginAt *time.Time `gorm:"index:idx_accounts_last_login_at" json:"last_login_at,omitempty"`

	// Relations
	Profile  *Profile  `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	Posts    []Post    `gorm:"foreignKey:AuthorID" json:"-"`
	Comments []Comment `gorm:"foreignKey:AuthorID" json:"-"`
	Sessions []AccountSession `gorm:"foreignKey:AccountID" json:"-"`
}

func (Account) TableName() string {
	return "accounts"
}

// AccountFilter represents filter criteria for account queries
type AccountFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Username      *string
	Email         *string
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// DisplayName returns the human form of the account: "First Last" when set,
// the username otherwise.
func (a *Account) DisplayName() string {
	if a.FirstName != nil && *a.FirstName != "" {
		name := *a.FirstName
		if a.LastName != nil && *a.LastName != "" {
			name += " " + *a.LastName
		}
		return name
	}
	return a.Username
}
