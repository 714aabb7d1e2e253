package models

import "time"

// Profile holds the extended, user-editable half of an account. Every account
// has exactly one profile; it is created inside the same transaction as the
// account itself, so no account can be observed without one.
type Profile struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	AccountID uint     `gorm:"not null;uniqueIndex:uk_profiles_account_id" json:"account_id"`
	Account   *Account `gorm:"foreignKey:AccountID;references:ID" json:"-"`

	Bio       string  `gorm:"size:500;not null;default:''" json:"bio"`
	Location  string  `gorm:"size:100;not null;default:''" json:"location"`
	Website   string  `gorm:"size:255;not null;default:''" json:"website"`
	AvatarURL *string `gorm:"size:255" json:"avatar_url,omitempty"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// ProfileFilter represents filter criteria for profile queries
type ProfileFilter struct {
	ID        *uint
	AccountID *uint
	Location  *string
}
