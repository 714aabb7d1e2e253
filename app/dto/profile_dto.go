package dto

import "time"

// ProfileDTO represents a public profile for API responses
type ProfileDTO struct {
	AccountID uint      `json:"account_id"`
	Username  string    `json:"username"`
	Bio       string    `json:"bio"`
	Location  string    `json:"location"`
	Website   string    `json:"website"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateProfileRequest represents the profile update payload.
// Nil fields keep their current value.
type UpdateProfileRequest struct {
	Bio       *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Location  *string `json:"location,omitempty" validate:"omitempty,max=100"`
	Website   *string `json:"website,omitempty" validate:"omitempty,max=200,url"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,max=500,url"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=150"`
}
