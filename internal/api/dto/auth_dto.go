package dto

import (
	"time"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse returns the token and caller profile.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UserResponse is the safe user shape (no password hash).
type UserResponse struct {
	ID             string      `json:"id"`
	Email          string      `json:"email"`
	FullName       string      `json:"full_name"`
	Role           domain.Role `json:"role"`
	CampaignID     *string     `json:"campaign_id"`
	PayRatePerHour float64     `json:"pay_rate_per_hour"`
	IsActive       bool        `json:"is_active"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// NewUserResponse maps the domain model.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		Email:          user.Email,
		FullName:       user.FullName,
		Role:           user.Role,
		CampaignID:     user.CampaignID,
		PayRatePerHour: user.PayRatePerHour,
		IsActive:       user.IsActive,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}
