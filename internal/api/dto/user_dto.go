package dto

import "github.com/Kevin-Shelton/inv-timesheet-backend/internal/domain"

// CreateUserRequest payload (admin only).
type CreateUserRequest struct {
	Email          string      `json:"email"`
	Password       string      `json:"password"`
	FullName       string      `json:"full_name"`
	Role           domain.Role `json:"role"`
	CampaignID     *string     `json:"campaign_id"`
	PayRatePerHour float64     `json:"pay_rate_per_hour"`
}

// UpdateUserRequest payload. Absent fields are untouched.
type UpdateUserRequest struct {
	Email          *string      `json:"email"`
	FullName       *string      `json:"full_name"`
	Role           *domain.Role `json:"role"`
	CampaignID     *string      `json:"campaign_id"`
	PayRatePerHour *float64     `json:"pay_rate_per_hour"`
	IsActive       *bool        `json:"is_active"`
}
