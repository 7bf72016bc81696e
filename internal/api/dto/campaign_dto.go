package dto

import (
	"time"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/domain"
)

// CampaignRequest payload for create/update.
type CampaignRequest struct {
	Name               string  `json:"name"`
	BillingRatePerHour float64 `json:"billing_rate_per_hour"`
	IsActive           *bool   `json:"is_active"`
}

// CampaignResponse shape.
type CampaignResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	BillingRatePerHour float64   `json:"billing_rate_per_hour"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewCampaignResponse maps the domain model.
func NewCampaignResponse(campaign *domain.Campaign) CampaignResponse {
	return CampaignResponse{
		ID:                 campaign.ID,
		Name:               campaign.Name,
		BillingRatePerHour: campaign.BillingRatePerHour,
		IsActive:           campaign.IsActive,
		CreatedAt:          campaign.CreatedAt,
		UpdatedAt:          campaign.UpdatedAt,
	}
}
