package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/domain"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/repository"
	apperrors "github.com/Kevin-Shelton/inv-timesheet-backend/pkg/util"
)

// CampaignService coordinates campaign administration and membership.
type CampaignService struct {
	campaigns repository.CampaignRepository
	users     repository.UserRepository
}

// NewCampaignService constructs the service.
func NewCampaignService(campaigns repository.CampaignRepository, users repository.UserRepository) *CampaignService {
	return &CampaignService{campaigns: campaigns, users: users}
}

// CampaignInput describes create/update payloads.
type CampaignInput struct {
	Name               string
	BillingRatePerHour float64
	IsActive           *bool
}

// List returns all campaigns.
func (s *CampaignService) List(ctx context.Context) ([]domain.Campaign, error) {
	return s.campaigns.List(ctx)
}

// Get returns one campaign.
func (s *CampaignService) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	campaign, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("campaign", nil)
		}
		return nil, err
	}
	return campaign, nil
}

// Create adds a campaign with a unique name.
func (s *CampaignService) Create(ctx context.Context, input CampaignInput) (*domain.Campaign, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.BillingRatePerHour <= 0 {
		return nil, apperrors.NewValidationError("name and billing_rate_per_hour are required", nil)
	}

	if _, err := s.campaigns.GetByName(ctx, name); err == nil {
		return nil, apperrors.NewConflict("Campaign name already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	campaign := &domain.Campaign{
		Name:               name,
		BillingRatePerHour: input.BillingRatePerHour,
		IsActive:           true,
	}
	if err := s.campaigns.Create(ctx, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// Update modifies a campaign.
func (s *CampaignService) Update(ctx context.Context, id string, input CampaignInput) (*domain.Campaign, error) {
	campaign, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" && name != campaign.Name {
		if _, err := s.campaigns.GetByName(ctx, name); err == nil {
			return nil, apperrors.NewConflict("Campaign name already exists", nil)
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		campaign.Name = name
	}
	if input.BillingRatePerHour > 0 {
		campaign.BillingRatePerHour = input.BillingRatePerHour
	}
	if input.IsActive != nil {
		campaign.IsActive = *input.IsActive
	}

	if err := s.campaigns.Update(ctx, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// Delete removes a campaign.
func (s *CampaignService) Delete(ctx context.Context, id string) error {
	if err := s.campaigns.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("campaign", nil)
		}
		return err
	}
	return nil
}

// Members lists the users assigned to a campaign.
func (s *CampaignService) Members(ctx context.Context, id string) ([]domain.User, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.users.ListWithFilter(ctx, repository.UserFilter{CampaignID: &id})
}

// AssignMember moves a user into a campaign. Assigning a user to the
// campaign they already belong to is a conflict.
func (s *CampaignService) AssignMember(ctx context.Context, campaignID, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user_id is required", nil)
	}
	if _, err := s.Get(ctx, campaignID); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	if user.CampaignID != nil && *user.CampaignID == campaignID {
		return nil, apperrors.NewConflict("User already assigned to this campaign", nil)
	}

	user.CampaignID = &campaignID
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
