package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/auth"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/domain"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/repository"
	apperrors "github.com/Kevin-Shelton/inv-timesheet-backend/pkg/util"
)

// ScheduleService coordinates schedule administration.
type ScheduleService struct {
	schedules repository.ScheduleRepository
	campaigns repository.CampaignRepository
}

// NewScheduleService constructs the service.
func NewScheduleService(schedules repository.ScheduleRepository, campaigns repository.CampaignRepository) *ScheduleService {
	return &ScheduleService{schedules: schedules, campaigns: campaigns}
}

// ScheduleInput describes create/update payloads.
type ScheduleInput struct {
	CampaignID                string
	Name                      string
	WorkStartTime             string
	WorkEndTime               string
	LunchDurationMinutes      *int
	ShortBreakDurationMinutes *int
}

// List returns schedules visible to the caller. Non-admins only see their
// own campaign's schedules.
func (s *ScheduleService) List(ctx context.Context, identity *auth.Identity, campaignID *string) ([]domain.Schedule, error) {
	if !identity.IsAdmin() {
		campaignID = identity.CampaignID
		if campaignID == nil {
			return []domain.Schedule{}, nil
		}
	}
	return s.schedules.ListByCampaign(ctx, campaignID)
}

// Get returns one schedule, scoped like List.
func (s *ScheduleService) Get(ctx context.Context, identity *auth.Identity, id string) (*domain.Schedule, error) {
	schedule, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("schedule", nil)
		}
		return nil, err
	}
	if !identity.IsAdmin() {
		if identity.CampaignID == nil || *identity.CampaignID != schedule.CampaignID {
			return nil, apperrors.NewForbidden("Access denied")
		}
	}
	return schedule, nil
}

// Create adds a schedule for an existing campaign. Names are unique per
// campaign.
func (s *ScheduleService) Create(ctx context.Context, input ScheduleInput) (*domain.Schedule, error) {
	name := strings.TrimSpace(input.Name)
	if input.CampaignID == "" || name == "" || input.WorkStartTime == "" || input.WorkEndTime == "" {
		return nil, apperrors.NewValidationError("campaign_id, name, work_start_time and work_end_time are required", nil)
	}

	if _, err := s.campaigns.GetByID(ctx, input.CampaignID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("campaign", nil)
		}
		return nil, err
	}

	if _, err := s.schedules.GetByCampaignAndName(ctx, input.CampaignID, name); err == nil {
		return nil, apperrors.NewConflict("Schedule name already exists for this campaign", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	schedule := &domain.Schedule{
		CampaignID:                input.CampaignID,
		Name:                      name,
		WorkStartTime:             input.WorkStartTime,
		WorkEndTime:               input.WorkEndTime,
		LunchDurationMinutes:      60,
		ShortBreakDurationMinutes: 15,
	}
	if input.LunchDurationMinutes != nil {
		schedule.LunchDurationMinutes = *input.LunchDurationMinutes
	}
	if input.ShortBreakDurationMinutes != nil {
		schedule.ShortBreakDurationMinutes = *input.ShortBreakDurationMinutes
	}

	if err := s.schedules.Create(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

// Update modifies a schedule.
func (s *ScheduleService) Update(ctx context.Context, id string, input ScheduleInput) (*domain.Schedule, error) {
	schedule, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("schedule", nil)
		}
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		schedule.Name = name
	}
	if input.WorkStartTime != "" {
		schedule.WorkStartTime = input.WorkStartTime
	}
	if input.WorkEndTime != "" {
		schedule.WorkEndTime = input.WorkEndTime
	}
	if input.LunchDurationMinutes != nil {
		schedule.LunchDurationMinutes = *input.LunchDurationMinutes
	}
	if input.ShortBreakDurationMinutes != nil {
		schedule.ShortBreakDurationMinutes = *input.ShortBreakDurationMinutes
	}

	if err := s.schedules.Update(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

// Delete removes a schedule.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if err := s.schedules.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("schedule", nil)
		}
		return err
	}
	return nil
}
