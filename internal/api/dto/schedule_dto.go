package dto

import (
	"time"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/domain"
)

// ScheduleRequest payload for create/update.
type ScheduleRequest struct {
	CampaignID                string `json:"campaign_id"`
	Name                      string `json:"name"`
	WorkStartTime             string `json:"work_start_time"`
	WorkEndTime               string `json:"work_end_time"`
	LunchDurationMinutes      *int   `json:"lunch_duration_minutes"`
	ShortBreakDurationMinutes *int   `json:"short_break_duration_minutes"`
}

// ScheduleResponse shape.
type ScheduleResponse struct {
	ID                        string    `json:"id"`
	CampaignID                string    `json:"campaign_id"`
	Name                      string    `json:"name"`
	WorkStartTime             string    `json:"work_start_time"`
	WorkEndTime               string    `json:"work_end_time"`
	LunchDurationMinutes      int       `json:"lunch_duration_minutes"`
	ShortBreakDurationMinutes int       `json:"short_break_duration_minutes"`
	CreatedAt                 time.Time `json:"created_at"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

// NewScheduleResponse maps the domain model.
func NewScheduleResponse(schedule *domain.Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:                        schedule.ID,
		CampaignID:                schedule.CampaignID,
		Name:                      schedule.Name,
		WorkStartTime:             schedule.WorkStartTime,
		WorkEndTime:               schedule.WorkEndTime,
		LunchDurationMinutes:      schedule.LunchDurationMinutes,
		ShortBreakDurationMinutes: schedule.ShortBreakDurationMinutes,
		CreatedAt:                 schedule.CreatedAt,
		UpdatedAt:                 schedule.UpdatedAt,
	}
}
