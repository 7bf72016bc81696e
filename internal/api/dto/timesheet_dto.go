package dto

import (
	"time"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/domain"
)

// CreateTimesheetRequest payload. user_id/campaign_id are ignored for team
// members (their token pins both).
type CreateTimesheetRequest struct {
	UserID       string               `json:"user_id"`
	CampaignID   string               `json:"campaign_id"`
	Date         string               `json:"date"`
	TimeIn       *time.Time           `json:"time_in"`
	TimeOut      *time.Time           `json:"time_out"`
	LunchStart   *time.Time           `json:"lunch_start"`
	LunchEnd     *time.Time           `json:"lunch_end"`
	Break1Start  *time.Time           `json:"break1_start"`
	Break1End    *time.Time           `json:"break1_end"`
	Break2Start  *time.Time           `json:"break2_start"`
	Break2End    *time.Time           `json:"break2_end"`
	VacationType *domain.VacationType `json:"vacation_type"`
}

// UpdateTimesheetRequest payload. Absent fields are untouched.
type UpdateTimesheetRequest struct {
	TimeIn       *time.Time           `json:"time_in"`
	TimeOut      *time.Time           `json:"time_out"`
	LunchStart   *time.Time           `json:"lunch_start"`
	LunchEnd     *time.Time           `json:"lunch_end"`
	Break1Start  *time.Time           `json:"break1_start"`
	Break1End    *time.Time           `json:"break1_end"`
	Break2Start  *time.Time           `json:"break2_start"`
	Break2End    *time.Time           `json:"break2_end"`
	VacationType *domain.VacationType `json:"vacation_type"`
}

// DecisionRequest carries the approve/reject comment.
type DecisionRequest struct {
	Comments *string `json:"comments"`
}

// TimesheetResponse shape.
type TimesheetResponse struct {
	ID                string                 `json:"id"`
	UserID            string                 `json:"user_id"`
	CampaignID        string                 `json:"campaign_id"`
	Date              string                 `json:"date"`
	TimeIn            *time.Time             `json:"time_in"`
	TimeOut           *time.Time             `json:"time_out"`
	LunchStart        *time.Time             `json:"lunch_start"`
	LunchEnd          *time.Time             `json:"lunch_end"`
	Break1Start       *time.Time             `json:"break1_start"`
	Break1End         *time.Time             `json:"break1_end"`
	Break2Start       *time.Time             `json:"break2_start"`
	Break2End         *time.Time             `json:"break2_end"`
	VacationType      domain.VacationType    `json:"vacation_type"`
	Status            domain.TimesheetStatus `json:"status"`
	TotalPaidHours    float64                `json:"total_paid_hours"`
	TotalUnpaidBreaks float64                `json:"total_unpaid_breaks"`
	SubmittedAt       *time.Time             `json:"submitted_at"`
	ApproverID        *string                `json:"approver_id"`
	ApproverComments  *string                `json:"approver_comments"`
	DecisionAt        *time.Time             `json:"decision_at"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

// NewTimesheetResponse maps the domain model.
func NewTimesheetResponse(entry *domain.TimesheetEntry) TimesheetResponse {
	return TimesheetResponse{
		ID:                entry.ID,
		UserID:            entry.UserID,
		CampaignID:        entry.CampaignID,
		Date:              entry.Date,
		TimeIn:            entry.TimeIn,
		TimeOut:           entry.TimeOut,
		LunchStart:        entry.LunchStart,
		LunchEnd:          entry.LunchEnd,
		Break1Start:       entry.Break1Start,
		Break1End:         entry.Break1End,
		Break2Start:       entry.Break2Start,
		Break2End:         entry.Break2End,
		VacationType:      entry.VacationType,
		Status:            entry.Status,
		TotalPaidHours:    entry.TotalPaidHours,
		TotalUnpaidBreaks: entry.TotalUnpaidBreaks,
		SubmittedAt:       entry.SubmittedAt,
		ApproverID:        entry.ApproverID,
		ApproverComments:  entry.ApproverComments,
		DecisionAt:        entry.DecisionAt,
		CreatedAt:         entry.CreatedAt,
		UpdatedAt:         entry.UpdatedAt,
	}
}
