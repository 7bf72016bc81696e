package dto

import (
	"time"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/domain"
)

// CreateTaskTemplateRequest payload.
type CreateTaskTemplateRequest struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	EstimatedHours float64 `json:"estimated_hours"`
	IsBillable     *bool   `json:"is_billable"`
	IsDefault      bool    `json:"is_default"`
}

// TaskTemplateResponse shape.
type TaskTemplateResponse struct {
	ID             string  `json:"id"`
	CampaignID     string  `json:"campaign_id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	EstimatedHours float64 `json:"estimated_hours"`
	IsBillable     bool    `json:"is_billable"`
	IsDefault      bool    `json:"is_default"`
	IsActive       bool    `json:"is_active"`
}

// NewTaskTemplateResponse maps the domain model.
func NewTaskTemplateResponse(template *domain.TaskTemplate) TaskTemplateResponse {
	return TaskTemplateResponse{
		ID:             template.ID,
		CampaignID:     template.CampaignID,
		Name:           template.Name,
		Description:    template.Description,
		EstimatedHours: template.EstimatedHours,
		IsBillable:     template.IsBillable,
		IsDefault:      template.IsDefault,
		IsActive:       template.IsActive,
	}
}

// CreateTaskTimesheetRequest payload. user_id/campaign_id are ignored for
// team members (their token pins both).
type CreateTaskTimesheetRequest struct {
	UserID          string  `json:"user_id"`
	CampaignID      string  `json:"campaign_id"`
	TaskTemplateID  *string `json:"task_template_id"`
	TaskName        string  `json:"task_name"`
	TaskDescription string  `json:"task_description"`
	WeekStartDate   string  `json:"week_start_date"`
	Notes           string  `json:"notes"`
}

// SaveTaskEntryRequest carries one day's duration.
type SaveTaskEntryRequest struct {
	EntryDate       string `json:"entry_date"`
	DurationHours   int    `json:"duration_hours"`
	DurationMinutes int    `json:"duration_minutes"`
	IsCompleted     bool   `json:"is_completed"`
	Notes           string `json:"notes"`
}

// SubmitTaskWeekRequest identifies the week to submit. user_id is ignored
// for team members.
type SubmitTaskWeekRequest struct {
	UserID        string `json:"user_id"`
	WeekStartDate string `json:"week_start_date"`
}

// TaskTimesheetResponse shape.
type TaskTimesheetResponse struct {
	ID               string                 `json:"id"`
	UserID           string                 `json:"user_id"`
	CampaignID       string                 `json:"campaign_id"`
	TaskTemplateID   *string                `json:"task_template_id"`
	TaskName         string                 `json:"task_name"`
	TaskDescription  string                 `json:"task_description"`
	WeekStartDate    string                 `json:"week_start_date"`
	WeekEndDate      string                 `json:"week_end_date"`
	Status           domain.TimesheetStatus `json:"status"`
	Notes            string                 `json:"notes"`
	SubmittedAt      *time.Time             `json:"submitted_at"`
	ApproverID       *string                `json:"approver_id"`
	ApproverComments *string                `json:"approver_comments"`
	DecisionAt       *time.Time             `json:"decision_at"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// NewTaskTimesheetResponse maps the domain model.
func NewTaskTimesheetResponse(ts *domain.TaskTimesheet) TaskTimesheetResponse {
	return TaskTimesheetResponse{
		ID:               ts.ID,
		UserID:           ts.UserID,
		CampaignID:       ts.CampaignID,
		TaskTemplateID:   ts.TaskTemplateID,
		TaskName:         ts.TaskName,
		TaskDescription:  ts.TaskDescription,
		WeekStartDate:    ts.WeekStartDate,
		WeekEndDate:      ts.WeekEndDate,
		Status:           ts.Status,
		Notes:            ts.Notes,
		SubmittedAt:      ts.SubmittedAt,
		ApproverID:       ts.ApproverID,
		ApproverComments: ts.ApproverComments,
		DecisionAt:       ts.DecisionAt,
		CreatedAt:        ts.CreatedAt,
		UpdatedAt:        ts.UpdatedAt,
	}
}

// TaskEntryResponse shape.
type TaskEntryResponse struct {
	ID              string `json:"id"`
	TaskTimesheetID string `json:"task_timesheet_id"`
	EntryDate       string `json:"entry_date"`
	DurationHours   int    `json:"duration_hours"`
	DurationMinutes int    `json:"duration_minutes"`
	IsCompleted     bool   `json:"is_completed"`
	Notes           string `json:"notes"`
}

// NewTaskEntryResponse maps the domain model.
func NewTaskEntryResponse(entry *domain.TaskTimeEntry) TaskEntryResponse {
	return TaskEntryResponse{
		ID:              entry.ID,
		TaskTimesheetID: entry.TaskTimesheetID,
		EntryDate:       entry.EntryDate,
		DurationHours:   entry.DurationHours,
		DurationMinutes: entry.DurationMinutes,
		IsCompleted:     entry.IsCompleted,
		Notes:           entry.Notes,
	}
}

// AssignCampaignMemberRequest payload.
type AssignCampaignMemberRequest struct {
	UserID string `json:"user_id"`
}

// SubmitTaskWeekResponse reports how many sheets a submission moved.
type SubmitTaskWeekResponse struct {
	WeekStartDate     string    `json:"week_start_date"`
	TimesheetsUpdated int       `json:"timesheets_updated"`
	SubmittedAt       time.Time `json:"submitted_at"`
}
