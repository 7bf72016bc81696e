package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/auth"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/domain"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/repository"
	apperrors "github.com/Kevin-Shelton/inv-timesheet-backend/pkg/util"
)

// TaskTimesheetService coordinates weekly task-based time tracking: task
// templates per campaign, per-day durations, the submit/approve workflow
// and billable-hours derivation.
type TaskTimesheetService struct {
	templates repository.TaskTemplateRepository
	tasks     repository.TaskTimesheetRepository
	campaigns repository.CampaignRepository
	users     repository.UserRepository
	config    repository.SystemConfigRepository
}

// TaskTimesheetDependencies bundles requirements for the service.
type TaskTimesheetDependencies struct {
	TemplateRepo repository.TaskTemplateRepository
	TaskRepo     repository.TaskTimesheetRepository
	CampaignRepo repository.CampaignRepository
	UserRepo     repository.UserRepository
	ConfigRepo   repository.SystemConfigRepository
}

// NewTaskTimesheetService constructs the service.
func NewTaskTimesheetService(deps TaskTimesheetDependencies) *TaskTimesheetService {
	return &TaskTimesheetService{
		templates: deps.TemplateRepo,
		tasks:     deps.TaskRepo,
		campaigns: deps.CampaignRepo,
		users:     deps.UserRepo,
		config:    deps.ConfigRepo,
	}
}

// Settings returns the workweek settings, overlaying stored configuration
// onto the defaults. Unparseable stored values keep the default.
func (s *TaskTimesheetService) Settings(ctx context.Context) (domain.WorkweekSettings, error) {
	settings := domain.DefaultWorkweekSettings()
	config, err := s.config.GetAll(ctx)
	if err != nil {
		return settings, err
	}
	settings.ApplyConfig(config)
	return settings, nil
}

// ListTemplates returns the task templates of one campaign.
func (s *TaskTimesheetService) ListTemplates(ctx context.Context, campaignID string) ([]domain.TaskTemplate, error) {
	if err := s.requireCampaign(ctx, campaignID); err != nil {
		return nil, err
	}
	return s.templates.ListByCampaign(ctx, campaignID)
}

// TaskTemplateInput describes a new template.
type TaskTemplateInput struct {
	Name           string
	Description    string
	EstimatedHours float64
	IsBillable     *bool
	IsDefault      bool
}

// CreateTemplate adds a task template to a campaign. Template names are
// unique per campaign.
func (s *TaskTimesheetService) CreateTemplate(ctx context.Context, campaignID string, input TaskTemplateInput) (*domain.TaskTemplate, error) {
	if input.Name == "" || input.Description == "" {
		return nil, apperrors.NewValidationError("name and description are required", nil)
	}
	if err := s.requireCampaign(ctx, campaignID); err != nil {
		return nil, err
	}

	if _, err := s.templates.GetByCampaignAndName(ctx, campaignID, input.Name); err == nil {
		return nil, apperrors.NewConflict("Task template name already exists for this campaign", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	template := &domain.TaskTemplate{
		CampaignID:     campaignID,
		Name:           input.Name,
		Description:    input.Description,
		EstimatedHours: input.EstimatedHours,
		IsBillable:     true,
		IsDefault:      input.IsDefault,
		IsActive:       true,
	}
	if input.IsBillable != nil {
		template.IsBillable = *input.IsBillable
	}
	if err := s.templates.Create(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

// TaskTimesheetCreateInput describes a new weekly task timesheet.
type TaskTimesheetCreateInput struct {
	UserID          string
	CampaignID      string
	TaskTemplateID  *string
	TaskName        string
	TaskDescription string
	WeekStartDate   string
	Notes           string
}

// Create opens a draft task timesheet for one task and week. Team members
// track their own time; leads open sheets for users in their campaign.
func (s *TaskTimesheetService) Create(ctx context.Context, identity *auth.Identity, input TaskTimesheetCreateInput) (*domain.TaskTimesheet, error) {
	if input.TaskName == "" {
		return nil, apperrors.NewValidationError("task_name is required", nil)
	}
	start, err := time.Parse("2006-01-02", input.WeekStartDate)
	if err != nil {
		return nil, apperrors.NewValidationError("week_start_date is required in format YYYY-MM-DD", nil)
	}

	switch identity.Role {
	case domain.RoleTeamMember:
		input.UserID = identity.UserID
		if identity.CampaignID != nil {
			input.CampaignID = *identity.CampaignID
		}
	case domain.RoleCampaignLead:
		if identity.CampaignID != nil {
			input.CampaignID = *identity.CampaignID
		}
		if input.UserID == "" {
			return nil, apperrors.NewValidationError("user_id is required", nil)
		}
		target, err := s.users.GetByID(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("user", nil)
			}
			return nil, err
		}
		if !sameCampaign(identity.CampaignID, target.CampaignID) {
			return nil, apperrors.NewForbidden("User does not belong to your campaign")
		}
	default: // admin
		if input.UserID == "" {
			return nil, apperrors.NewValidationError("user_id is required", nil)
		}
	}
	if input.CampaignID == "" {
		return nil, apperrors.NewValidationError("campaign_id is required", nil)
	}

	if input.TaskTemplateID != nil {
		template, err := s.templates.GetByID(ctx, *input.TaskTemplateID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("task template", nil)
			}
			return nil, err
		}
		if template.CampaignID != input.CampaignID {
			return nil, apperrors.NewValidationError("task template belongs to a different campaign", nil)
		}
	}

	ts := &domain.TaskTimesheet{
		UserID:          input.UserID,
		CampaignID:      input.CampaignID,
		TaskTemplateID:  input.TaskTemplateID,
		TaskName:        input.TaskName,
		TaskDescription: input.TaskDescription,
		WeekStartDate:   input.WeekStartDate,
		WeekEndDate:     start.AddDate(0, 0, 6).Format("2006-01-02"),
		Status:          domain.TimesheetStatusDraft,
		Notes:           input.Notes,
	}
	if err := s.tasks.Create(ctx, ts); err != nil {
		return nil, err
	}
	return ts, nil
}

// TaskEntryInput carries one day's duration for a task.
type TaskEntryInput struct {
	EntryDate       string
	DurationHours   int
	DurationMinutes int
	IsCompleted     bool
	Notes           string
}

// SaveEntry writes the duration logged against a task for one day,
// replacing any previous value. Owners may only edit drafts and rejected
// sheets.
func (s *TaskTimesheetService) SaveEntry(ctx context.Context, identity *auth.Identity, taskTimesheetID string, input TaskEntryInput) (*domain.TaskTimeEntry, error) {
	if !domain.ValidTaskDuration(input.DurationHours, input.DurationMinutes) {
		return nil, apperrors.NewValidationError("Invalid duration. Hours must be 0-23, minutes must be 0-59", nil)
	}

	ts, err := s.loadTask(ctx, taskTimesheetID)
	if err != nil {
		return nil, err
	}
	if err := s.checkTaskScope(identity, ts); err != nil {
		return nil, err
	}
	if identity.Role == domain.RoleTeamMember && !ts.Editable() {
		return nil, apperrors.NewValidationError("Cannot update task timesheet in current status",
			map[string]any{"status": ts.Status})
	}
	if input.EntryDate < ts.WeekStartDate || input.EntryDate > ts.WeekEndDate {
		return nil, apperrors.NewValidationError("entry_date must fall within the timesheet week",
			map[string]any{"week_start_date": ts.WeekStartDate, "week_end_date": ts.WeekEndDate})
	}

	entry := &domain.TaskTimeEntry{
		TaskTimesheetID: ts.ID,
		EntryDate:       input.EntryDate,
		DurationHours:   input.DurationHours,
		DurationMinutes: input.DurationMinutes,
		IsCompleted:     input.IsCompleted,
		Notes:           input.Notes,
	}
	if err := s.tasks.UpsertEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// TaskWeekRow is one task's slice of the weekly view.
type TaskWeekRow struct {
	ID              string                          `json:"id"`
	CampaignName    string                          `json:"campaign_name"`
	TaskName        string                          `json:"task_name"`
	TaskDescription string                          `json:"task_description"`
	Status          domain.TimesheetStatus          `json:"status"`
	IsBillable      bool                            `json:"is_billable"`
	HourlyRate      float64                         `json:"hourly_rate"`
	TimeEntries     map[string]TaskEntryCell        `json:"time_entries"`
	TaskTotal       domain.HoursMinutes             `json:"task_total"`
	Notes           string                          `json:"notes"`
}

// TaskEntryCell is one day's cell in the weekly grid.
type TaskEntryCell struct {
	DurationHours   int    `json:"duration_hours"`
	DurationMinutes int    `json:"duration_minutes"`
	IsCompleted     bool   `json:"is_completed"`
	Notes           string `json:"notes,omitempty"`
}

// WeekSummary is the full weekly view with daily totals and the
// regular/overtime split.
type WeekSummary struct {
	UserID        string                         `json:"user_id"`
	WeekStartDate string                         `json:"week_start_date"`
	WeekEndDate   string                         `json:"week_end_date"`
	Tasks         []TaskWeekRow                  `json:"tasks"`
	DailyTotals   map[string]domain.HoursMinutes `json:"daily_totals"`
	WeeklyTotal   domain.HoursMinutes            `json:"weekly_total"`
	RegularHours  domain.HoursMinutes            `json:"regular_hours"`
	OvertimeHours domain.HoursMinutes            `json:"overtime_hours"`
}

// Week builds the weekly task view for one user. Team members see only
// their own week; leads only users in their campaign.
func (s *TaskTimesheetService) Week(ctx context.Context, identity *auth.Identity, userID, weekStart string) (*WeekSummary, error) {
	if userID == "" {
		userID = identity.UserID
	}
	if identity.Role == domain.RoleTeamMember && userID != identity.UserID {
		return nil, apperrors.NewForbidden("Access denied")
	}
	start, err := time.Parse("2006-01-02", weekStart)
	if err != nil {
		return nil, apperrors.NewValidationError("week_start parameter is required in format YYYY-MM-DD", nil)
	}

	if identity.Role == domain.RoleCampaignLead {
		target, err := s.users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("user", nil)
			}
			return nil, err
		}
		if !sameCampaign(identity.CampaignID, target.CampaignID) {
			return nil, apperrors.NewForbidden("Access denied")
		}
	}

	timesheets, err := s.tasks.ListForWeek(ctx, userID, weekStart)
	if err != nil {
		return nil, err
	}
	entries, err := s.tasks.ListEntriesForWeek(ctx, userID, weekStart)
	if err != nil {
		return nil, err
	}

	entriesByTask := make(map[string][]domain.TaskTimeEntry)
	for _, entry := range entries {
		entriesByTask[entry.TaskTimesheetID] = append(entriesByTask[entry.TaskTimesheetID], entry)
	}

	summary := &WeekSummary{
		UserID:        userID,
		WeekStartDate: weekStart,
		WeekEndDate:   start.AddDate(0, 0, 6).Format("2006-01-02"),
		DailyTotals:   make(map[string]domain.HoursMinutes),
	}

	dailyMinutes := make(map[string]int)
	weeklyMinutes := 0
	campaignCache := make(map[string]*domain.Campaign)

	for _, ts := range timesheets {
		campaign, ok := campaignCache[ts.CampaignID]
		if !ok {
			campaign, err = s.campaigns.GetByID(ctx, ts.CampaignID)
			if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return nil, err
			}
			campaignCache[ts.CampaignID] = campaign
		}

		row := TaskWeekRow{
			ID:              ts.ID,
			TaskName:        ts.TaskName,
			TaskDescription: ts.TaskDescription,
			Status:          ts.Status,
			TimeEntries:     make(map[string]TaskEntryCell),
			Notes:           ts.Notes,
		}
		if campaign != nil {
			row.CampaignName = campaign.Name
			row.HourlyRate = campaign.BillingRatePerHour
			row.IsBillable = campaign.BillingRatePerHour > 0
		}

		taskMinutes := 0
		for _, entry := range entriesByTask[ts.ID] {
			row.TimeEntries[entry.EntryDate] = TaskEntryCell{
				DurationHours:   entry.DurationHours,
				DurationMinutes: entry.DurationMinutes,
				IsCompleted:     entry.IsCompleted,
				Notes:           entry.Notes,
			}
			minutes := entry.Minutes()
			taskMinutes += minutes
			dailyMinutes[entry.EntryDate] += minutes
		}
		weeklyMinutes += taskMinutes
		row.TaskTotal = domain.MinutesToHoursMinutes(taskMinutes)
		summary.Tasks = append(summary.Tasks, row)
	}

	for date, minutes := range dailyMinutes {
		summary.DailyTotals[date] = domain.MinutesToHoursMinutes(minutes)
	}

	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	summary.WeeklyTotal = domain.MinutesToHoursMinutes(weeklyMinutes)
	summary.RegularHours, summary.OvertimeHours = domain.SplitOvertime(weeklyMinutes, settings.RegularHoursThreshold)
	return summary, nil
}

// SubmitWeek moves every draft task timesheet of the user's week to
// submitted and reports how many sheets moved. Team members submit their
// own week only.
func (s *TaskTimesheetService) SubmitWeek(ctx context.Context, identity *auth.Identity, userID, weekStart string) (int, error) {
	if userID == "" {
		userID = identity.UserID
	}
	if identity.Role == domain.RoleTeamMember && userID != identity.UserID {
		return 0, apperrors.NewForbidden("Access denied")
	}
	if _, err := time.Parse("2006-01-02", weekStart); err != nil {
		return 0, apperrors.NewValidationError("week_start_date is required in format YYYY-MM-DD", nil)
	}
	return s.tasks.SubmitWeek(ctx, userID, weekStart, time.Now().UTC())
}

// ApproveTask moves one submitted task timesheet to approved.
func (s *TaskTimesheetService) ApproveTask(ctx context.Context, identity *auth.Identity, id string, comments *string) (*domain.TaskTimesheet, error) {
	return s.decideTask(ctx, identity, id, domain.TimesheetStatusApproved, comments)
}

// RejectTask moves one submitted task timesheet to rejected. A comment is
// mandatory.
func (s *TaskTimesheetService) RejectTask(ctx context.Context, identity *auth.Identity, id string, comments *string) (*domain.TaskTimesheet, error) {
	if comments == nil || *comments == "" {
		return nil, apperrors.NewValidationError("Comments are required for rejection", nil)
	}
	return s.decideTask(ctx, identity, id, domain.TimesheetStatusRejected, comments)
}

func (s *TaskTimesheetService) decideTask(ctx context.Context, identity *auth.Identity, id string, to domain.TimesheetStatus, comments *string) (*domain.TaskTimesheet, error) {
	ts, err := s.loadTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if identity.Role == domain.RoleCampaignLead && !campaignMatches(identity.CampaignID, ts.CampaignID) {
		return nil, apperrors.NewForbidden("Access denied")
	}
	if !domain.CanTransition(ts.Status, to) {
		return nil, apperrors.NewInvalidTransition(
			fmt.Sprintf("cannot move task timesheet from %s to %s", ts.Status, to),
			map[string]any{"from": string(ts.Status), "to": string(to)})
	}

	now := time.Now().UTC()
	approverID := identity.UserID
	updated, err := s.tasks.UpdateStatus(ctx, id,
		domain.TimesheetStatusSubmitted, to,
		repository.StatusChange{
			ApproverID: &approverID,
			Comments:   comments,
			DecisionAt: &now,
		})
	if err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, apperrors.NewInvalidTransition(
				fmt.Sprintf("task timesheet status changed concurrently; cannot move to %s", to),
				map[string]any{"requested": string(to)})
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("task timesheet", nil)
		}
		return nil, err
	}
	return updated, nil
}

// BillableSummary is the billing derivation for one approved task
// timesheet. Nothing is persisted; the amounts feed invoicing downstream.
type BillableSummary struct {
	TaskTimesheetID string    `json:"task_timesheet_id"`
	UserID          string    `json:"user_id"`
	CampaignID      string    `json:"campaign_id"`
	BillableHours   float64   `json:"billable_hours"`
	HourlyRate      float64   `json:"hourly_rate"`
	TotalAmount     float64   `json:"total_amount"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// BillableHours derives billable hours and amount from an approved task
// timesheet's entries and the campaign billing rate.
func (s *TaskTimesheetService) BillableHours(ctx context.Context, identity *auth.Identity, id string) (*BillableSummary, error) {
	ts, err := s.loadTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if identity.Role == domain.RoleCampaignLead && !campaignMatches(identity.CampaignID, ts.CampaignID) {
		return nil, apperrors.NewForbidden("Access denied")
	}
	if ts.Status != domain.TimesheetStatusApproved {
		return nil, apperrors.NewInvalidTransition(
			"billable hours require an approved task timesheet",
			map[string]any{"status": string(ts.Status)})
	}

	campaign, err := s.campaigns.GetByID(ctx, ts.CampaignID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("campaign", nil)
		}
		return nil, err
	}

	entries, err := s.tasks.ListEntries(ctx, id)
	if err != nil {
		return nil, err
	}
	totalMinutes := 0
	for _, entry := range entries {
		totalMinutes += entry.Minutes()
	}

	hours := round2(float64(totalMinutes) / 60)
	return &BillableSummary{
		TaskTimesheetID: ts.ID,
		UserID:          ts.UserID,
		CampaignID:      ts.CampaignID,
		BillableHours:   hours,
		HourlyRate:      campaign.BillingRatePerHour,
		TotalAmount:     round2(hours * campaign.BillingRatePerHour),
		GeneratedAt:     time.Now().UTC(),
	}, nil
}

func (s *TaskTimesheetService) loadTask(ctx context.Context, id string) (*domain.TaskTimesheet, error) {
	ts, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("task timesheet", nil)
		}
		return nil, err
	}
	return ts, nil
}

func (s *TaskTimesheetService) checkTaskScope(identity *auth.Identity, ts *domain.TaskTimesheet) error {
	switch identity.Role {
	case domain.RoleTeamMember:
		if ts.UserID != identity.UserID {
			return apperrors.NewForbidden("Access denied")
		}
	case domain.RoleCampaignLead:
		if !campaignMatches(identity.CampaignID, ts.CampaignID) {
			return apperrors.NewForbidden("Access denied")
		}
	}
	return nil
}

func (s *TaskTimesheetService) requireCampaign(ctx context.Context, campaignID string) error {
	if campaignID == "" {
		return apperrors.NewValidationError("campaign_id is required", nil)
	}
	if _, err := s.campaigns.GetByID(ctx, campaignID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("campaign", nil)
		}
		return err
	}
	return nil
}
