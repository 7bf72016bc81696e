package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/api/dto"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/audit"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/auth"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/service"
	apperrors "github.com/Kevin-Shelton/inv-timesheet-backend/pkg/util"
)

// TaskTimesheetsHandler manages weekly task timesheets, task templates and
// workweek settings.
type TaskTimesheetsHandler struct {
	service  *service.TaskTimesheetService
	recorder audit.Recorder
}

// NewTaskTimesheetsHandler constructs handler.
func NewTaskTimesheetsHandler(taskService *service.TaskTimesheetService, recorder audit.Recorder) *TaskTimesheetsHandler {
	return &TaskTimesheetsHandler{service: taskService, recorder: recorder}
}

// Settings GET /api/task-timesheets/settings.
func (h *TaskTimesheetsHandler) Settings(c *fiber.Ctx) error {
	settings, err := h.service.Settings(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": settings})
}

// ListTemplates GET /api/task-timesheets/campaigns/:campaignId/templates.
func (h *TaskTimesheetsHandler) ListTemplates(c *fiber.Ctx) error {
	templates, err := h.service.ListTemplates(c.Context(), c.Params("campaignId"))
	if err != nil {
		return err
	}
	items := make([]dto.TaskTemplateResponse, 0, len(templates))
	for i := range templates {
		items = append(items, dto.NewTaskTemplateResponse(&templates[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateTemplate POST /api/task-timesheets/campaigns/:campaignId/templates
// (admin only via route middleware).
func (h *TaskTimesheetsHandler) CreateTemplate(c *fiber.Ctx) error {
	var req dto.CreateTaskTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	template, err := h.service.CreateTemplate(c.Context(), c.Params("campaignId"), service.TaskTemplateInput{
		Name:           req.Name,
		Description:    req.Description,
		EstimatedHours: req.EstimatedHours,
		IsBillable:     req.IsBillable,
		IsDefault:      req.IsDefault,
	})
	if err != nil {
		return err
	}

	h.recorder.Record(audit.WithObject(audit.FromRequest(c, "task_template_created"), "task_templates", template.ID))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewTaskTemplateResponse(template)})
}

// Create POST /api/task-timesheets.
func (h *TaskTimesheetsHandler) Create(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}
	var req dto.CreateTaskTimesheetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ts, err := h.service.Create(c.Context(), identity, service.TaskTimesheetCreateInput{
		UserID:          req.UserID,
		CampaignID:      req.CampaignID,
		TaskTemplateID:  req.TaskTemplateID,
		TaskName:        req.TaskName,
		TaskDescription: req.TaskDescription,
		WeekStartDate:   req.WeekStartDate,
		Notes:           req.Notes,
	})
	if err != nil {
		return err
	}

	h.recorder.Record(audit.WithObject(audit.FromRequest(c, "task_timesheet_created"), "task_timesheets", ts.ID))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewTaskTimesheetResponse(ts)})
}

// SaveEntry PUT /api/task-timesheets/:id/entries.
func (h *TaskTimesheetsHandler) SaveEntry(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}
	var req dto.SaveTaskEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	entry, err := h.service.SaveEntry(c.Context(), identity, c.Params("id"), service.TaskEntryInput{
		EntryDate:       req.EntryDate,
		DurationHours:   req.DurationHours,
		DurationMinutes: req.DurationMinutes,
		IsCompleted:     req.IsCompleted,
		Notes:           req.Notes,
	})
	if err != nil {
		return err
	}

	h.recorder.Record(audit.WithObject(audit.FromRequest(c, "task_entry_saved"), "task_time_entries", entry.ID))
	return c.JSON(fiber.Map{"data": dto.NewTaskEntryResponse(entry)})
}

// Week GET /api/task-timesheets/week.
func (h *TaskTimesheetsHandler) Week(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}

	summary, err := h.service.Week(c.Context(), identity, c.Query("user_id"), c.Query("week_start"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

// SubmitWeek POST /api/task-timesheets/submit.
func (h *TaskTimesheetsHandler) SubmitWeek(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}
	var req dto.SubmitTaskWeekRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	moved, err := h.service.SubmitWeek(c.Context(), identity, req.UserID, req.WeekStartDate)
	if err != nil {
		return err
	}

	h.recorder.Record(audit.WithMetadata(
		audit.FromRequest(c, "task_week_submitted"),
		map[string]any{"week_start_date": req.WeekStartDate, "timesheets_updated": moved}))
	return c.JSON(fiber.Map{"data": dto.SubmitTaskWeekResponse{
		WeekStartDate:     req.WeekStartDate,
		TimesheetsUpdated: moved,
		SubmittedAt:       time.Now().UTC(),
	}})
}

// Approve PUT /api/task-timesheets/:id/approve (lead or admin via route
// middleware).
func (h *TaskTimesheetsHandler) Approve(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}
	var req dto.DecisionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}

	ts, err := h.service.ApproveTask(c.Context(), identity, c.Params("id"), req.Comments)
	if err != nil {
		return err
	}
	h.recorder.Record(audit.WithObject(audit.FromRequest(c, "task_timesheet_approved"), "task_timesheets", ts.ID))
	return c.JSON(fiber.Map{"data": dto.NewTaskTimesheetResponse(ts)})
}

// Reject PUT /api/task-timesheets/:id/reject (lead or admin via route
// middleware).
func (h *TaskTimesheetsHandler) Reject(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}
	var req dto.DecisionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}

	ts, err := h.service.RejectTask(c.Context(), identity, c.Params("id"), req.Comments)
	if err != nil {
		return err
	}
	h.recorder.Record(audit.WithObject(audit.FromRequest(c, "task_timesheet_rejected"), "task_timesheets", ts.ID))
	return c.JSON(fiber.Map{"data": dto.NewTaskTimesheetResponse(ts)})
}

// BillableHours POST /api/task-timesheets/:id/billable-hours (lead or
// admin via route middleware).
func (h *TaskTimesheetsHandler) BillableHours(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}

	summary, err := h.service.BillableHours(c.Context(), identity, c.Params("id"))
	if err != nil {
		return err
	}

	h.recorder.Record(audit.WithMetadata(
		audit.WithObject(audit.FromRequest(c, "billable_hours_created"), "task_timesheets", summary.TaskTimesheetID),
		map[string]any{"billable_hours": summary.BillableHours, "total_amount": summary.TotalAmount}))
	return c.JSON(fiber.Map{"data": summary})
}
