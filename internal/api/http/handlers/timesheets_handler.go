package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/api/dto"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/audit"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/auth"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/domain"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/service"
	apperrors "github.com/Kevin-Shelton/inv-timesheet-backend/pkg/util"
)

// TimesheetsHandler manages timesheet CRUD and the approval workflow.
type TimesheetsHandler struct {
	service  *service.TimesheetService
	recorder audit.Recorder
}

// NewTimesheetsHandler constructs handler.
func NewTimesheetsHandler(timesheetService *service.TimesheetService, recorder audit.Recorder) *TimesheetsHandler {
	return &TimesheetsHandler{service: timesheetService, recorder: recorder}
}

// List GET /api/timesheets.
func (h *TimesheetsHandler) List(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}

	filter := service.TimesheetListFilter{Limit: 50}
	if v := c.Query("user_id"); v != "" {
		filter.UserID = &v
	}
	if v := c.Query("campaign_id"); v != "" {
		filter.CampaignID = &v
	}
	if v := c.Query("status"); v != "" {
		status := domain.TimesheetStatus(v)
		filter.Status = &status
	}
	if v := c.Query("start_date"); v != "" {
		filter.StartDate = &v
	}
	if v := c.Query("end_date"); v != "" {
		filter.EndDate = &v
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			filter.Offset = n
		}
	}

	entries, err := h.service.List(c.Context(), identity, filter)
	if err != nil {
		return err
	}
	items := make([]dto.TimesheetResponse, 0, len(entries))
	for i := range entries {
		items = append(items, dto.NewTimesheetResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/timesheets/:id.
func (h *TimesheetsHandler) Get(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}
	entry, err := h.service.Get(c.Context(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTimesheetResponse(entry)})
}

// Create POST /api/timesheets.
func (h *TimesheetsHandler) Create(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}
	var req dto.CreateTimesheetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TimesheetCreateInput{
		UserID:      req.UserID,
		CampaignID:  req.CampaignID,
		Date:        req.Date,
		TimeIn:      req.TimeIn,
		TimeOut:     req.TimeOut,
		LunchStart:  req.LunchStart,
		LunchEnd:    req.LunchEnd,
		Break1Start: req.Break1Start,
		Break1End:   req.Break1End,
		Break2Start: req.Break2Start,
		Break2End:   req.Break2End,
	}
	if req.VacationType != nil {
		input.VacationType = *req.VacationType
	}

	entry, err := h.service.Create(c.Context(), identity, input)
	if err != nil {
		return err
	}

	h.recorder.Record(audit.WithObject(audit.FromRequest(c, "timesheet_created"), "timesheet_entries", entry.ID))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewTimesheetResponse(entry)})
}

// Update PUT /api/timesheets/:id.
func (h *TimesheetsHandler) Update(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}
	var req dto.UpdateTimesheetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	entry, err := h.service.Update(c.Context(), identity, c.Params("id"), service.TimesheetUpdateInput{
		TimeIn:       req.TimeIn,
		TimeOut:      req.TimeOut,
		LunchStart:   req.LunchStart,
		LunchEnd:     req.LunchEnd,
		Break1Start:  req.Break1Start,
		Break1End:    req.Break1End,
		Break2Start:  req.Break2Start,
		Break2End:    req.Break2End,
		VacationType: req.VacationType,
	})
	if err != nil {
		return err
	}

	h.recorder.Record(audit.WithObject(audit.FromRequest(c, "timesheet_updated"), "timesheet_entries", entry.ID))
	return c.JSON(fiber.Map{"data": dto.NewTimesheetResponse(entry)})
}

// Delete DELETE /api/timesheets/:id.
func (h *TimesheetsHandler) Delete(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}
	id := c.Params("id")
	if err := h.service.Delete(c.Context(), identity, id); err != nil {
		return err
	}
	h.recorder.Record(audit.WithObject(audit.FromRequest(c, "timesheet_deleted"), "timesheet_entries", id))
	return c.JSON(fiber.Map{"message": "Timesheet deleted successfully"})
}

// Submit PUT /api/timesheets/:id/submit.
func (h *TimesheetsHandler) Submit(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}
	entry, err := h.service.Submit(c.Context(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	h.recorder.Record(audit.WithObject(audit.FromRequest(c, "timesheet_submitted"), "timesheet_entries", entry.ID))
	return c.JSON(fiber.Map{"data": dto.NewTimesheetResponse(entry)})
}

// Approve PUT /api/timesheets/:id/approve (lead or admin via route
// middleware).
func (h *TimesheetsHandler) Approve(c *fiber.Ctx) error {
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

	entry, err := h.service.Approve(c.Context(), identity, c.Params("id"), req.Comments)
	if err != nil {
		return err
	}
	h.recorder.Record(audit.WithObject(audit.FromRequest(c, "timesheet_approved"), "timesheet_entries", entry.ID))
	return c.JSON(fiber.Map{"data": dto.NewTimesheetResponse(entry)})
}

// Reject PUT /api/timesheets/:id/reject (lead or admin via route middleware).
func (h *TimesheetsHandler) Reject(c *fiber.Ctx) error {
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

	entry, err := h.service.Reject(c.Context(), identity, c.Params("id"), req.Comments)
	if err != nil {
		return err
	}
	h.recorder.Record(audit.WithObject(audit.FromRequest(c, "timesheet_rejected"), "timesheet_entries", entry.ID))
	return c.JSON(fiber.Map{"data": dto.NewTimesheetResponse(entry)})
}
