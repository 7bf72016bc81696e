package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/api/dto"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/audit"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/auth"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/service"
	apperrors "github.com/Kevin-Shelton/inv-timesheet-backend/pkg/util"
)

// SchedulesHandler manages campaign schedule endpoints.
type SchedulesHandler struct {
	service  *service.ScheduleService
	recorder audit.Recorder
}

// NewSchedulesHandler constructs handler.
func NewSchedulesHandler(scheduleService *service.ScheduleService, recorder audit.Recorder) *SchedulesHandler {
	return &SchedulesHandler{service: scheduleService, recorder: recorder}
}

// List GET /api/schedules.
func (h *SchedulesHandler) List(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}

	var campaignID *string
	if v := c.Query("campaign_id"); v != "" {
		campaignID = &v
	}

	schedules, err := h.service.List(c.Context(), identity, campaignID)
	if err != nil {
		return err
	}
	items := make([]dto.ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		items = append(items, dto.NewScheduleResponse(&schedules[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/schedules/:id.
func (h *SchedulesHandler) Get(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}
	schedule, err := h.service.Get(c.Context(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewScheduleResponse(schedule)})
}

// Create POST /api/schedules (admin only via route middleware).
func (h *SchedulesHandler) Create(c *fiber.Ctx) error {
	var req dto.ScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	schedule, err := h.service.Create(c.Context(), service.ScheduleInput{
		CampaignID:                req.CampaignID,
		Name:                      req.Name,
		WorkStartTime:             req.WorkStartTime,
		WorkEndTime:               req.WorkEndTime,
		LunchDurationMinutes:      req.LunchDurationMinutes,
		ShortBreakDurationMinutes: req.ShortBreakDurationMinutes,
	})
	if err != nil {
		return err
	}

	h.recorder.Record(audit.WithObject(audit.FromRequest(c, "schedule_created"), "schedules", schedule.ID))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewScheduleResponse(schedule)})
}

// Update PUT /api/schedules/:id (admin only via route middleware).
func (h *SchedulesHandler) Update(c *fiber.Ctx) error {
	var req dto.ScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	schedule, err := h.service.Update(c.Context(), c.Params("id"), service.ScheduleInput{
		Name:                      req.Name,
		WorkStartTime:             req.WorkStartTime,
		WorkEndTime:               req.WorkEndTime,
		LunchDurationMinutes:      req.LunchDurationMinutes,
		ShortBreakDurationMinutes: req.ShortBreakDurationMinutes,
	})
	if err != nil {
		return err
	}

	h.recorder.Record(audit.WithObject(audit.FromRequest(c, "schedule_updated"), "schedules", schedule.ID))
	return c.JSON(fiber.Map{"data": dto.NewScheduleResponse(schedule)})
}

// Delete DELETE /api/schedules/:id (admin only via route middleware).
func (h *SchedulesHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.Delete(c.Context(), id); err != nil {
		return err
	}
	h.recorder.Record(audit.WithObject(audit.FromRequest(c, "schedule_deleted"), "schedules", id))
	return c.JSON(fiber.Map{"message": "Schedule deleted successfully"})
}
