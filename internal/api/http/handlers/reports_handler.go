package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/audit"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/auth"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/service"
	apperrors "github.com/Kevin-Shelton/inv-timesheet-backend/pkg/util"
)

// ReportsHandler exposes the monthly reporting endpoints.
type ReportsHandler struct {
	service  *service.ReportService
	recorder audit.Recorder
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService, recorder audit.Recorder) *ReportsHandler {
	return &ReportsHandler{service: reportService, recorder: recorder}
}

// CampaignSummary GET /api/reports/campaign-summary (lead or admin via route
// middleware).
func (h *ReportsHandler) CampaignSummary(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}

	summary, err := h.service.CampaignSummaryReport(c.Context(), identity, c.Query("campaign_id"), c.Query("month"))
	if err != nil {
		return err
	}

	h.recorder.Record(audit.WithMetadata(
		audit.FromRequest(c, "report_generated"),
		map[string]any{"report": "campaign_summary", "campaign_id": summary.Campaign.ID, "month": summary.Period.Month}))
	return c.JSON(fiber.Map{"data": summary})
}

// OrganizationSummary GET /api/reports/organization-summary (admin only via
// route middleware).
func (h *ReportsHandler) OrganizationSummary(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}

	summary, err := h.service.OrganizationSummaryReport(c.Context(), identity, c.Query("month"))
	if err != nil {
		return err
	}

	h.recorder.Record(audit.WithMetadata(
		audit.FromRequest(c, "report_generated"),
		map[string]any{"report": "organization_summary", "month": summary.Period.Month}))
	return c.JSON(fiber.Map{"data": summary})
}

// UserTimesheets GET /api/reports/user-timesheets.
func (h *ReportsHandler) UserTimesheets(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}

	report, err := h.service.UserTimesheetMonthReport(c.Context(), identity, c.Query("user_id"), c.Query("month"))
	if err != nil {
		return err
	}

	h.recorder.Record(audit.WithMetadata(
		audit.FromRequest(c, "report_generated"),
		map[string]any{"report": "user_timesheets", "user_id": report.User.ID, "month": report.Period.Month}))
	return c.JSON(fiber.Map{"data": report})
}
