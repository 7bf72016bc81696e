package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/api/dto"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/audit"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/service"
	apperrors "github.com/Kevin-Shelton/inv-timesheet-backend/pkg/util"
)

// CampaignsHandler manages campaign endpoints.
type CampaignsHandler struct {
	service  *service.CampaignService
	recorder audit.Recorder
}

// NewCampaignsHandler constructs handler.
func NewCampaignsHandler(campaignService *service.CampaignService, recorder audit.Recorder) *CampaignsHandler {
	return &CampaignsHandler{service: campaignService, recorder: recorder}
}

// List GET /api/campaigns.
func (h *CampaignsHandler) List(c *fiber.Ctx) error {
	campaigns, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.CampaignResponse, 0, len(campaigns))
	for i := range campaigns {
		items = append(items, dto.NewCampaignResponse(&campaigns[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/campaigns/:id.
func (h *CampaignsHandler) Get(c *fiber.Ctx) error {
	campaign, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCampaignResponse(campaign)})
}

// Create POST /api/campaigns (admin only via route middleware).
func (h *CampaignsHandler) Create(c *fiber.Ctx) error {
	var req dto.CampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	campaign, err := h.service.Create(c.Context(), service.CampaignInput{
		Name:               req.Name,
		BillingRatePerHour: req.BillingRatePerHour,
	})
	if err != nil {
		return err
	}

	h.recorder.Record(audit.WithObject(audit.FromRequest(c, "campaign_created"), "campaigns", campaign.ID))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewCampaignResponse(campaign)})
}

// Update PUT /api/campaigns/:id (admin only via route middleware).
func (h *CampaignsHandler) Update(c *fiber.Ctx) error {
	var req dto.CampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	campaign, err := h.service.Update(c.Context(), c.Params("id"), service.CampaignInput{
		Name:               req.Name,
		BillingRatePerHour: req.BillingRatePerHour,
		IsActive:           req.IsActive,
	})
	if err != nil {
		return err
	}

	h.recorder.Record(audit.WithObject(audit.FromRequest(c, "campaign_updated"), "campaigns", campaign.ID))
	return c.JSON(fiber.Map{"data": dto.NewCampaignResponse(campaign)})
}

// Delete DELETE /api/campaigns/:id (admin only via route middleware).
func (h *CampaignsHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.Delete(c.Context(), id); err != nil {
		return err
	}
	h.recorder.Record(audit.WithObject(audit.FromRequest(c, "campaign_deleted"), "campaigns", id))
	return c.JSON(fiber.Map{"message": "Campaign deleted successfully"})
}

// Members GET /api/campaigns/:id/members (lead or admin via route
// middleware).
func (h *CampaignsHandler) Members(c *fiber.Ctx) error {
	members, err := h.service.Members(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(members))
	for i := range members {
		items = append(items, dto.NewUserResponse(&members[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// AssignMember POST /api/campaigns/:id/members (admin only via route
// middleware).
func (h *CampaignsHandler) AssignMember(c *fiber.Ctx) error {
	var req dto.AssignCampaignMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.service.AssignMember(c.Context(), c.Params("id"), req.UserID)
	if err != nil {
		return err
	}

	h.recorder.Record(audit.WithMetadata(
		audit.WithObject(audit.FromRequest(c, "campaign_member_assigned"), "users", user.ID),
		map[string]any{"campaign_id": c.Params("id")}))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}
