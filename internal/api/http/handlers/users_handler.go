package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/api/dto"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/audit"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/auth"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/domain"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/service"
	apperrors "github.com/Kevin-Shelton/inv-timesheet-backend/pkg/util"
)

// UsersHandler manages user administration endpoints.
type UsersHandler struct {
	service    *service.UserService
	recorder   audit.Recorder
	bcryptCost int
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService, recorder audit.Recorder, bcryptCost int) *UsersHandler {
	return &UsersHandler{service: userService, recorder: recorder, bcryptCost: bcryptCost}
}

// List GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}

	filter := service.UserListFilter{}
	if v := c.Query("campaign_id"); v != "" {
		filter.CampaignID = &v
	}
	if v := c.Query("role"); v != "" {
		role := domain.Role(v)
		filter.Role = &role
	}

	users, err := h.service.List(c.Context(), identity, filter)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}
	user, err := h.service.Get(c.Context(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Create POST /api/users (admin only via route middleware).
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.service.Create(c.Context(), service.UserCreateInput{
		Email:          req.Email,
		Password:       req.Password,
		FullName:       req.FullName,
		Role:           req.Role,
		CampaignID:     req.CampaignID,
		PayRatePerHour: req.PayRatePerHour,
		BcryptCost:     h.bcryptCost,
	})
	if err != nil {
		return err
	}

	h.recorder.Record(audit.WithObject(audit.FromRequest(c, "user_created"), "users", user.ID))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Update PUT /api/users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.service.Update(c.Context(), identity, c.Params("id"), service.UserUpdateInput{
		Email:          req.Email,
		FullName:       req.FullName,
		Role:           req.Role,
		CampaignID:     req.CampaignID,
		PayRatePerHour: req.PayRatePerHour,
		IsActive:       req.IsActive,
	})
	if err != nil {
		return err
	}

	h.recorder.Record(audit.WithObject(audit.FromRequest(c, "user_updated"), "users", user.ID))
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Delete DELETE /api/users/:id (admin only via route middleware). Accounts
// are deactivated, not removed.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.Deactivate(c.Context(), id); err != nil {
		return err
	}
	h.recorder.Record(audit.WithObject(audit.FromRequest(c, "user_deactivated"), "users", id))
	return c.JSON(fiber.Map{"message": "User deactivated successfully"})
}
