package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/api/dto"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/audit"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/auth"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/service"
	apperrors "github.com/Kevin-Shelton/inv-timesheet-backend/pkg/util"
)

// AuthHandler manages login, logout and password endpoints.
type AuthHandler struct {
	service  *service.AuthService
	recorder audit.Recorder
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, recorder audit.Recorder) *AuthHandler {
	return &AuthHandler{service: authService, recorder: recorder}
}

// Login POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password are required", nil)
	}

	user, token, exp, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if reason, ok := loginFailureReason(err); ok {
			h.recorder.Record(audit.WithMetadata(
				audit.FromRequest(c, "login_failed"),
				map[string]any{"reason": reason, "email": req.Email}))
			if errors.Is(err, service.ErrInactiveAccount) {
				return apperrors.NewUnauthorized("Account is inactive")
			}
			return apperrors.NewUnauthorized("Invalid email or password")
		}
		return err
	}

	record := audit.FromRequest(c, "login_success")
	record.UserID = &user.ID
	h.recorder.Record(audit.WithMetadata(record, map[string]any{"email": req.Email}))

	return c.JSON(dto.LoginResponse{
		Token:     token,
		ExpiresAt: exp,
		User:      dto.NewUserResponse(user),
	})
}

// Logout POST /api/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}
	if err := h.service.Logout(c.Context(), identity); err != nil {
		return err
	}
	h.recorder.Record(audit.FromRequest(c, "logout"))
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// Me GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}
	user, err := h.service.CurrentUser(c.Context(), identity.UserID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// ChangePassword POST /api/auth/change-password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("current_password and new_password are required", nil)
	}

	if err := h.service.ChangePassword(c.Context(), identity.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	h.recorder.Record(audit.WithObject(audit.FromRequest(c, "password_changed"), "users", identity.UserID))
	return c.JSON(fiber.Map{"message": "Password changed successfully"})
}

func loginFailureReason(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return "user_not_found", true
	case errors.Is(err, service.ErrInactiveAccount):
		return "user_inactive", true
	case errors.Is(err, service.ErrInvalidPassword):
		return "invalid_password", true
	}
	return "", false
}
