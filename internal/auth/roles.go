package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/Kevin-Shelton/inv-timesheet-backend/pkg/util"
)

// RequireAdmin passes only admin identities. Must run after Middleware.Handle.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok || !identity.IsAdmin() {
			return apperrors.NewInsufficientRole("Admin privileges required")
		}
		return c.Next()
	}
}

// RequireCampaignLead passes admins and campaign leads. Must run after
// Middleware.Handle.
func RequireCampaignLead() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok || !identity.IsCampaignLead() {
			return apperrors.NewInsufficientRole("Campaign lead privileges required")
		}
		return c.Next()
	}
}
