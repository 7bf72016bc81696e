package audit

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/auth"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/domain"
)

// FromRequest builds an audit record carrying the caller identity and
// network metadata of the current request.
func FromRequest(c *fiber.Ctx, action string) domain.AuditRecord {
	record := domain.AuditRecord{
		Action:    action,
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	}
	if identity, ok := auth.IdentityFromContext(c); ok {
		userID := identity.UserID
		record.UserID = &userID
	}
	return record
}

// WithObject attaches the affected object reference.
func WithObject(record domain.AuditRecord, objectType, objectID string) domain.AuditRecord {
	record.ObjectType = &objectType
	record.ObjectID = &objectID
	return record
}

// WithMetadata attaches structured context.
func WithMetadata(record domain.AuditRecord, metadata map[string]any) domain.AuditRecord {
	record.Metadata = metadata
	return record
}
