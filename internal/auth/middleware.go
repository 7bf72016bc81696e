package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/domain"
	apperrors "github.com/Kevin-Shelton/inv-timesheet-backend/pkg/util"
)

const identityKey = "auth_identity"

// Identity is the request-scoped caller context derived from a verified
// token. It lives for exactly one request and is never persisted.
type Identity struct {
	UserID     string
	Role       domain.Role
	CampaignID *string
	TokenID    string
	ExpiresAt  time.Time
}

// IsAdmin reports whether the caller holds the admin role.
func (i *Identity) IsAdmin() bool {
	return i.Role == domain.RoleAdmin
}

// IsCampaignLead reports whether the caller may act as a campaign lead.
func (i *Identity) IsCampaignLead() bool {
	return i.Role == domain.RoleAdmin || i.Role == domain.RoleCampaignLead
}

// RevocationStore checks whether a token id has been revoked (logout).
type RevocationStore interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Middleware validates bearer tokens and populates request identity.
type Middleware struct {
	tokens  *TokenManager
	revoked RevocationStore
}

// NewMiddleware constructs the auth middleware. The revocation store is
// optional; a nil store disables logout denylisting.
func NewMiddleware(tokens *TokenManager, revoked RevocationStore) *Middleware {
	return &Middleware{tokens: tokens, revoked: revoked}
}

// Handle enforces authentication for protected routes. The wrapped handler
// is never invoked when the header is absent, malformed, or the token fails
// verification.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewMissingCredential()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewMissingCredential()
	}

	claims, err := m.tokens.Verify(parts[1])
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return apperrors.NewExpiredCredential()
		}
		return apperrors.NewInvalidCredential()
	}

	if m.revoked != nil && claims.ID != "" {
		revoked, err := m.revoked.IsRevoked(c.Context(), claims.ID)
		if err == nil && revoked {
			return apperrors.NewInvalidCredential()
		}
	}

	identity := &Identity{
		UserID:     claims.Subject,
		Role:       claims.Role,
		CampaignID: claims.CampaignID,
		TokenID:    claims.ID,
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	c.Locals(identityKey, identity)
	return c.Next()
}

// IdentityFromContext retrieves the authenticated caller.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*Identity)
	return identity, ok
}
