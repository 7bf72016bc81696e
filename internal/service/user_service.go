package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/auth"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/domain"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/repository"
	apperrors "github.com/Kevin-Shelton/inv-timesheet-backend/pkg/util"
)

// UserService coordinates user administration.
type UserService struct {
	users repository.UserRepository
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// UserCreateInput describes user creation payload.
type UserCreateInput struct {
	Email          string
	Password       string
	FullName       string
	Role           domain.Role
	CampaignID     *string
	PayRatePerHour float64
	BcryptCost     int
}

// UserUpdateInput describes mutable user fields. Nil fields are untouched.
type UserUpdateInput struct {
	Email          *string
	FullName       *string
	Role           *domain.Role
	CampaignID     *string
	PayRatePerHour *float64
	IsActive       *bool
}

// UserListFilter narrows the listing.
type UserListFilter struct {
	CampaignID *string
	Role       *domain.Role
}

// List returns users visible to the caller: admins see everyone, campaign
// leads their campaign, team members only themselves.
func (s *UserService) List(ctx context.Context, identity *auth.Identity, filter UserListFilter) ([]domain.User, error) {
	repoFilter := repository.UserFilter{Role: filter.Role}

	switch identity.Role {
	case domain.RoleAdmin:
		repoFilter.CampaignID = filter.CampaignID
	case domain.RoleCampaignLead:
		repoFilter.CampaignID = identity.CampaignID
	default:
		userID := identity.UserID
		repoFilter.ID = &userID
	}

	return s.users.ListWithFilter(ctx, repoFilter)
}

// Get returns one user, enforcing the same visibility rules as List.
func (s *UserService) Get(ctx context.Context, identity *auth.Identity, userID string) (*domain.User, error) {
	if identity.Role == domain.RoleTeamMember && identity.UserID != userID {
		return nil, apperrors.NewForbidden("Access denied")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}

	if identity.Role == domain.RoleCampaignLead && !sameCampaign(identity.CampaignID, user.CampaignID) {
		return nil, apperrors.NewForbidden("Access denied")
	}
	return user, nil
}

// Create registers a new account. Route-level middleware restricts this to
// admins.
func (s *UserService) Create(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	if input.Email == "" || input.Password == "" || input.FullName == "" {
		return nil, apperrors.NewValidationError("email, password and full_name are required", nil)
	}
	if !domain.ValidRole(input.Role) {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
	}
	if input.Role != domain.RoleAdmin && input.CampaignID == nil {
		return nil, apperrors.NewValidationError("campaign_id is required for team_member and campaign_lead roles", nil)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("Email already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, input.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:          email,
		FullName:       input.FullName,
		PasswordHash:   hash,
		Role:           input.Role,
		CampaignID:     input.CampaignID,
		PayRatePerHour: input.PayRatePerHour,
		IsActive:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update modifies an account. Admins may change everything; other callers
// only their own name.
func (s *UserService) Update(ctx context.Context, identity *auth.Identity, userID string, input UserUpdateInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}

	if !identity.IsAdmin() {
		if identity.UserID != userID {
			return nil, apperrors.NewForbidden("Access denied")
		}
		if input.Email != nil || input.Role != nil || input.CampaignID != nil ||
			input.PayRatePerHour != nil || input.IsActive != nil {
			return nil, apperrors.NewForbidden("Only admins can change these fields")
		}
	}

	if input.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Role != nil {
		if !domain.ValidRole(*input.Role) {
			return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": *input.Role})
		}
		user.Role = *input.Role
	}
	if input.CampaignID != nil {
		user.CampaignID = input.CampaignID
	}
	if input.PayRatePerHour != nil {
		user.PayRatePerHour = *input.PayRatePerHour
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Deactivate disables an account instead of deleting the row, preserving
// timesheet and audit history.
func (s *UserService) Deactivate(ctx context.Context, userID string) error {
	if err := s.users.SetActive(ctx, userID, false); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}
	return nil
}

func sameCampaign(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}
