package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/domain"
)

func newTestUserService() (*UserService, *fakeUserRepo) {
	users := newFakeUserRepo(
		&domain.User{ID: "member-1", Email: "m1@example.com", FullName: "Alice Example",
			Role: domain.RoleTeamMember, CampaignID: strPtr("camp-1"), IsActive: true},
		&domain.User{ID: "member-2", Email: "m2@example.com", FullName: "Bob Example",
			Role: domain.RoleTeamMember, CampaignID: strPtr("camp-2"), IsActive: true},
	)
	return NewUserService(users), users
}

func TestUserCreateValidation(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	_, err := svc.Create(ctx, UserCreateInput{Email: "x@example.com", Password: "pw"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))

	_, err = svc.Create(ctx, UserCreateInput{
		Email: "x@example.com", Password: "pw", FullName: "X", Role: "superuser", BcryptCost: 4,
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))

	// non-admin roles need a campaign
	_, err = svc.Create(ctx, UserCreateInput{
		Email: "x@example.com", Password: "pw", FullName: "X", Role: domain.RoleTeamMember, BcryptCost: 4,
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))

	_, err = svc.Create(ctx, UserCreateInput{
		Email: "M1@Example.com", Password: "pw", FullName: "Dup",
		Role: domain.RoleTeamMember, CampaignID: strPtr("camp-1"), BcryptCost: 4,
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", domainErrCode(t, err))

	user, err := svc.Create(ctx, UserCreateInput{
		Email: "New@Example.com", Password: "pw", FullName: "New User",
		Role: domain.RoleCampaignLead, CampaignID: strPtr("camp-1"), PayRatePerHour: 30, BcryptCost: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, user.PasswordHash)
}

func TestUserUpdateSelfLimitedToName(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()
	identity := memberIdentity("member-1", "camp-1")

	rate := 99.0
	_, err := svc.Update(ctx, identity, "member-1", UserUpdateInput{PayRatePerHour: &rate})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", domainErrCode(t, err))

	name := "Alice Renamed"
	user, err := svc.Update(ctx, identity, "member-1", UserUpdateInput{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alice Renamed", user.FullName)

	_, err = svc.Update(ctx, identity, "member-2", UserUpdateInput{FullName: &name})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", domainErrCode(t, err))
}

func TestUserUpdateAdminFullAccess(t *testing.T) {
	svc, _ := newTestUserService()

	role := domain.RoleCampaignLead
	rate := 42.5
	user, err := svc.Update(context.Background(), adminIdentity(), "member-1", UserUpdateInput{
		Role:           &role,
		PayRatePerHour: &rate,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCampaignLead, user.Role)
	assert.InDelta(t, 42.5, user.PayRatePerHour, 0.001)
}

func TestUserGetScope(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	_, err := svc.Get(ctx, memberIdentity("member-1", "camp-1"), "member-2")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", domainErrCode(t, err))

	_, err = svc.Get(ctx, leadIdentity("lead-1", "camp-1"), "member-2")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", domainErrCode(t, err))

	user, err := svc.Get(ctx, leadIdentity("lead-1", "camp-1"), "member-1")
	require.NoError(t, err)
	assert.Equal(t, "member-1", user.ID)
}

func TestUserDeactivateKeepsRow(t *testing.T) {
	svc, users := newTestUserService()
	ctx := context.Background()

	require.NoError(t, svc.Deactivate(ctx, "member-1"))

	user, err := users.GetByID(ctx, "member-1")
	require.NoError(t, err)
	assert.False(t, user.IsActive)

	err = svc.Deactivate(ctx, "missing")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", domainErrCode(t, err))
}

func TestUserListScopesToRole(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	all, err := svc.List(ctx, adminIdentity(), UserListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	campaign, err := svc.List(ctx, leadIdentity("lead-1", "camp-1"), UserListFilter{})
	require.NoError(t, err)
	require.Len(t, campaign, 1)
	assert.Equal(t, "member-1", campaign[0].ID)

	self, err := svc.List(ctx, memberIdentity("member-2", "camp-2"), UserListFilter{})
	require.NoError(t, err)
	require.Len(t, self, 1)
	assert.Equal(t, "member-2", self[0].ID)
}
