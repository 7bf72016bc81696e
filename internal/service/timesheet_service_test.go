package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/auth"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/domain"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/events"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/repository"
	apperrors "github.com/Kevin-Shelton/inv-timesheet-backend/pkg/util"
)

type fakeTimesheetRepo struct {
	entries map[string]*domain.TimesheetEntry
	nextID  int
	// when set, the next UpdateStatus sees this status instead of the
	// stored one, simulating a concurrent transition
	raceStatus *domain.TimesheetStatus
}

func newFakeTimesheetRepo() *fakeTimesheetRepo {
	return &fakeTimesheetRepo{entries: make(map[string]*domain.TimesheetEntry)}
}

func (r *fakeTimesheetRepo) Create(_ context.Context, entry *domain.TimesheetEntry) error {
	r.nextID++
	entry.ID = fmt.Sprintf("ts-%d", r.nextID)
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt
	copied := *entry
	r.entries[entry.ID] = &copied
	return nil
}

func (r *fakeTimesheetRepo) Update(_ context.Context, entry *domain.TimesheetEntry) error {
	if _, ok := r.entries[entry.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *entry
	r.entries[entry.ID] = &copied
	return nil
}

func (r *fakeTimesheetRepo) GetByID(_ context.Context, id string) (*domain.TimesheetEntry, error) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *entry
	return &copied, nil
}

func (r *fakeTimesheetRepo) ExistsForUserAndDate(_ context.Context, userID, date string) (bool, error) {
	for _, entry := range r.entries {
		if entry.UserID == userID && entry.Date == date {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTimesheetRepo) ListWithFilter(_ context.Context, filter repository.TimesheetFilter) ([]domain.TimesheetEntry, error) {
	var result []domain.TimesheetEntry
	for _, entry := range r.entries {
		if filter.UserID != nil && entry.UserID != *filter.UserID {
			continue
		}
		if filter.CampaignID != nil && entry.CampaignID != *filter.CampaignID {
			continue
		}
		if filter.Status != nil && entry.Status != *filter.Status {
			continue
		}
		if filter.StartDate != nil && entry.Date < *filter.StartDate {
			continue
		}
		if filter.EndDate != nil && entry.Date > *filter.EndDate {
			continue
		}
		result = append(result, *entry)
	}
	return result, nil
}

func (r *fakeTimesheetRepo) UpdateStatus(_ context.Context, id string, from, to domain.TimesheetStatus, change repository.StatusChange) (*domain.TimesheetEntry, error) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	current := entry.Status
	if r.raceStatus != nil {
		current = *r.raceStatus
		r.raceStatus = nil
	}
	if current != from {
		return nil, repository.ErrStaleStatus
	}
	entry.Status = to
	if change.SubmittedAt != nil {
		entry.SubmittedAt = change.SubmittedAt
	}
	if change.ApproverID != nil {
		entry.ApproverID = change.ApproverID
	}
	if change.Comments != nil {
		entry.ApproverComments = change.Comments
	}
	if change.DecisionAt != nil {
		entry.DecisionAt = change.DecisionAt
	}
	entry.UpdatedAt = time.Now()
	copied := *entry
	return &copied, nil
}

func (r *fakeTimesheetRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.entries[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.entries, id)
	return nil
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*domain.User)}
	for _, user := range users {
		r.users[user.ID] = user
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = fmt.Sprintf("u-%d", len(r.users)+1)
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ListWithFilter(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	var result []domain.User
	for _, user := range r.users {
		if filter.ID != nil && user.ID != *filter.ID {
			continue
		}
		if filter.CampaignID != nil && (user.CampaignID == nil || *user.CampaignID != *filter.CampaignID) {
			continue
		}
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		if filter.ActiveOnly && !user.IsActive {
			continue
		}
		result = append(result, *user)
	}
	return result, nil
}

func (r *fakeUserRepo) SetActive(_ context.Context, id string, active bool) error {
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.IsActive = active
	return nil
}

type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func strPtr(s string) *string { return &s }

func memberIdentity(userID, campaignID string) *auth.Identity {
	return &auth.Identity{UserID: userID, Role: domain.RoleTeamMember, CampaignID: strPtr(campaignID)}
}

func leadIdentity(userID, campaignID string) *auth.Identity {
	return &auth.Identity{UserID: userID, Role: domain.RoleCampaignLead, CampaignID: strPtr(campaignID)}
}

func adminIdentity() *auth.Identity {
	return &auth.Identity{UserID: "admin-1", Role: domain.RoleAdmin}
}

func newTestTimesheetService() (*TimesheetService, *fakeTimesheetRepo, *recordingDispatcher) {
	repo := newFakeTimesheetRepo()
	users := newFakeUserRepo(
		&domain.User{ID: "member-1", Email: "m1@example.com", Role: domain.RoleTeamMember, CampaignID: strPtr("camp-1"), IsActive: true},
		&domain.User{ID: "member-2", Email: "m2@example.com", Role: domain.RoleTeamMember, CampaignID: strPtr("camp-2"), IsActive: true},
	)
	dispatcher := &recordingDispatcher{}
	svc := NewTimesheetService(TimesheetDependencies{
		TimesheetRepo: repo,
		UserRepo:      users,
		Dispatcher:    dispatcher,
	})
	return svc, repo, dispatcher
}

func domainErrCode(t *testing.T, err error) string {
	t.Helper()
	domainErr := apperrors.ToDomainError(err)
	require.NotNil(t, domainErr)
	return domainErr.Code
}

func TestCreateRejectsMemberWithoutCampaign(t *testing.T) {
	svc, repo, _ := newTestTimesheetService()

	// a token issued before the user was assigned to a campaign
	unassigned := &auth.Identity{UserID: "member-1", Role: domain.RoleTeamMember}
	_, err := svc.Create(context.Background(), unassigned, TimesheetCreateInput{Date: "2026-03-02"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))
	assert.Empty(t, repo.entries)
}

func TestCreatePinsTeamMemberToOwnIdentity(t *testing.T) {
	svc, _, _ := newTestTimesheetService()

	entry, err := svc.Create(context.Background(), memberIdentity("member-1", "camp-1"), TimesheetCreateInput{
		UserID:     "someone-else",
		CampaignID: "other-campaign",
		Date:       "2026-03-02",
	})
	require.NoError(t, err)
	assert.Equal(t, "member-1", entry.UserID)
	assert.Equal(t, "camp-1", entry.CampaignID)
	assert.Equal(t, domain.TimesheetStatusDraft, entry.Status)
	assert.Equal(t, domain.VacationNone, entry.VacationType)
}

func TestCreateRejectsDuplicateDate(t *testing.T) {
	svc, _, _ := newTestTimesheetService()
	identity := memberIdentity("member-1", "camp-1")

	_, err := svc.Create(context.Background(), identity, TimesheetCreateInput{Date: "2026-03-02"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), identity, TimesheetCreateInput{Date: "2026-03-02"})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", domainErrCode(t, err))
}

func TestCreateLeadRequiresUserInCampaign(t *testing.T) {
	svc, _, _ := newTestTimesheetService()

	_, err := svc.Create(context.Background(), leadIdentity("lead-1", "camp-1"), TimesheetCreateInput{
		UserID: "member-2",
		Date:   "2026-03-02",
	})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", domainErrCode(t, err))

	entry, err := svc.Create(context.Background(), leadIdentity("lead-1", "camp-1"), TimesheetCreateInput{
		UserID: "member-1",
		Date:   "2026-03-02",
	})
	require.NoError(t, err)
	assert.Equal(t, "member-1", entry.UserID)
	assert.Equal(t, "camp-1", entry.CampaignID)
}

func TestSubmitFromDraftPublishesEvent(t *testing.T) {
	svc, _, dispatcher := newTestTimesheetService()
	identity := memberIdentity("member-1", "camp-1")

	entry, err := svc.Create(context.Background(), identity, TimesheetCreateInput{Date: "2026-03-02"})
	require.NoError(t, err)

	submitted, err := svc.Submit(context.Background(), identity, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TimesheetStatusSubmitted, submitted.Status)
	require.NotNil(t, submitted.SubmittedAt)

	require.Len(t, dispatcher.published, 1)
	assert.Equal(t, events.EventTimesheetSubmitted, dispatcher.published[0].Type)
	assert.Equal(t, entry.ID, dispatcher.published[0].TimesheetID)
}

func TestSubmitTwiceFails(t *testing.T) {
	svc, _, _ := newTestTimesheetService()
	identity := memberIdentity("member-1", "camp-1")

	entry, err := svc.Create(context.Background(), identity, TimesheetCreateInput{Date: "2026-03-02"})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), identity, entry.ID)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), identity, entry.ID)
	require.Error(t, err)
	assert.Equal(t, "INVALID_TRANSITION", domainErrCode(t, err))
}

func TestSubmitLosesRaceCleanly(t *testing.T) {
	svc, repo, _ := newTestTimesheetService()
	identity := memberIdentity("member-1", "camp-1")

	entry, err := svc.Create(context.Background(), identity, TimesheetCreateInput{Date: "2026-03-02"})
	require.NoError(t, err)

	submitted := domain.TimesheetStatusSubmitted
	repo.raceStatus = &submitted

	_, err = svc.Submit(context.Background(), identity, entry.ID)
	require.Error(t, err)
	assert.Equal(t, "INVALID_TRANSITION", domainErrCode(t, err))
}

func TestApproveRequiresSubmitted(t *testing.T) {
	svc, _, _ := newTestTimesheetService()
	member := memberIdentity("member-1", "camp-1")
	lead := leadIdentity("lead-1", "camp-1")

	entry, err := svc.Create(context.Background(), member, TimesheetCreateInput{Date: "2026-03-02"})
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), lead, entry.ID, nil)
	require.Error(t, err)
	assert.Equal(t, "INVALID_TRANSITION", domainErrCode(t, err))
}

func TestApproveRecordsDecision(t *testing.T) {
	svc, _, dispatcher := newTestTimesheetService()
	member := memberIdentity("member-1", "camp-1")
	lead := leadIdentity("lead-1", "camp-1")

	entry, err := svc.Create(context.Background(), member, TimesheetCreateInput{Date: "2026-03-02"})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), member, entry.ID)
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), lead, entry.ID, strPtr("looks good"))
	require.NoError(t, err)
	assert.Equal(t, domain.TimesheetStatusApproved, approved.Status)
	require.NotNil(t, approved.ApproverID)
	assert.Equal(t, "lead-1", *approved.ApproverID)
	require.NotNil(t, approved.DecisionAt)

	require.Len(t, dispatcher.published, 2)
	assert.Equal(t, events.EventTimesheetApproved, dispatcher.published[1].Type)
}

func TestApproveOutsideCampaignForbidden(t *testing.T) {
	svc, _, _ := newTestTimesheetService()
	member := memberIdentity("member-1", "camp-1")

	entry, err := svc.Create(context.Background(), member, TimesheetCreateInput{Date: "2026-03-02"})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), member, entry.ID)
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), leadIdentity("lead-2", "camp-2"), entry.ID, nil)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", domainErrCode(t, err))
}

func TestRejectRequiresComments(t *testing.T) {
	svc, _, _ := newTestTimesheetService()
	member := memberIdentity("member-1", "camp-1")
	lead := leadIdentity("lead-1", "camp-1")

	entry, err := svc.Create(context.Background(), member, TimesheetCreateInput{Date: "2026-03-02"})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), member, entry.ID)
	require.NoError(t, err)

	_, err = svc.Reject(context.Background(), lead, entry.ID, nil)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))

	rejected, err := svc.Reject(context.Background(), lead, entry.ID, strPtr("missing clock out"))
	require.NoError(t, err)
	assert.Equal(t, domain.TimesheetStatusRejected, rejected.Status)
}

func TestRejectedIsTerminal(t *testing.T) {
	svc, _, _ := newTestTimesheetService()
	member := memberIdentity("member-1", "camp-1")
	lead := leadIdentity("lead-1", "camp-1")

	entry, err := svc.Create(context.Background(), member, TimesheetCreateInput{Date: "2026-03-02"})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), member, entry.ID)
	require.NoError(t, err)
	_, err = svc.Reject(context.Background(), lead, entry.ID, strPtr("redo"))
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), member, entry.ID)
	require.Error(t, err)
	assert.Equal(t, "INVALID_TRANSITION", domainErrCode(t, err))

	_, err = svc.Approve(context.Background(), lead, entry.ID, nil)
	require.Error(t, err)
	assert.Equal(t, "INVALID_TRANSITION", domainErrCode(t, err))
}

func TestUpdateBlockedAfterSubmit(t *testing.T) {
	svc, _, _ := newTestTimesheetService()
	member := memberIdentity("member-1", "camp-1")

	entry, err := svc.Create(context.Background(), member, TimesheetCreateInput{Date: "2026-03-02"})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), member, entry.ID)
	require.NoError(t, err)

	now := time.Now()
	_, err = svc.Update(context.Background(), member, entry.ID, TimesheetUpdateInput{TimeIn: &now})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))
}

func TestUpdateRecalculatesHours(t *testing.T) {
	svc, _, _ := newTestTimesheetService()
	member := memberIdentity("member-1", "camp-1")

	entry, err := svc.Create(context.Background(), member, TimesheetCreateInput{Date: "2026-03-02"})
	require.NoError(t, err)
	assert.Zero(t, entry.TotalPaidHours)

	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	out := time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC)
	updated, err := svc.Update(context.Background(), member, entry.ID, TimesheetUpdateInput{
		TimeIn:  &in,
		TimeOut: &out,
	})
	require.NoError(t, err)
	assert.InDelta(t, 8.0, updated.TotalPaidHours, 0.001)
}

func TestDeleteMemberOnlyDrafts(t *testing.T) {
	svc, _, _ := newTestTimesheetService()
	member := memberIdentity("member-1", "camp-1")

	entry, err := svc.Create(context.Background(), member, TimesheetCreateInput{Date: "2026-03-02"})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), member, entry.ID)
	require.NoError(t, err)

	err = svc.Delete(context.Background(), member, entry.ID)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))

	require.NoError(t, svc.Delete(context.Background(), adminIdentity(), entry.ID))
}

func TestListScopesToRole(t *testing.T) {
	svc, _, _ := newTestTimesheetService()
	ctx := context.Background()

	_, err := svc.Create(ctx, memberIdentity("member-1", "camp-1"), TimesheetCreateInput{Date: "2026-03-02"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, memberIdentity("member-2", "camp-2"), TimesheetCreateInput{Date: "2026-03-02"})
	require.NoError(t, err)

	mine, err := svc.List(ctx, memberIdentity("member-1", "camp-1"), TimesheetListFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "member-1", mine[0].UserID)

	campaign, err := svc.List(ctx, leadIdentity("lead-2", "camp-2"), TimesheetListFilter{})
	require.NoError(t, err)
	require.Len(t, campaign, 1)
	assert.Equal(t, "camp-2", campaign[0].CampaignID)

	all, err := svc.List(ctx, adminIdentity(), TimesheetListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetScopeDenied(t *testing.T) {
	svc, _, _ := newTestTimesheetService()
	ctx := context.Background()

	entry, err := svc.Create(ctx, memberIdentity("member-1", "camp-1"), TimesheetCreateInput{Date: "2026-03-02"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, memberIdentity("member-2", "camp-2"), entry.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", domainErrCode(t, err))

	_, err = svc.Get(ctx, adminIdentity(), entry.ID)
	require.NoError(t, err)
}

func TestGetMissingEntry(t *testing.T) {
	svc, _, _ := newTestTimesheetService()
	_, err := svc.Get(context.Background(), adminIdentity(), "nope")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", domainErrCode(t, err))
}
