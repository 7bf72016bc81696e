package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/domain"
)

type fakeCampaignRepo struct {
	campaigns map[string]*domain.Campaign
}

func newFakeCampaignRepo(campaigns ...*domain.Campaign) *fakeCampaignRepo {
	r := &fakeCampaignRepo{campaigns: make(map[string]*domain.Campaign)}
	for _, campaign := range campaigns {
		r.campaigns[campaign.ID] = campaign
	}
	return r
}

func (r *fakeCampaignRepo) Create(_ context.Context, campaign *domain.Campaign) error {
	r.campaigns[campaign.ID] = campaign
	return nil
}

func (r *fakeCampaignRepo) Update(_ context.Context, campaign *domain.Campaign) error {
	if _, ok := r.campaigns[campaign.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.campaigns[campaign.ID] = campaign
	return nil
}

func (r *fakeCampaignRepo) GetByID(_ context.Context, id string) (*domain.Campaign, error) {
	campaign, ok := r.campaigns[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return campaign, nil
}

func (r *fakeCampaignRepo) GetByName(_ context.Context, name string) (*domain.Campaign, error) {
	for _, campaign := range r.campaigns {
		if campaign.Name == name {
			return campaign, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCampaignRepo) List(_ context.Context) ([]domain.Campaign, error) {
	var result []domain.Campaign
	for _, campaign := range r.campaigns {
		result = append(result, *campaign)
	}
	return result, nil
}

func (r *fakeCampaignRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.campaigns[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.campaigns, id)
	return nil
}

type fakeScheduleRepo struct {
	schedules []*domain.Schedule
}

func (r *fakeScheduleRepo) Create(_ context.Context, schedule *domain.Schedule) error {
	r.schedules = append(r.schedules, schedule)
	return nil
}

func (r *fakeScheduleRepo) Update(_ context.Context, _ *domain.Schedule) error { return nil }

func (r *fakeScheduleRepo) GetByID(_ context.Context, id string) (*domain.Schedule, error) {
	for _, schedule := range r.schedules {
		if schedule.ID == id {
			return schedule, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeScheduleRepo) GetByCampaignAndName(_ context.Context, campaignID, name string) (*domain.Schedule, error) {
	for _, schedule := range r.schedules {
		if schedule.CampaignID == campaignID && schedule.Name == name {
			return schedule, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeScheduleRepo) ListByCampaign(_ context.Context, campaignID *string) ([]domain.Schedule, error) {
	var result []domain.Schedule
	for _, schedule := range r.schedules {
		if campaignID != nil && schedule.CampaignID != *campaignID {
			continue
		}
		result = append(result, *schedule)
	}
	return result, nil
}

func (r *fakeScheduleRepo) Delete(_ context.Context, _ string) error { return nil }

func newTestReportService() (*ReportService, *fakeTimesheetRepo) {
	timesheets := newFakeTimesheetRepo()
	users := newFakeUserRepo(
		&domain.User{ID: "member-1", FullName: "Alice Example", Role: domain.RoleTeamMember,
			CampaignID: strPtr("camp-1"), PayRatePerHour: 20, IsActive: true},
		&domain.User{ID: "member-2", FullName: "Bob Example", Role: domain.RoleTeamMember,
			CampaignID: strPtr("camp-1"), PayRatePerHour: 25, IsActive: true},
	)
	campaigns := newFakeCampaignRepo(
		&domain.Campaign{ID: "camp-1", Name: "Acme Support", BillingRatePerHour: 50, IsActive: true},
	)
	schedules := &fakeScheduleRepo{schedules: []*domain.Schedule{{
		ID:                   "sched-1",
		CampaignID:           "camp-1",
		Name:                 "Day Shift",
		WorkStartTime:        "09:00:00",
		WorkEndTime:          "18:00:00",
		LunchDurationMinutes: 60,
	}}}

	svc := NewReportService(ReportDependencies{
		TimesheetRepo: timesheets,
		UserRepo:      users,
		CampaignRepo:  campaigns,
		ScheduleRepo:  schedules,
	})
	return svc, timesheets
}

func addApprovedEntry(t *testing.T, repo *fakeTimesheetRepo, userID, campaignID, date string, hours float64) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &domain.TimesheetEntry{
		UserID:         userID,
		CampaignID:     campaignID,
		Date:           date,
		Status:         domain.TimesheetStatusApproved,
		TotalPaidHours: hours,
	}))
}

func TestMonthPeriod(t *testing.T) {
	period, err := monthPeriod("2026-03")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", period.StartDate)
	assert.Equal(t, "2026-03-31", period.EndDate)
	// March 2026 has 22 weekdays
	assert.Equal(t, 22, period.WorkingDays)

	_, err = monthPeriod("march")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))
}

func TestCampaignSummaryReport(t *testing.T) {
	svc, timesheets := newTestReportService()
	addApprovedEntry(t, timesheets, "member-1", "camp-1", "2026-03-02", 8)
	addApprovedEntry(t, timesheets, "member-1", "camp-1", "2026-03-03", 8)
	addApprovedEntry(t, timesheets, "member-2", "camp-1", "2026-03-02", 4)
	// outside the requested month
	addApprovedEntry(t, timesheets, "member-1", "camp-1", "2026-04-01", 8)

	summary, err := svc.CampaignSummaryReport(context.Background(), adminIdentity(), "camp-1", "2026-03")
	require.NoError(t, err)

	assert.Equal(t, "camp-1", summary.Campaign.ID)
	assert.InDelta(t, 8.0, summary.Period.ScheduledHoursPerDay, 0.001)
	assert.InDelta(t, 176.0, summary.Period.ScheduledHoursPerMonth, 0.001)

	require.Len(t, summary.Users, 2)
	rows := map[string]UserReportRow{}
	for _, row := range summary.Users {
		rows[row.UserID] = row
	}

	alice := rows["member-1"]
	assert.Equal(t, 2, alice.EntryCount)
	assert.InDelta(t, 16.0, alice.WorkedHours, 0.001)
	assert.InDelta(t, 320.0, alice.PayrollCost, 0.001)
	assert.InDelta(t, 800.0, alice.BillableAmount, 0.001)
	assert.InDelta(t, 9.09, alice.UtilizationPct, 0.01)

	bob := rows["member-2"]
	assert.InDelta(t, 4.0, bob.WorkedHours, 0.001)
	assert.InDelta(t, 100.0, bob.PayrollCost, 0.001)

	assert.InDelta(t, 20.0, summary.Totals.WorkedHours, 0.001)
	assert.InDelta(t, 420.0, summary.Totals.PayrollCost, 0.001)
	assert.InDelta(t, 1000.0, summary.Totals.BillableAmount, 0.001)
}

func TestCampaignSummaryLeadPinnedToOwnCampaign(t *testing.T) {
	svc, timesheets := newTestReportService()
	addApprovedEntry(t, timesheets, "member-1", "camp-1", "2026-03-02", 8)

	// lead asks for a different campaign id; the report still covers theirs
	summary, err := svc.CampaignSummaryReport(context.Background(), leadIdentity("lead-1", "camp-1"), "camp-other", "2026-03")
	require.NoError(t, err)
	assert.Equal(t, "camp-1", summary.Campaign.ID)
}

func TestCampaignSummaryUnknownCampaign(t *testing.T) {
	svc, _ := newTestReportService()
	_, err := svc.CampaignSummaryReport(context.Background(), adminIdentity(), "nope", "2026-03")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", domainErrCode(t, err))
}

func TestOrganizationSummaryReport(t *testing.T) {
	svc, timesheets := newTestReportService()
	addApprovedEntry(t, timesheets, "member-1", "camp-1", "2026-03-02", 8)

	org, err := svc.OrganizationSummaryReport(context.Background(), adminIdentity(), "2026-03")
	require.NoError(t, err)
	require.Len(t, org.Campaigns, 1)
	assert.InDelta(t, 8.0, org.Totals.WorkedHours, 0.001)
}

func TestUserTimesheetMonthReportScope(t *testing.T) {
	svc, timesheets := newTestReportService()
	addApprovedEntry(t, timesheets, "member-1", "camp-1", "2026-03-02", 8)

	// a team member cannot request another user's report
	_, err := svc.UserTimesheetMonthReport(context.Background(), memberIdentity("member-2", "camp-1"), "member-1", "2026-03")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", domainErrCode(t, err))

	// default target is the caller
	report, err := svc.UserTimesheetMonthReport(context.Background(), memberIdentity("member-1", "camp-1"), "", "2026-03")
	require.NoError(t, err)
	assert.Equal(t, "member-1", report.User.ID)
	require.Len(t, report.Entries, 1)
	assert.Equal(t, 1, report.ByState[domain.TimesheetStatusApproved])
	assert.InDelta(t, 8.0, report.Totals.WorkedHours, 0.001)
}
