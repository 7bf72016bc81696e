package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/auth"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/domain"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/repository"
	apperrors "github.com/Kevin-Shelton/inv-timesheet-backend/pkg/util"
)

// ReportService aggregates timesheet data into monthly summaries. Reports
// are JSON only; CSV/PDF rendering is out of scope.
type ReportService struct {
	timesheets repository.TimesheetRepository
	users      repository.UserRepository
	campaigns  repository.CampaignRepository
	schedules  repository.ScheduleRepository
}

// ReportDependencies bundles requirements for the report service.
type ReportDependencies struct {
	TimesheetRepo repository.TimesheetRepository
	UserRepo      repository.UserRepository
	CampaignRepo  repository.CampaignRepository
	ScheduleRepo  repository.ScheduleRepository
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	return &ReportService{
		timesheets: deps.TimesheetRepo,
		users:      deps.UserRepo,
		campaigns:  deps.CampaignRepo,
		schedules:  deps.ScheduleRepo,
	}
}

// ReportPeriod describes the month a report covers.
type ReportPeriod struct {
	Month                  string  `json:"month"`
	StartDate              string  `json:"start_date"`
	EndDate                string  `json:"end_date"`
	WorkingDays            int     `json:"working_days"`
	ScheduledHoursPerDay   float64 `json:"scheduled_hours_per_day"`
	ScheduledHoursPerMonth float64 `json:"scheduled_hours_per_month"`
}

// UserReportRow aggregates one user's month.
type UserReportRow struct {
	UserID         string  `json:"user_id"`
	FullName       string  `json:"full_name"`
	EntryCount     int     `json:"entry_count"`
	WorkedHours    float64 `json:"worked_hours"`
	PayrollCost    float64 `json:"payroll_cost"`
	BillableAmount float64 `json:"billable_amount"`
	UtilizationPct float64 `json:"utilization_pct"`
}

// ReportTotals rolls rows up.
type ReportTotals struct {
	WorkedHours    float64 `json:"total_worked_hours"`
	PayrollCost    float64 `json:"total_payroll_cost"`
	BillableAmount float64 `json:"total_billable_amount"`
}

// CampaignSummary is the per-campaign monthly report.
type CampaignSummary struct {
	Campaign *domain.Campaign `json:"campaign"`
	Period   ReportPeriod     `json:"period"`
	Users    []UserReportRow  `json:"users"`
	Totals   ReportTotals     `json:"totals"`
}

// OrganizationSummary rolls campaign summaries up for admins.
type OrganizationSummary struct {
	Period    ReportPeriod      `json:"period"`
	Campaigns []CampaignSummary `json:"campaigns"`
	Totals    ReportTotals      `json:"totals"`
}

// UserTimesheetReport lists one user's month with totals.
type UserTimesheetReport struct {
	User    *domain.User                      `json:"user"`
	Period  ReportPeriod                      `json:"period"`
	Entries []domain.TimesheetEntry           `json:"entries"`
	ByState map[domain.TimesheetStatus]int    `json:"entries_by_status"`
	Totals  struct {
		WorkedHours  float64 `json:"worked_hours"`
		UnpaidBreaks float64 `json:"unpaid_breaks"`
	} `json:"totals"`
}

// CampaignSummaryReport builds the monthly summary for one campaign. Leads
// are pinned to their own campaign; admins choose.
func (s *ReportService) CampaignSummaryReport(ctx context.Context, identity *auth.Identity, campaignID, month string) (*CampaignSummary, error) {
	if identity.Role == domain.RoleCampaignLead {
		if identity.CampaignID == nil {
			return nil, apperrors.NewForbidden("No campaign assigned")
		}
		campaignID = *identity.CampaignID
	}
	if campaignID == "" {
		return nil, apperrors.NewValidationError("campaign_id parameter is required", nil)
	}

	period, err := monthPeriod(month)
	if err != nil {
		return nil, err
	}

	campaign, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("campaign", nil)
		}
		return nil, err
	}

	scheduledPerDay := 8.0
	if schedules, err := s.schedules.ListByCampaign(ctx, &campaignID); err == nil && len(schedules) > 0 {
		scheduledPerDay = schedules[0].DailyWorkHours()
	}
	period.ScheduledHoursPerDay = scheduledPerDay
	period.ScheduledHoursPerMonth = round2(float64(period.WorkingDays) * scheduledPerDay)

	users, err := s.users.ListWithFilter(ctx, repository.UserFilter{CampaignID: &campaignID})
	if err != nil {
		return nil, err
	}

	entries, err := s.timesheets.ListWithFilter(ctx, repository.TimesheetFilter{
		CampaignID: &campaignID,
		StartDate:  &period.StartDate,
		EndDate:    &period.EndDate,
		Limit:      10000,
	})
	if err != nil {
		return nil, err
	}

	hoursByUser := make(map[string]float64, len(users))
	countByUser := make(map[string]int, len(users))
	for _, entry := range entries {
		hoursByUser[entry.UserID] += entry.TotalPaidHours
		countByUser[entry.UserID]++
	}

	summary := &CampaignSummary{Campaign: campaign, Period: period}
	for _, user := range users {
		worked := round2(hoursByUser[user.ID])
		row := UserReportRow{
			UserID:         user.ID,
			FullName:       user.FullName,
			EntryCount:     countByUser[user.ID],
			WorkedHours:    worked,
			PayrollCost:    round2(worked * user.PayRatePerHour),
			BillableAmount: round2(worked * campaign.BillingRatePerHour),
		}
		if period.ScheduledHoursPerMonth > 0 {
			row.UtilizationPct = round2(worked / period.ScheduledHoursPerMonth * 100)
		}
		summary.Users = append(summary.Users, row)
		summary.Totals.WorkedHours = round2(summary.Totals.WorkedHours + row.WorkedHours)
		summary.Totals.PayrollCost = round2(summary.Totals.PayrollCost + row.PayrollCost)
		summary.Totals.BillableAmount = round2(summary.Totals.BillableAmount + row.BillableAmount)
	}
	return summary, nil
}

// OrganizationSummaryReport rolls every campaign up for one month.
func (s *ReportService) OrganizationSummaryReport(ctx context.Context, identity *auth.Identity, month string) (*OrganizationSummary, error) {
	period, err := monthPeriod(month)
	if err != nil {
		return nil, err
	}

	campaigns, err := s.campaigns.List(ctx)
	if err != nil {
		return nil, err
	}

	org := &OrganizationSummary{Period: period}
	for _, campaign := range campaigns {
		summary, err := s.CampaignSummaryReport(ctx, identity, campaign.ID, month)
		if err != nil {
			return nil, err
		}
		org.Campaigns = append(org.Campaigns, *summary)
		org.Totals.WorkedHours = round2(org.Totals.WorkedHours + summary.Totals.WorkedHours)
		org.Totals.PayrollCost = round2(org.Totals.PayrollCost + summary.Totals.PayrollCost)
		org.Totals.BillableAmount = round2(org.Totals.BillableAmount + summary.Totals.BillableAmount)
	}
	return org, nil
}

// UserTimesheetMonthReport lists one user's entries for a month. Team
// members may only request themselves; leads only users in their campaign.
func (s *ReportService) UserTimesheetMonthReport(ctx context.Context, identity *auth.Identity, userID, month string) (*UserTimesheetReport, error) {
	if userID == "" {
		userID = identity.UserID
	}
	if identity.Role == domain.RoleTeamMember && userID != identity.UserID {
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

	period, err := monthPeriod(month)
	if err != nil {
		return nil, err
	}

	entries, err := s.timesheets.ListWithFilter(ctx, repository.TimesheetFilter{
		UserID:    &userID,
		StartDate: &period.StartDate,
		EndDate:   &period.EndDate,
		Limit:     100,
	})
	if err != nil {
		return nil, err
	}

	report := &UserTimesheetReport{
		User:    user,
		Period:  period,
		Entries: entries,
		ByState: make(map[domain.TimesheetStatus]int),
	}
	for _, entry := range entries {
		report.ByState[entry.Status]++
		report.Totals.WorkedHours = round2(report.Totals.WorkedHours + entry.TotalPaidHours)
		report.Totals.UnpaidBreaks = round2(report.Totals.UnpaidBreaks + entry.TotalUnpaidBreaks)
	}
	return report, nil
}

// monthPeriod expands a YYYY-MM value into date bounds plus the weekday
// count used for scheduled-hours math.
func monthPeriod(month string) (ReportPeriod, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return ReportPeriod{}, apperrors.NewValidationError("month parameter is required in format YYYY-MM", nil)
	}
	end := start.AddDate(0, 1, -1)

	workingDays := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			workingDays++
		}
	}

	return ReportPeriod{
		Month:       month,
		StartDate:   start.Format("2006-01-02"),
		EndDate:     fmt.Sprintf("%s-%02d", month, end.Day()),
		WorkingDays: workingDays,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
