package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/auth"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/domain"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/events"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/repository"
	apperrors "github.com/Kevin-Shelton/inv-timesheet-backend/pkg/util"
)

// TimesheetService coordinates timesheet CRUD and the approval workflow.
type TimesheetService struct {
	timesheets repository.TimesheetRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// TimesheetDependencies bundles requirements for the timesheet service.
type TimesheetDependencies struct {
	TimesheetRepo repository.TimesheetRepository
	UserRepo      repository.UserRepository
	Dispatcher    events.Dispatcher
}

// NewTimesheetService constructs the service.
func NewTimesheetService(deps TimesheetDependencies) *TimesheetService {
	return &TimesheetService{
		timesheets: deps.TimesheetRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// TimesheetCreateInput describes a new entry.
type TimesheetCreateInput struct {
	UserID       string
	CampaignID   string
	Date         string
	TimeIn       *time.Time
	TimeOut      *time.Time
	LunchStart   *time.Time
	LunchEnd     *time.Time
	Break1Start  *time.Time
	Break1End    *time.Time
	Break2Start  *time.Time
	Break2End    *time.Time
	VacationType domain.VacationType
}

// TimesheetUpdateInput describes mutable clock fields. Nil leaves a field
// untouched.
type TimesheetUpdateInput struct {
	TimeIn       *time.Time
	TimeOut      *time.Time
	LunchStart   *time.Time
	LunchEnd     *time.Time
	Break1Start  *time.Time
	Break1End    *time.Time
	Break2Start  *time.Time
	Break2End    *time.Time
	VacationType *domain.VacationType
}

// TimesheetListFilter narrows listings.
type TimesheetListFilter struct {
	UserID     *string
	CampaignID *string
	Status     *domain.TimesheetStatus
	StartDate  *string
	EndDate    *string
	Limit      int
	Offset     int
}

// List returns entries visible to the caller: admins see everything, leads
// their campaign, team members their own rows.
func (s *TimesheetService) List(ctx context.Context, identity *auth.Identity, filter TimesheetListFilter) ([]domain.TimesheetEntry, error) {
	repoFilter := repository.TimesheetFilter{
		Status:    filter.Status,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
		Limit:     filter.Limit,
		Offset:    filter.Offset,
	}

	switch identity.Role {
	case domain.RoleAdmin:
		repoFilter.UserID = filter.UserID
		repoFilter.CampaignID = filter.CampaignID
	case domain.RoleCampaignLead:
		repoFilter.CampaignID = identity.CampaignID
		repoFilter.UserID = filter.UserID
	default:
		userID := identity.UserID
		repoFilter.UserID = &userID
	}

	return s.timesheets.ListWithFilter(ctx, repoFilter)
}

// Get returns one entry, enforcing ownership and campaign scope.
func (s *TimesheetService) Get(ctx context.Context, identity *auth.Identity, id string) (*domain.TimesheetEntry, error) {
	entry, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkScope(identity, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Create inserts a new draft entry. Team members log their own time; leads
// log for users in their campaign; admins for anyone. One entry per user
// per date.
func (s *TimesheetService) Create(ctx context.Context, identity *auth.Identity, input TimesheetCreateInput) (*domain.TimesheetEntry, error) {
	if input.Date == "" {
		return nil, apperrors.NewValidationError("date is required", nil)
	}

	switch identity.Role {
	case domain.RoleTeamMember:
		input.UserID = identity.UserID
		if identity.CampaignID != nil {
			input.CampaignID = *identity.CampaignID
		}
	case domain.RoleCampaignLead:
		if identity.CampaignID != nil {
			input.CampaignID = *identity.CampaignID
		}
		if input.UserID == "" {
			return nil, apperrors.NewValidationError("user_id is required", nil)
		}
		target, err := s.users.GetByID(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("user", nil)
			}
			return nil, err
		}
		if !sameCampaign(identity.CampaignID, target.CampaignID) {
			return nil, apperrors.NewForbidden("User does not belong to your campaign")
		}
	default: // admin
		if input.UserID == "" {
			return nil, apperrors.NewValidationError("user_id is required", nil)
		}
	}
	// catches callers whose token carries no campaign assignment; without
	// this the insert fails at the database as an opaque FK error
	if input.CampaignID == "" {
		return nil, apperrors.NewValidationError("campaign_id is required", nil)
	}

	exists, err := s.timesheets.ExistsForUserAndDate(ctx, input.UserID, input.Date)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflict("Timesheet entry already exists for this date", nil)
	}

	entry := &domain.TimesheetEntry{
		UserID:       input.UserID,
		CampaignID:   input.CampaignID,
		Date:         input.Date,
		TimeIn:       input.TimeIn,
		TimeOut:      input.TimeOut,
		LunchStart:   input.LunchStart,
		LunchEnd:     input.LunchEnd,
		Break1Start:  input.Break1Start,
		Break1End:    input.Break1End,
		Break2Start:  input.Break2Start,
		Break2End:    input.Break2End,
		VacationType: input.VacationType,
		Status:       domain.TimesheetStatusDraft,
	}
	if entry.VacationType == "" {
		entry.VacationType = domain.VacationNone
	}
	entry.TotalPaidHours, entry.TotalUnpaidBreaks = entry.CalculateHours()

	if err := s.timesheets.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Update modifies clock fields and rederives hours. Team members may only
// touch their own draft or rejected entries.
func (s *TimesheetService) Update(ctx context.Context, identity *auth.Identity, id string, input TimesheetUpdateInput) (*domain.TimesheetEntry, error) {
	entry, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkScope(identity, entry); err != nil {
		return nil, err
	}
	if identity.Role == domain.RoleTeamMember && !entry.Editable() {
		return nil, apperrors.NewValidationError("Cannot update timesheet in current status",
			map[string]any{"status": entry.Status})
	}

	if input.TimeIn != nil {
		entry.TimeIn = input.TimeIn
	}
	if input.TimeOut != nil {
		entry.TimeOut = input.TimeOut
	}
	if input.LunchStart != nil {
		entry.LunchStart = input.LunchStart
	}
	if input.LunchEnd != nil {
		entry.LunchEnd = input.LunchEnd
	}
	if input.Break1Start != nil {
		entry.Break1Start = input.Break1Start
	}
	if input.Break1End != nil {
		entry.Break1End = input.Break1End
	}
	if input.Break2Start != nil {
		entry.Break2Start = input.Break2Start
	}
	if input.Break2End != nil {
		entry.Break2End = input.Break2End
	}
	if input.VacationType != nil {
		entry.VacationType = *input.VacationType
	}
	entry.TotalPaidHours, entry.TotalUnpaidBreaks = entry.CalculateHours()

	if err := s.timesheets.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete removes an entry. Team members may only delete their own drafts.
func (s *TimesheetService) Delete(ctx context.Context, identity *auth.Identity, id string) error {
	entry, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkScope(identity, entry); err != nil {
		return err
	}
	if identity.Role == domain.RoleTeamMember && entry.Status != domain.TimesheetStatusDraft {
		return apperrors.NewValidationError("Can only delete timesheets in draft status", nil)
	}
	return s.timesheets.Delete(ctx, id)
}

// Submit moves draft -> submitted. The write is conditional on the entry
// still being in draft, so a concurrent transition loses cleanly instead of
// overwriting.
func (s *TimesheetService) Submit(ctx context.Context, identity *auth.Identity, id string) (*domain.TimesheetEntry, error) {
	entry, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkScope(identity, entry); err != nil {
		return nil, err
	}
	if !domain.CanTransition(entry.Status, domain.TimesheetStatusSubmitted) {
		return nil, invalidTransition(entry.Status, domain.TimesheetStatusSubmitted)
	}

	now := time.Now().UTC()
	updated, err := s.timesheets.UpdateStatus(ctx, id,
		domain.TimesheetStatusDraft, domain.TimesheetStatusSubmitted,
		repository.StatusChange{SubmittedAt: &now})
	if err != nil {
		return nil, s.mapStatusErr(err, entry.Status, domain.TimesheetStatusSubmitted)
	}

	s.publish(ctx, events.Event{
		Type:        events.EventTimesheetSubmitted,
		TimesheetID: updated.ID,
		ActorID:     identity.UserID,
		Payload: events.TimesheetSubmittedPayload{
			UserID:     updated.UserID,
			CampaignID: updated.CampaignID,
			Date:       updated.Date,
		},
	})
	return updated, nil
}

// Approve moves submitted -> approved. Campaign leads may only decide
// entries in their campaign; route middleware already excluded team members.
func (s *TimesheetService) Approve(ctx context.Context, identity *auth.Identity, id string, comments *string) (*domain.TimesheetEntry, error) {
	return s.decide(ctx, identity, id, domain.TimesheetStatusApproved, comments)
}

// Reject moves submitted -> rejected. A comment is mandatory so the owner
// knows what to fix.
func (s *TimesheetService) Reject(ctx context.Context, identity *auth.Identity, id string, comments *string) (*domain.TimesheetEntry, error) {
	if comments == nil || *comments == "" {
		return nil, apperrors.NewValidationError("Comments are required for rejection", nil)
	}
	return s.decide(ctx, identity, id, domain.TimesheetStatusRejected, comments)
}

func (s *TimesheetService) decide(ctx context.Context, identity *auth.Identity, id string, to domain.TimesheetStatus, comments *string) (*domain.TimesheetEntry, error) {
	entry, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if identity.Role == domain.RoleCampaignLead && !campaignMatches(identity.CampaignID, entry.CampaignID) {
		return nil, apperrors.NewForbidden("Access denied")
	}
	if !domain.CanTransition(entry.Status, to) {
		return nil, invalidTransition(entry.Status, to)
	}

	now := time.Now().UTC()
	approverID := identity.UserID
	updated, err := s.timesheets.UpdateStatus(ctx, id,
		domain.TimesheetStatusSubmitted, to,
		repository.StatusChange{
			ApproverID: &approverID,
			Comments:   comments,
			DecisionAt: &now,
		})
	if err != nil {
		return nil, s.mapStatusErr(err, entry.Status, to)
	}

	eventType := events.EventTimesheetApproved
	if to == domain.TimesheetStatusRejected {
		eventType = events.EventTimesheetRejected
	}
	s.publish(ctx, events.Event{
		Type:        eventType,
		TimesheetID: updated.ID,
		ActorID:     identity.UserID,
		Payload: events.TimesheetDecisionPayload{
			UserID:     updated.UserID,
			CampaignID: updated.CampaignID,
			Date:       updated.Date,
			OldStatus:  domain.TimesheetStatusSubmitted,
			NewStatus:  to,
			Comments:   comments,
		},
	})
	return updated, nil
}

func (s *TimesheetService) load(ctx context.Context, id string) (*domain.TimesheetEntry, error) {
	entry, err := s.timesheets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("timesheet entry", nil)
		}
		return nil, err
	}
	return entry, nil
}

// checkScope enforces read/write visibility: owners for team members,
// campaign for leads, unrestricted for admins.
func (s *TimesheetService) checkScope(identity *auth.Identity, entry *domain.TimesheetEntry) error {
	switch identity.Role {
	case domain.RoleTeamMember:
		if entry.UserID != identity.UserID {
			return apperrors.NewForbidden("Access denied")
		}
	case domain.RoleCampaignLead:
		if !campaignMatches(identity.CampaignID, entry.CampaignID) {
			return apperrors.NewForbidden("Access denied")
		}
	}
	return nil
}

func (s *TimesheetService) mapStatusErr(err error, from, to domain.TimesheetStatus) error {
	if errors.Is(err, repository.ErrStaleStatus) {
		return apperrors.NewInvalidTransition(
			fmt.Sprintf("timesheet status changed concurrently; cannot move to %s", to),
			map[string]any{"requested": string(to)})
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("timesheet entry", nil)
	}
	return err
}

func (s *TimesheetService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}

func invalidTransition(from, to domain.TimesheetStatus) error {
	return apperrors.NewInvalidTransition(
		fmt.Sprintf("cannot move timesheet from %s to %s", from, to),
		map[string]any{"from": string(from), "to": string(to)})
}

func campaignMatches(identityCampaign *string, entryCampaign string) bool {
	return identityCampaign != nil && *identityCampaign == entryCampaign
}
