package domain

import (
	"math"
	"time"
)

// TimesheetStatus enumerates approval workflow states.
type TimesheetStatus string

const (
	TimesheetStatusDraft     TimesheetStatus = "draft"
	TimesheetStatusSubmitted TimesheetStatus = "submitted"
	TimesheetStatusApproved  TimesheetStatus = "approved"
	TimesheetStatusRejected  TimesheetStatus = "rejected"
)

// VacationType marks non-worked days.
type VacationType string

const (
	VacationNone    VacationType = "none"
	VacationDay     VacationType = "vacation"
	VacationSick    VacationType = "sick"
	VacationHoliday VacationType = "holiday"
)

// TimesheetEntry records one user's clock times for a single date.
type TimesheetEntry struct {
	ID                string
	UserID            string
	CampaignID        string
	Date              string // YYYY-MM-DD
	TimeIn            *time.Time
	TimeOut           *time.Time
	LunchStart        *time.Time
	LunchEnd          *time.Time
	Break1Start       *time.Time
	Break1End         *time.Time
	Break2Start       *time.Time
	Break2End         *time.Time
	VacationType      VacationType
	Status            TimesheetStatus
	TotalPaidHours    float64
	TotalUnpaidBreaks float64
	SubmittedAt       *time.Time
	ApproverID        *string
	ApproverComments  *string
	DecisionAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Editable reports whether an owner may still modify the entry.
func (e *TimesheetEntry) Editable() bool {
	return e.Status == TimesheetStatusDraft || e.Status == TimesheetStatusRejected
}

// CanTransition reports whether the workflow allows moving between two states.
// draft -> submitted -> {approved, rejected}; approved and rejected are terminal.
func CanTransition(from, to TimesheetStatus) bool {
	switch from {
	case TimesheetStatusDraft:
		return to == TimesheetStatusSubmitted
	case TimesheetStatusSubmitted:
		return to == TimesheetStatusApproved || to == TimesheetStatusRejected
	}
	return false
}

// CalculateHours derives paid hours and unpaid break hours from clock times.
// Vacation days count as a flat 8 paid hours; entries without both clock
// times contribute nothing.
func (e *TimesheetEntry) CalculateHours() (paid, unpaidBreaks float64) {
	if e.VacationType != "" && e.VacationType != VacationNone {
		return 8.0, 0.0
	}
	if e.TimeIn == nil || e.TimeOut == nil {
		return 0.0, 0.0
	}

	total := e.TimeOut.Sub(*e.TimeIn).Hours()
	unpaidBreaks = spanHours(e.LunchStart, e.LunchEnd) +
		spanHours(e.Break1Start, e.Break1End) +
		spanHours(e.Break2Start, e.Break2End)

	paid = round2(total - unpaidBreaks)
	unpaidBreaks = round2(unpaidBreaks)
	return paid, unpaidBreaks
}

func spanHours(start, end *time.Time) float64 {
	if start == nil || end == nil {
		return 0.0
	}
	return end.Sub(*start).Hours()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
