package events

import (
	"time"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTimesheetSubmitted EventType = "timesheet_submitted"
	EventTimesheetApproved  EventType = "timesheet_approved"
	EventTimesheetRejected  EventType = "timesheet_rejected"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	TimesheetID string      `json:"timesheet_id"`
	ActorID     string      `json:"actor_id"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// TimesheetSubmittedPayload payload.
type TimesheetSubmittedPayload struct {
	UserID     string `json:"user_id"`
	CampaignID string `json:"campaign_id"`
	Date       string `json:"date"`
}

// TimesheetDecisionPayload payload for approve/reject events.
type TimesheetDecisionPayload struct {
	UserID     string                 `json:"user_id"`
	CampaignID string                 `json:"campaign_id"`
	Date       string                 `json:"date"`
	OldStatus  domain.TimesheetStatus `json:"old_status"`
	NewStatus  domain.TimesheetStatus `json:"new_status"`
	Comments   *string                `json:"comments,omitempty"`
}
