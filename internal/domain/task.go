package domain

import (
	"strconv"
	"time"
)

// TaskTemplate is a reusable task definition scoped to one campaign.
type TaskTemplate struct {
	ID             string
	CampaignID     string
	Name           string
	Description    string
	EstimatedHours float64
	IsBillable     bool
	IsDefault      bool
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TaskTimesheet tracks one task worked by one user across a week. It moves
// through the same draft/submitted/approved/rejected workflow as daily
// entries.
type TaskTimesheet struct {
	ID               string
	UserID           string
	CampaignID       string
	TaskTemplateID   *string
	TaskName         string
	TaskDescription  string
	WeekStartDate    string // YYYY-MM-DD
	WeekEndDate      string // YYYY-MM-DD, start + 6 days
	Status           TimesheetStatus
	Notes            string
	SubmittedAt      *time.Time
	ApproverID       *string
	ApproverComments *string
	DecisionAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Editable reports whether the owner may still change the week's entries.
func (t *TaskTimesheet) Editable() bool {
	return t.Status == TimesheetStatusDraft || t.Status == TimesheetStatusRejected
}

// TaskTimeEntry is the duration logged against a task for one day.
type TaskTimeEntry struct {
	ID              string
	TaskTimesheetID string
	EntryDate       string // YYYY-MM-DD
	DurationHours   int
	DurationMinutes int
	IsCompleted     bool
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Minutes returns the entry duration in whole minutes.
func (e *TaskTimeEntry) Minutes() int {
	return e.DurationHours*60 + e.DurationMinutes
}

// ValidTaskDuration reports whether an hours/minutes pair is a sane
// duration. Hours run 0-23, minutes 0-59.
func ValidTaskDuration(hours, minutes int) bool {
	return hours >= 0 && hours <= 23 && minutes >= 0 && minutes <= 59
}

// HoursMinutes is a duration broken into display parts.
type HoursMinutes struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// MinutesToHoursMinutes splits a minute total into hour/minute parts.
func MinutesToHoursMinutes(total int) HoursMinutes {
	return HoursMinutes{Hours: total / 60, Minutes: total % 60}
}

// SplitOvertime divides a weekly minute total at the regular-hours
// threshold. Minutes beyond a whole threshold week count as overtime; the
// sub-hour remainder rides with whichever bucket the week landed in.
func SplitOvertime(totalMinutes, thresholdHours int) (regular, overtime HoursMinutes) {
	total := MinutesToHoursMinutes(totalMinutes)
	if total.Hours > thresholdHours {
		return HoursMinutes{Hours: thresholdHours},
			HoursMinutes{Hours: total.Hours - thresholdHours, Minutes: total.Minutes}
	}
	return total, HoursMinutes{}
}

// Workweek setting keys as stored in system_config.
const (
	ConfigRegularHoursThreshold = "regular_hours_threshold"
	ConfigOvertimeMultiplier    = "overtime_multiplier"
	ConfigMaxDailyHours         = "max_daily_hours"
	ConfigMinBreakDuration      = "min_break_duration"
	ConfigDefaultWeekStart      = "default_week_start"
)

// WorkweekSettings controls overtime math for task timesheets.
type WorkweekSettings struct {
	RegularHoursThreshold   int     `json:"regular_hours_threshold"`
	OvertimeMultiplier      float64 `json:"overtime_multiplier"`
	MaxDailyHours           int     `json:"max_daily_hours"`
	MinBreakDurationMinutes int     `json:"min_break_duration"`
	DefaultWeekStart        string  `json:"default_week_start"`
}

// DefaultWorkweekSettings returns the built-in values used when the config
// table has no override.
func DefaultWorkweekSettings() WorkweekSettings {
	return WorkweekSettings{
		RegularHoursThreshold:   40,
		OvertimeMultiplier:      1.5,
		MaxDailyHours:           12,
		MinBreakDurationMinutes: 30,
		DefaultWeekStart:        "monday",
	}
}

// ApplyConfig overlays stored key/value pairs onto the settings. Values
// that fail to parse keep their current value.
func (w *WorkweekSettings) ApplyConfig(config map[string]string) {
	for key, value := range config {
		switch key {
		case ConfigRegularHoursThreshold:
			if n, err := strconv.Atoi(value); err == nil {
				w.RegularHoursThreshold = n
			}
		case ConfigOvertimeMultiplier:
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				w.OvertimeMultiplier = f
			}
		case ConfigMaxDailyHours:
			if n, err := strconv.Atoi(value); err == nil {
				w.MaxDailyHours = n
			}
		case ConfigMinBreakDuration:
			if n, err := strconv.Atoi(value); err == nil {
				w.MinBreakDurationMinutes = n
			}
		case ConfigDefaultWeekStart:
			w.DefaultWeekStart = value
		}
	}
}
