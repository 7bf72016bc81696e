package domain

import "time"

// Schedule defines the expected shift for a campaign.
type Schedule struct {
	ID                        string
	CampaignID                string
	Name                      string
	WorkStartTime             string // HH:MM:SS
	WorkEndTime               string // HH:MM:SS
	LunchDurationMinutes      int
	ShortBreakDurationMinutes int
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// DailyWorkHours returns the paid hours a schedule expects per day.
func (s *Schedule) DailyWorkHours() float64 {
	start, err := time.Parse("15:04:05", s.WorkStartTime)
	if err != nil {
		return 8.0
	}
	end, err := time.Parse("15:04:05", s.WorkEndTime)
	if err != nil {
		return 8.0
	}
	hours := end.Sub(start).Hours() - float64(s.LunchDurationMinutes)/60
	if hours <= 0 {
		return 8.0
	}
	return hours
}
