package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDailyWorkHours(t *testing.T) {
	schedule := Schedule{
		WorkStartTime:        "09:00:00",
		WorkEndTime:          "18:00:00",
		LunchDurationMinutes: 60,
	}
	assert.InDelta(t, 8.0, schedule.DailyWorkHours(), 0.001)

	schedule.LunchDurationMinutes = 30
	assert.InDelta(t, 8.5, schedule.DailyWorkHours(), 0.001)

	// unparseable times fall back to a standard day
	schedule.WorkStartTime = "nine"
	assert.InDelta(t, 8.0, schedule.DailyWorkHours(), 0.001)

	// inverted shift falls back too
	schedule = Schedule{WorkStartTime: "18:00:00", WorkEndTime: "09:00:00"}
	assert.InDelta(t, 8.0, schedule.DailyWorkHours(), 0.001)
}
