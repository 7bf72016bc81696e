package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clock(hour, min int) *time.Time {
	t := time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
	return &t
}

func TestCalculateHours(t *testing.T) {
	tests := []struct {
		name         string
		entry        TimesheetEntry
		wantPaid     float64
		wantUnpaid   float64
	}{
		{
			name: "full day with lunch and breaks",
			entry: TimesheetEntry{
				TimeIn:      clock(9, 0),
				TimeOut:     clock(18, 0),
				LunchStart:  clock(12, 0),
				LunchEnd:    clock(13, 0),
				Break1Start: clock(10, 30),
				Break1End:   clock(10, 45),
				Break2Start: clock(15, 30),
				Break2End:   clock(15, 45),
			},
			wantPaid:   8.5,
			wantUnpaid: 1.5,
		},
		{
			name: "no breaks",
			entry: TimesheetEntry{
				TimeIn:  clock(9, 0),
				TimeOut: clock(17, 0),
			},
			wantPaid:   8.0,
			wantUnpaid: 0.0,
		},
		{
			name: "partial break pair ignored",
			entry: TimesheetEntry{
				TimeIn:     clock(9, 0),
				TimeOut:    clock(17, 0),
				LunchStart: clock(12, 0),
			},
			wantPaid:   8.0,
			wantUnpaid: 0.0,
		},
		{
			name:       "missing clock out",
			entry:      TimesheetEntry{TimeIn: clock(9, 0)},
			wantPaid:   0.0,
			wantUnpaid: 0.0,
		},
		{
			name:       "vacation day is flat eight hours",
			entry:      TimesheetEntry{VacationType: VacationDay},
			wantPaid:   8.0,
			wantUnpaid: 0.0,
		},
		{
			name: "sick day ignores clock times",
			entry: TimesheetEntry{
				VacationType: VacationSick,
				TimeIn:       clock(9, 0),
				TimeOut:      clock(11, 0),
			},
			wantPaid:   8.0,
			wantUnpaid: 0.0,
		},
		{
			name: "uneven minutes round to two decimals",
			entry: TimesheetEntry{
				TimeIn:     clock(9, 0),
				TimeOut:    clock(17, 10),
				LunchStart: clock(12, 0),
				LunchEnd:   clock(12, 30),
			},
			wantPaid:   7.67,
			wantUnpaid: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paid, unpaid := tt.entry.CalculateHours()
			assert.InDelta(t, tt.wantPaid, paid, 0.001)
			assert.InDelta(t, tt.wantUnpaid, unpaid, 0.001)
		})
	}
}

func TestCanTransition(t *testing.T) {
	allowed := map[[2]TimesheetStatus]bool{
		{TimesheetStatusDraft, TimesheetStatusSubmitted}:     true,
		{TimesheetStatusSubmitted, TimesheetStatusApproved}:  true,
		{TimesheetStatusSubmitted, TimesheetStatusRejected}:  true,
	}

	statuses := []TimesheetStatus{
		TimesheetStatusDraft,
		TimesheetStatusSubmitted,
		TimesheetStatusApproved,
		TimesheetStatusRejected,
	}
	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[[2]TimesheetStatus{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestEditable(t *testing.T) {
	assert.True(t, (&TimesheetEntry{Status: TimesheetStatusDraft}).Editable())
	assert.True(t, (&TimesheetEntry{Status: TimesheetStatusRejected}).Editable())
	assert.False(t, (&TimesheetEntry{Status: TimesheetStatusSubmitted}).Editable())
	assert.False(t, (&TimesheetEntry{Status: TimesheetStatusApproved}).Editable())
}
