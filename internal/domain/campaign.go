package domain

import "time"

// Campaign groups users under a client engagement with a billing rate.
type Campaign struct {
	ID                 string
	Name               string
	BillingRatePerHour float64
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
