package domain

import "time"

// AuditRecord is an append-only activity log entry. Records are never
// mutated or deleted by this service.
type AuditRecord struct {
	ID         string
	UserID     *string
	Action     string
	ObjectType *string
	ObjectID   *string
	IPAddress  string
	UserAgent  string
	Metadata   map[string]any
	CreatedAt  time.Time
}
