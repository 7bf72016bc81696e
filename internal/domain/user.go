package domain

import "time"

// Role enumerates user roles.
type Role string

const (
	RoleTeamMember   Role = "team_member"
	RoleCampaignLead Role = "campaign_lead"
	RoleAdmin        Role = "admin"
)

// ValidRole reports whether the value is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleTeamMember, RoleCampaignLead, RoleAdmin:
		return true
	}
	return false
}

// User is the domain model for accounts that log time or administer the system.
type User struct {
	ID             string
	Email          string
	FullName       string
	PasswordHash   string
	Role           Role
	CampaignID     *string
	PayRatePerHour float64
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
