package domain

import "time"

// Roles a user can hold. New accounts start as RoleUser until they pick
// donor or campaign_creator during onboarding.
const (
	RoleUser            = "user"
	RoleDonor           = "donor"
	RoleCampaignCreator = "campaign_creator"
	RoleAdmin           = "admin"
)

// Account statuses controlled by admin moderation.
const (
	UserStatusActive     = "active"
	UserStatusRestricted = "restricted"
)

// ValidRole reports whether role is one of the four known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleDonor, RoleCampaignCreator, RoleAdmin:
		return true
	}
	return false
}

// ValidUserStatus reports whether status is a known account status.
func ValidUserStatus(status string) bool {
	return status == UserStatusActive || status == UserStatusRestricted
}

// User models an authenticated actor in the system.
// PasswordHash is never serialized in any response.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	Organization string    `json:"organization,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
