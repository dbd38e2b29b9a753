// Package policy centralizes every authorization rule so individual handlers
// and services cannot drift apart in how they gate the same action.
package policy

import (
	"fmt"

	"github.com/funderr/crowdfund-api/internal/core/domain"
)

// CanReadUser allows a user to read their own profile; admins may read anyone.
func CanReadUser(actor *domain.User, targetID string) error {
	if actor.Role == domain.RoleAdmin || actor.ID == targetID {
		return nil
	}
	return domain.ErrForbidden
}

// CanUpdateProfile restricts profile updates to the owning user.
func CanUpdateProfile(actor *domain.User, targetID string) error {
	if actor.ID == targetID {
		return nil
	}
	return domain.ErrForbidden
}

// RequireAdmin gates the admin-only operations: listing all users, changing
// user status or roles, and campaign moderation.
func RequireAdmin(actor *domain.User) error {
	if actor.Role == domain.RoleAdmin {
		return nil
	}
	return domain.ErrForbidden
}

// CheckStatusChange validates the target account status value.
func CheckStatusChange(status string) error {
	if !domain.ValidUserStatus(status) {
		return fmt.Errorf("%w: status must be active or restricted", domain.ErrInvalidInput)
	}
	return nil
}

// CheckRoleChange validates an admin-driven role change, including the
// self-demotion guard: an admin may never move their own role off admin.
func CheckRoleChange(actor *domain.User, targetID, role string) error {
	if !domain.ValidRole(role) {
		return fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}
	if actor.ID == targetID && role != domain.RoleAdmin {
		return domain.ErrInvalidOperation
	}
	return nil
}

// CheckRoleSelection validates a self-service role pick during onboarding.
// Only a user still holding the default role may select, and only into the
// donor or campaign_creator roles.
func CheckRoleSelection(actor *domain.User, role string) error {
	if role != domain.RoleDonor && role != domain.RoleCampaignCreator {
		return fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}
	if actor.Role != domain.RoleUser {
		return domain.ErrForbidden
	}
	return nil
}

// CanCreateCampaign restricts campaign creation to campaign creators.
func CanCreateCampaign(actor *domain.User) error {
	if actor.Role == domain.RoleCampaignCreator {
		return nil
	}
	return domain.ErrForbidden
}
