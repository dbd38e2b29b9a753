package ports

import (
	"context"

	"github.com/funderr/crowdfund-api/internal/core/domain"
)

// ProfilePatch carries the self-editable profile fields. Role is honored only
// for initial role selection; any email or password present in a request is
// dropped before this struct is built.
type ProfilePatch struct {
	Name         *string
	Phone        *string
	Address      *string
	Organization *string
	Role         *string
}

// UserService defines the user directory operations. Every operation takes the
// authenticated actor so the authorization policy is enforced in one place.
type UserService interface {
	Get(ctx context.Context, actor *domain.User, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, actor *domain.User, id string, patch ProfilePatch) (*domain.User, error)
	// List returns all users, newest first. Admin only.
	List(ctx context.Context, actor *domain.User) ([]*domain.User, error)
	// SetStatus toggles a user between active and restricted. Admin only.
	SetStatus(ctx context.Context, actor *domain.User, id, status string) (*domain.User, error)
	// SetRole changes a user's role. Admin only; an admin cannot demote themselves.
	SetRole(ctx context.Context, actor *domain.User, id, role string) (*domain.User, error)
}
