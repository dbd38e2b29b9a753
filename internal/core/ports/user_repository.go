package ports

import (
	"context"

	"github.com/funderr/crowdfund-api/internal/core/domain"
)

// UserPatch carries the fields a user update may touch. Nil pointers are left
// untouched. Email and password are deliberately absent: no update path may
// change them.
type UserPatch struct {
	Name         *string
	Phone        *string
	Address      *string
	Organization *string
	Role         *string
	Status       *string
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns all users, newest first by creation time.
	List(ctx context.Context) ([]*domain.User, error)
	// Update applies the non-nil fields of patch and returns the updated user.
	Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
}
