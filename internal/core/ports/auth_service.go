package ports

import (
	"context"

	"github.com/funderr/crowdfund-api/internal/core/domain"
)

// RegisterInput carries everything needed to create an account. Code is the
// signup verification code previously issued for Email.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Code     string
}

// AuthService implements sign-up and login.
type AuthService interface {
	// RequestSignupCode issues a short-lived verification code for email.
	RequestSignupCode(ctx context.Context, email string) error
	// Register verifies the signup code and creates the account with the
	// default role. The code is consumed on success.
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// Login returns a signed session token and the authenticated user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
