package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/funderr/crowdfund-api/internal/core/domain"
	"github.com/funderr/crowdfund-api/internal/core/ports"
)

// CodeStore abstracts the signup verification code store (Redis).
type CodeStore interface {
	// Put stores code for email with a TTL, replacing any previous code.
	Put(ctx context.Context, email, code string) error
	// Consume checks code against the stored value for email and deletes it
	// on a match.
	Consume(ctx context.Context, email, code string) (bool, error)
}

// AuthService implements signup-code issuance, registration and login.
type AuthService struct {
	repo      ports.UserRepository
	codes     CodeStore
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, codes CodeStore, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, codes: codes, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// RequestSignupCode issues a six-digit code for email. Mail delivery is owned
// by a collaborator; the code is logged so operators can trace issuance.
func (s *AuthService) RequestSignupCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate signup code: %w", err)
	}
	if err := s.codes.Put(ctx, email, code); err != nil {
		return fmt.Errorf("store signup code: %w", err)
	}

	s.log.Info().Str("email", email).Str("code", code).Msg("signup code issued")
	return nil
}

// Register verifies the signup code and creates the account. New accounts
// start with the default role until the user picks one.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" || in.Name == "" {
		return nil, fmt.Errorf("%w: email, password and name are required", domain.ErrInvalidInput)
	}

	ok, err := s.codes.Consume(ctx, email, in.Code)
	if err != nil {
		return nil, fmt.Errorf("verify signup code: %w", err)
	}
	if !ok {
		return nil, domain.ErrCodeMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		Name:         in.Name,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Status:       domain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("email", email).Msg("user registered")
	return created, nil
}

// Login authenticates by email and password and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// generateToken mints the session JWT. The token binds identity only: no role
// or profile claims, so revocations and role changes take effect on the next
// request without re-issuing tokens.
func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub": user.ID,
		"exp": time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateCode returns a uniformly random six-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
