package domain

import "errors"

// Sentinel errors returned by services and repositories. The HTTP layer maps
// each to exactly one status code in internal/api/error_handler.go.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCodeMismatch       = errors.New("invalid or expired verification code")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrForbidden          = errors.New("access forbidden")

	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidOperation = errors.New("cannot change your own admin role")

	ErrCampaignNotFound  = errors.New("campaign not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotApproved       = errors.New("campaign is not accepting donations")
	ErrAlreadyFunded     = errors.New("campaign has already reached its goal")
	ErrExceedsRemaining  = errors.New("donation exceeds the remaining target")

	ErrUnavailable = errors.New("storage temporarily unavailable")
)
