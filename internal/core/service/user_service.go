package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/funderr/crowdfund-api/internal/core/domain"
	"github.com/funderr/crowdfund-api/internal/core/policy"
	"github.com/funderr/crowdfund-api/internal/core/ports"
)

// UserService implements the user directory operations behind the
// authorization policy.
type UserService struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

func NewUserService(repo ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

func (s *UserService) Get(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	if err := policy.CanReadUser(actor, id); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// UpdateProfile applies the self-editable fields. A role in the patch is
// honored only as an initial role selection; email and password never reach
// this method.
func (s *UserService) UpdateProfile(ctx context.Context, actor *domain.User, id string, patch ports.ProfilePatch) (*domain.User, error) {
	if err := policy.CanUpdateProfile(actor, id); err != nil {
		return nil, err
	}
	if patch.Role != nil {
		if err := policy.CheckRoleSelection(actor, *patch.Role); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, id, ports.UserPatch{
		Name:         patch.Name,
		Phone:        patch.Phone,
		Address:      patch.Address,
		Organization: patch.Organization,
		Role:         patch.Role,
	})
	if err != nil {
		return nil, err
	}

	if patch.Role != nil {
		s.log.Info().Str("user_id", id).Str("role", *patch.Role).Msg("role selected")
	}
	return updated, nil
}

func (s *UserService) List(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	if err := policy.RequireAdmin(actor); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *UserService) SetStatus(ctx context.Context, actor *domain.User, id, status string) (*domain.User, error) {
	if err := policy.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if err := policy.CheckStatusChange(status); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, ports.UserPatch{Status: &status})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", id).Str("status", status).Str("admin_id", actor.ID).Msg("user status changed")
	return updated, nil
}

func (s *UserService) SetRole(ctx context.Context, actor *domain.User, id, role string) (*domain.User, error) {
	if err := policy.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if err := policy.CheckRoleChange(actor, id, role); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, ports.UserPatch{Role: &role})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", id).Str("role", role).Str("admin_id", actor.ID).Msg("user role changed")
	return updated, nil
}
