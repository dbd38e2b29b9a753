package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/funderr/crowdfund-api/internal/core/domain"
	"github.com/funderr/crowdfund-api/internal/core/policy"
	"github.com/funderr/crowdfund-api/internal/core/ports"
)

// ReplayStore abstracts the donation idempotency store (Redis). A stored
// result is returned verbatim for a retried key instead of applying the
// contribution twice.
type ReplayStore interface {
	Get(ctx context.Context, key string) (*ports.DonationResult, bool, error)
	Save(ctx context.Context, key string, result *ports.DonationResult) error
}

// CampaignService implements the campaign lifecycle and the funding ledger.
type CampaignService struct {
	repo    ports.CampaignRepository
	replays ReplayStore
	log     zerolog.Logger
}

func NewCampaignService(repo ports.CampaignRepository, replays ReplayStore, log zerolog.Logger) *CampaignService {
	return &CampaignService{repo: repo, replays: replays, log: log}
}

// Create opens a new campaign in the pending state.
func (s *CampaignService) Create(ctx context.Context, actor *domain.User, in ports.CreateCampaignInput) (*domain.Campaign, error) {
	if err := policy.CanCreateCampaign(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return nil, fmt.Errorf("%w: title and description are required", domain.ErrInvalidInput)
	}
	if !(in.Goal > 0) || math.IsInf(in.Goal, 0) {
		return nil, fmt.Errorf("%w: goal must be a positive amount", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	campaign := &domain.Campaign{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.ToUpper(strings.TrimSpace(in.Category)),
		Goal:        in.Goal,
		Raised:      0,
		Status:      domain.CampaignPending,
		CreatorID:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, campaign)
	if err != nil {
		s.log.Error().Err(err).Str("creator_id", actor.ID).Msg("failed to create campaign")
		return nil, err
	}

	s.log.Info().Str("campaign_id", created.ID).Str("creator_id", actor.ID).Float64("goal", created.Goal).Msg("campaign created")
	return created, nil
}

func (s *CampaignService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Campaign, error) {
	campaign, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign.Status != domain.CampaignApproved &&
		actor.Role != domain.RoleAdmin && actor.ID != campaign.CreatorID {
		return nil, domain.ErrCampaignNotFound
	}
	return campaign, nil
}

// List returns campaigns newest first. A status filter matches exactly.
// Without a filter, admins see every campaign; everyone else is scoped to
// approved campaigns unless listing their own.
func (s *CampaignService) List(ctx context.Context, actor *domain.User, in ports.CampaignListInput) ([]*domain.Campaign, error) {
	if in.Status != "" && !domain.ValidCampaignStatus(in.Status) {
		return nil, fmt.Errorf("%w: unknown campaign status %q", domain.ErrInvalidInput, in.Status)
	}

	filter := ports.CampaignFilter{Status: in.Status, CreatorID: in.CreatorID}
	ownScope := in.CreatorID != "" && in.CreatorID == actor.ID
	if actor.Role != domain.RoleAdmin && !ownScope {
		filter.Status = string(domain.CampaignApproved)
	}

	return s.repo.List(ctx, filter)
}

// Approve transitions a pending campaign to approved.
func (s *CampaignService) Approve(ctx context.Context, actor *domain.User, id string) (*domain.Campaign, error) {
	if err := policy.RequireAdmin(actor); err != nil {
		return nil, err
	}

	updated, err := s.setStatus(ctx, id, domain.CampaignApproved, "")
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("campaign_id", id).Str("admin_id", actor.ID).Msg("campaign approved")
	return updated, nil
}

// Reject transitions a pending campaign to rejected, storing reason. An empty
// reason is replaced with the default so rejections always carry one.
func (s *CampaignService) Reject(ctx context.Context, actor *domain.User, id, reason string) (*domain.Campaign, error) {
	if err := policy.RequireAdmin(actor); err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = domain.DefaultRejectionReason
	}

	updated, err := s.setStatus(ctx, id, domain.CampaignRejected, reason)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("campaign_id", id).Str("admin_id", actor.ID).Str("reason", reason).Msg("campaign rejected")
	return updated, nil
}

// setStatus applies the pending→to transition through the repository CAS and
// classifies a miss as not-found or invalid-transition with a fresh read.
func (s *CampaignService) setStatus(ctx context.Context, id string, to domain.CampaignStatus, reason string) (*domain.Campaign, error) {
	updated, err := s.repo.SetStatus(ctx, id, domain.CampaignPending, to, reason)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, domain.ErrCampaignNotFound) {
		return nil, err
	}

	current, findErr := s.repo.FindByID(ctx, id)
	if findErr != nil {
		return nil, findErr
	}
	return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, current.Status, to)
}

// Donate applies a contribution through a storage-level compare-and-swap, so
// concurrent donations to the same campaign serialize without lost updates and
// the raised total never passes the goal.
func (s *CampaignService) Donate(ctx context.Context, actor *domain.User, in ports.DonateInput) (*ports.DonationResult, error) {
	if !(in.Amount > 0) || math.IsInf(in.Amount, 0) || math.IsNaN(in.Amount) {
		return nil, fmt.Errorf("%w: donation amount must be a positive number", domain.ErrInvalidInput)
	}

	if in.IdempotencyKey != "" {
		replay, ok, err := s.replays.Get(ctx, in.IdempotencyKey)
		if err != nil {
			s.log.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("replay check failed, processing anyway")
		} else if ok {
			s.log.Info().Str("idempotency_key", in.IdempotencyKey).Str("campaign_id", replay.CampaignID).Msg("idempotent replay")
			out := *replay
			out.Replayed = true
			return &out, nil
		}
	}

	updated, err := s.repo.AddRaised(ctx, in.CampaignID, in.Amount)
	if err != nil {
		if errors.Is(err, domain.ErrCampaignNotFound) {
			return nil, s.classifyDonateFailure(ctx, in)
		}
		return nil, err
	}

	result := &ports.DonationResult{
		CampaignID: updated.ID,
		Raised:     updated.Raised,
		Goal:       updated.Goal,
		Funded:     updated.FullyFunded(),
	}

	if result.Funded {
		// The completion is reported to this caller; the record itself is
		// removed from the active set. A failed delete leaves the campaign
		// answering AlreadyFunded until cleanup catches up.
		if err := s.repo.Delete(ctx, updated.ID); err != nil {
			s.log.Warn().Err(err).Str("campaign_id", updated.ID).Msg("failed to remove fully funded campaign")
		}
		s.log.Info().Str("campaign_id", updated.ID).Float64("raised", updated.Raised).Msg("campaign fully funded")
	}

	if in.IdempotencyKey != "" {
		if err := s.replays.Save(ctx, in.IdempotencyKey, result); err != nil {
			s.log.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("failed to store donation replay")
		}
	}

	s.log.Info().
		Str("campaign_id", updated.ID).
		Str("donor_id", actor.ID).
		Float64("amount", in.Amount).
		Float64("raised", updated.Raised).
		Msg("donation applied")

	return result, nil
}

// classifyDonateFailure turns a compare-and-swap miss into the precise
// precondition error, using a fresh read of the record.
func (s *CampaignService) classifyDonateFailure(ctx context.Context, in ports.DonateInput) error {
	current, err := s.repo.FindByID(ctx, in.CampaignID)
	if err != nil {
		return err
	}
	switch {
	case current.Status != domain.CampaignApproved:
		return fmt.Errorf("%w (status %s)", domain.ErrNotApproved, current.Status)
	case current.Remaining() == 0:
		return domain.ErrAlreadyFunded
	case in.Amount > current.Remaining():
		return fmt.Errorf("%w: at most %g can still be donated", domain.ErrExceedsRemaining, current.Remaining())
	default:
		// Lost the race against a concurrent donation; the caller may retry
		// with the same idempotency key.
		return domain.ErrUnavailable
	}
}

// Delete removes a campaign by admin action.
func (s *CampaignService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if err := policy.RequireAdmin(actor); err != nil {
		return err
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("campaign_id", id).Str("admin_id", actor.ID).Msg("campaign deleted")
	return nil
}
