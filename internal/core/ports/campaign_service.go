package ports

import (
	"context"

	"github.com/funderr/crowdfund-api/internal/core/domain"
)

// CreateCampaignInput carries the data needed to open a new campaign.
type CreateCampaignInput struct {
	Title       string
	Description string
	Category    string
	Goal        float64
}

// DonateInput carries a single contribution. IdempotencyKey, when non-empty,
// makes retried submissions of the same logical contribution safe.
type DonateInput struct {
	CampaignID     string
	Amount         float64
	IdempotencyKey string
}

// DonationResult reports the authoritative state after a donation.
type DonationResult struct {
	CampaignID string  `json:"campaign_id"`
	Raised     float64 `json:"raised"`
	Goal       float64 `json:"goal"`
	// Funded is true exactly once: on the donation that reached the goal.
	// The campaign record no longer exists when Funded is true.
	Funded bool `json:"funded"`
	// Replayed is true when the idempotency key matched a previous donation
	// and no new contribution was applied.
	Replayed bool `json:"replayed"`
}

// CampaignListInput carries the parameters for the list endpoint.
type CampaignListInput struct {
	Status    string
	CreatorID string
}

// CampaignService defines the campaign lifecycle and funding operations.
type CampaignService interface {
	Create(ctx context.Context, actor *domain.User, in CreateCampaignInput) (*domain.Campaign, error)
	// Get returns a campaign. Campaigns that are not approved are visible
	// only to their creator and to admins.
	Get(ctx context.Context, actor *domain.User, id string) (*domain.Campaign, error)
	// List applies the moderation-status filter exactly; with no filter,
	// admins see everything and other callers see approved campaigns only.
	List(ctx context.Context, actor *domain.User, in CampaignListInput) ([]*domain.Campaign, error)
	Approve(ctx context.Context, actor *domain.User, id string) (*domain.Campaign, error)
	// Reject stores reason, substituting a default when reason is empty.
	Reject(ctx context.Context, actor *domain.User, id, reason string) (*domain.Campaign, error)
	Donate(ctx context.Context, actor *domain.User, in DonateInput) (*DonationResult, error)
	// Delete removes a campaign. Admin only; funding completion deletes
	// campaigns internally without going through this operation.
	Delete(ctx context.Context, actor *domain.User, id string) error
}
