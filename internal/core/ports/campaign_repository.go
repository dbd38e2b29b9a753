package ports

import (
	"context"

	"github.com/funderr/crowdfund-api/internal/core/domain"
)

// CampaignFilter carries the query parameters for listing campaigns.
type CampaignFilter struct {
	Status    string // exact match on moderation status; empty = all
	CreatorID string // scope to a single creator; empty = all
}

// CampaignRepository defines persistence operations for campaigns.
//
// The two mutating compare-and-swap operations (SetStatus, AddRaised) must be
// atomic at the storage layer: they apply only when the stored record still
// satisfies the stated precondition at write time, and return
// domain.ErrCampaignNotFound when no record matched. Callers re-read to
// distinguish a missing record from a failed precondition.
type CampaignRepository interface {
	Create(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error)
	FindByID(ctx context.Context, id string) (*domain.Campaign, error)
	// List returns campaigns matching filter, newest first by creation time.
	List(ctx context.Context, filter CampaignFilter) ([]*domain.Campaign, error)
	// SetStatus transitions the campaign from status `from` to `to`,
	// recording reason when to = rejected.
	SetStatus(ctx context.Context, id string, from, to domain.CampaignStatus, reason string) (*domain.Campaign, error)
	// AddRaised increments raised by amt only while the campaign is approved
	// and raised+amt does not exceed goal, returning the updated record.
	AddRaised(ctx context.Context, id string, amt float64) (*domain.Campaign, error)
	Delete(ctx context.Context, id string) error
}
