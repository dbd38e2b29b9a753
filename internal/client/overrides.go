package client

import (
	"sync"

	"github.com/funderr/crowdfund-api/internal/core/domain"
)

// Override is a provisional, non-authoritative adjustment to a campaign held
// outside the server of record: either a raised amount not yet confirmed, or
// the belief that the campaign completed and was removed.
type Override struct {
	Raised  float64
	Deleted bool
}

// OverrideStore keeps pending overrides keyed by campaign id. Overrides are
// advisory only: any authoritative server response for a campaign clears the
// corresponding override, and server state always wins.
type OverrideStore struct {
	mu        sync.Mutex
	overrides map[string]Override
}

func NewOverrideStore() *OverrideStore {
	return &OverrideStore{overrides: make(map[string]Override)}
}

// RecordPending notes a locally assumed raised total for a campaign.
func (s *OverrideStore) RecordPending(campaignID string, raised float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[campaignID] = Override{Raised: raised}
}

// RecordDeleted notes the local belief that a campaign was fully funded.
func (s *OverrideStore) RecordDeleted(campaignID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[campaignID] = Override{Deleted: true}
}

// Get returns the override for a campaign, if any.
func (s *OverrideStore) Get(campaignID string) (Override, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.overrides[campaignID]
	return o, ok
}

// Reconcile drops the override for a campaign the server has answered for.
func (s *OverrideStore) Reconcile(campaignID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overrides, campaignID)
}

// Apply merges pending overrides over an authoritative listing: a raised
// override replaces the stale total, a deleted override removes the entry.
// Campaigns present in the listing keep their server values for every other
// field.
func (s *OverrideStore) Apply(campaigns []*domain.Campaign) []*domain.Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		o, ok := s.overrides[c.ID]
		if !ok {
			out = append(out, c)
			continue
		}
		if o.Deleted {
			continue
		}
		clone := *c
		if o.Raised > clone.Raised {
			clone.Raised = o.Raised
		}
		out = append(out, &clone)
	}
	return out
}
