package client

import (
	"testing"

	"github.com/funderr/crowdfund-api/internal/core/domain"
)

func TestOverrideStore_Apply(t *testing.T) {
	store := NewOverrideStore()
	store.RecordPending("c1", 75)
	store.RecordDeleted("c2")

	listing := []*domain.Campaign{
		{ID: "c1", Raised: 50, Goal: 100},
		{ID: "c2", Raised: 100, Goal: 100},
		{ID: "c3", Raised: 10, Goal: 100},
	}

	merged := store.Apply(listing)
	if len(merged) != 2 {
		t.Fatalf("expected deleted campaign removed, got %d entries", len(merged))
	}
	if merged[0].ID != "c1" || merged[0].Raised != 75 {
		t.Fatalf("raised override not applied: %+v", merged[0])
	}
	if merged[1].ID != "c3" || merged[1].Raised != 10 {
		t.Fatalf("untouched campaign changed: %+v", merged[1])
	}

	// The input listing itself must not be mutated.
	if listing[0].Raised != 50 {
		t.Fatalf("server listing mutated: %+v", listing[0])
	}
}

func TestOverrideStore_ServerWins(t *testing.T) {
	store := NewOverrideStore()
	store.RecordPending("c1", 40)

	// The server already knows more than the local assumption.
	merged := store.Apply([]*domain.Campaign{{ID: "c1", Raised: 60, Goal: 100}})
	if merged[0].Raised != 60 {
		t.Fatalf("stale override beat the server total: %g", merged[0].Raised)
	}
}

func TestOverrideStore_Reconcile(t *testing.T) {
	store := NewOverrideStore()
	store.RecordPending("c1", 75)

	store.Reconcile("c1")
	if _, ok := store.Get("c1"); ok {
		t.Fatal("expected override cleared")
	}

	merged := store.Apply([]*domain.Campaign{{ID: "c1", Raised: 50, Goal: 100}})
	if merged[0].Raised != 50 {
		t.Fatalf("cleared override still applied: %g", merged[0].Raised)
	}
}
