package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/funderr/crowdfund-api/internal/core/domain"
	"github.com/funderr/crowdfund-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub campaign repository with the same compare-and-swap semantics
// as the Mongo implementation.
// ---------------------------------------------------------------------------

type stubCampaignRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.Campaign
	nextID int
}

func newStubCampaignRepo() *stubCampaignRepo {
	return &stubCampaignRepo{byID: make(map[string]*domain.Campaign)}
}

func cloneCampaign(c *domain.Campaign) *domain.Campaign {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

func (r *stubCampaignRepo) Create(_ context.Context, campaign *domain.Campaign) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	created := cloneCampaign(campaign)
	created.ID = fmt.Sprintf("c%03d", r.nextID)
	r.byID[created.ID] = cloneCampaign(created)
	return created, nil
}

func (r *stubCampaignRepo) FindByID(_ context.Context, id string) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCampaignNotFound
	}
	return cloneCampaign(c), nil
}

func (r *stubCampaignRepo) List(_ context.Context, filter ports.CampaignFilter) ([]*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Campaign, 0, len(r.byID))
	for _, c := range r.byID {
		if filter.Status != "" && string(c.Status) != filter.Status {
			continue
		}
		if filter.CreatorID != "" && c.CreatorID != filter.CreatorID {
			continue
		}
		out = append(out, cloneCampaign(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubCampaignRepo) SetStatus(_ context.Context, id string, from, to domain.CampaignStatus, reason string) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok || c.Status != from {
		return nil, domain.ErrCampaignNotFound
	}
	c.Status = to
	c.RejectionReason = reason
	c.UpdatedAt = time.Now().UTC()
	return cloneCampaign(c), nil
}

func (r *stubCampaignRepo) AddRaised(_ context.Context, id string, amount float64) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok || c.Status != domain.CampaignApproved || c.Raised+amount > c.Goal {
		return nil, domain.ErrCampaignNotFound
	}
	c.Raised += amount
	c.UpdatedAt = time.Now().UTC()
	return cloneCampaign(c), nil
}

func (r *stubCampaignRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrCampaignNotFound
	}
	delete(r.byID, id)
	return nil
}

// ---------------------------------------------------------------------------
// Stub replay store
// ---------------------------------------------------------------------------

type stubReplayStore struct {
	mu      sync.Mutex
	results map[string]*ports.DonationResult
}

func newStubReplayStore() *stubReplayStore {
	return &stubReplayStore{results: make(map[string]*ports.DonationResult)}
}

func (s *stubReplayStore) Get(_ context.Context, key string) (*ports.DonationResult, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.results[key]
	if !ok {
		return nil, false, nil
	}
	out := *r
	return &out, true, nil
}

func (s *stubReplayStore) Save(_ context.Context, key string, result *ports.DonationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := *result
	s.results[key] = &out
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func testActor(role string) *domain.User {
	return &domain.User{ID: "actor-" + role, Email: role + "@example.com", Role: role, Status: domain.UserStatusActive}
}

func seedCampaign(t *testing.T, repo *stubCampaignRepo, status domain.CampaignStatus, goal, raised float64, creatorID string) *domain.Campaign {
	t.Helper()
	c, err := repo.Create(context.Background(), &domain.Campaign{
		Title:       "Clean Water",
		Description: "Wells for the village",
		Category:    "HEALTH",
		Goal:        goal,
		Raised:      raised,
		Status:      status,
		CreatorID:   creatorID,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed campaign: %v", err)
	}
	return c
}

func newCampaignService(repo *stubCampaignRepo) *CampaignService {
	return NewCampaignService(repo, newStubReplayStore(), discardLogger)
}

// ---------------------------------------------------------------------------
// Create / Get / List
// ---------------------------------------------------------------------------

func TestCampaignService_Create(t *testing.T) {
	repo := newStubCampaignRepo()
	svc := newCampaignService(repo)
	creator := testActor(domain.RoleCampaignCreator)

	created, err := svc.Create(context.Background(), creator, ports.CreateCampaignInput{
		Title:       "  Clean Water  ",
		Description: "Wells for the village",
		Category:    "health",
		Goal:        5000,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != domain.CampaignPending {
		t.Fatalf("new campaigns must start pending, got %s", created.Status)
	}
	if created.Raised != 0 {
		t.Fatalf("new campaigns must start at zero raised, got %g", created.Raised)
	}
	if created.Title != "Clean Water" {
		t.Fatalf("title not trimmed: %q", created.Title)
	}
	if created.Category != "HEALTH" {
		t.Fatalf("category not normalized: %q", created.Category)
	}
	if created.CreatorID != creator.ID {
		t.Fatalf("creator not recorded: %q", created.CreatorID)
	}
}

func TestCampaignService_Create_Validation(t *testing.T) {
	repo := newStubCampaignRepo()
	svc := newCampaignService(repo)
	creator := testActor(domain.RoleCampaignCreator)

	cases := []struct {
		name string
		in   ports.CreateCampaignInput
	}{
		{"empty title", ports.CreateCampaignInput{Title: "  ", Description: "d", Goal: 10}},
		{"empty description", ports.CreateCampaignInput{Title: "t", Description: "", Goal: 10}},
		{"zero goal", ports.CreateCampaignInput{Title: "t", Description: "d", Goal: 0}},
		{"negative goal", ports.CreateCampaignInput{Title: "t", Description: "d", Goal: -5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), creator, tc.in); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCampaignService_Create_Forbidden(t *testing.T) {
	repo := newStubCampaignRepo()
	svc := newCampaignService(repo)

	for _, role := range []string{domain.RoleUser, domain.RoleDonor} {
		if _, err := svc.Create(context.Background(), testActor(role), ports.CreateCampaignInput{
			Title: "t", Description: "d", Goal: 10,
		}); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("role %s: expected ErrForbidden, got %v", role, err)
		}
	}
}

func TestCampaignService_Get_PendingHiddenFromOthers(t *testing.T) {
	repo := newStubCampaignRepo()
	svc := newCampaignService(repo)

	pending := seedCampaign(t, repo, domain.CampaignPending, 100, 0, "creator-1")

	if _, err := svc.Get(context.Background(), testActor(domain.RoleDonor), pending.ID); !errors.Is(err, domain.ErrCampaignNotFound) {
		t.Fatalf("expected ErrCampaignNotFound for outsider, got %v", err)
	}
	if _, err := svc.Get(context.Background(), testActor(domain.RoleAdmin), pending.ID); err != nil {
		t.Fatalf("admin read failed: %v", err)
	}
	owner := &domain.User{ID: "creator-1", Role: domain.RoleCampaignCreator}
	if _, err := svc.Get(context.Background(), owner, pending.ID); err != nil {
		t.Fatalf("owner read failed: %v", err)
	}
}

func TestCampaignService_List_Scoping(t *testing.T) {
	repo := newStubCampaignRepo()
	svc := newCampaignService(repo)

	seedCampaign(t, repo, domain.CampaignApproved, 100, 0, "creator-1")
	seedCampaign(t, repo, domain.CampaignPending, 100, 0, "creator-1")
	seedCampaign(t, repo, domain.CampaignRejected, 100, 0, "creator-2")

	donor := testActor(domain.RoleDonor)
	got, err := svc.List(context.Background(), donor, ports.CampaignListInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Status != domain.CampaignApproved {
		t.Fatalf("non-admin list must be scoped to approved, got %d campaigns", len(got))
	}

	admin := testActor(domain.RoleAdmin)
	got, err = svc.List(context.Background(), admin, ports.CampaignListInput{})
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("admin must see all campaigns, got %d", len(got))
	}

	owner := &domain.User{ID: "creator-1", Role: domain.RoleCampaignCreator}
	got, err = svc.List(context.Background(), owner, ports.CampaignListInput{CreatorID: "creator-1"})
	if err != nil {
		t.Fatalf("own list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("creator must see own campaigns in every state, got %d", len(got))
	}

	// Someone else's creator filter is still scoped to approved.
	got, err = svc.List(context.Background(), donor, ports.CampaignListInput{CreatorID: "creator-1"})
	if err != nil {
		t.Fatalf("foreign creator list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("foreign creator list must be scoped to approved, got %d", len(got))
	}

	if _, err := svc.List(context.Background(), admin, ports.CampaignListInput{Status: "archived"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Moderation
// ---------------------------------------------------------------------------

func TestCampaignService_Approve(t *testing.T) {
	repo := newStubCampaignRepo()
	svc := newCampaignService(repo)
	admin := testActor(domain.RoleAdmin)

	pending := seedCampaign(t, repo, domain.CampaignPending, 100, 0, "creator-1")

	approved, err := svc.Approve(context.Background(), admin, pending.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != domain.CampaignApproved {
		t.Fatalf("expected approved, got %s", approved.Status)
	}

	// Approving twice is an invalid transition, not a silent success.
	if _, err := svc.Approve(context.Background(), admin, pending.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	if _, err := svc.Approve(context.Background(), testActor(domain.RoleDonor), pending.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}
}

func TestCampaignService_Reject_DefaultReason(t *testing.T) {
	repo := newStubCampaignRepo()
	svc := newCampaignService(repo)
	admin := testActor(domain.RoleAdmin)

	pending := seedCampaign(t, repo, domain.CampaignPending, 100, 0, "creator-1")

	rejected, err := svc.Reject(context.Background(), admin, pending.ID, "   ")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != domain.CampaignRejected {
		t.Fatalf("expected rejected, got %s", rejected.Status)
	}
	if rejected.RejectionReason != domain.DefaultRejectionReason {
		t.Fatalf("expected default reason, got %q", rejected.RejectionReason)
	}
}

func TestCampaignService_Reject_CustomReason(t *testing.T) {
	repo := newStubCampaignRepo()
	svc := newCampaignService(repo)
	admin := testActor(domain.RoleAdmin)

	pending := seedCampaign(t, repo, domain.CampaignPending, 100, 0, "creator-1")

	rejected, err := svc.Reject(context.Background(), admin, pending.ID, "duplicate of an existing campaign")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.RejectionReason != "duplicate of an existing campaign" {
		t.Fatalf("reason not stored: %q", rejected.RejectionReason)
	}

	// A rejected campaign cannot be approved afterwards.
	if _, err := svc.Approve(context.Background(), admin, pending.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestCampaignService_Moderation_NotFound(t *testing.T) {
	repo := newStubCampaignRepo()
	svc := newCampaignService(repo)
	admin := testActor(domain.RoleAdmin)

	if _, err := svc.Approve(context.Background(), admin, "missing"); !errors.Is(err, domain.ErrCampaignNotFound) {
		t.Fatalf("expected ErrCampaignNotFound, got %v", err)
	}
	if _, err := svc.Reject(context.Background(), admin, "missing", ""); !errors.Is(err, domain.ErrCampaignNotFound) {
		t.Fatalf("expected ErrCampaignNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Donations
// ---------------------------------------------------------------------------

func TestCampaignService_Donate(t *testing.T) {
	repo := newStubCampaignRepo()
	svc := newCampaignService(repo)
	donor := testActor(domain.RoleDonor)

	approved := seedCampaign(t, repo, domain.CampaignApproved, 100, 0, "creator-1")

	result, err := svc.Donate(context.Background(), donor, ports.DonateInput{CampaignID: approved.ID, Amount: 25})
	if err != nil {
		t.Fatalf("donate: %v", err)
	}
	if result.Raised != 25 || result.Funded || result.Replayed {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestCampaignService_Donate_Preconditions(t *testing.T) {
	repo := newStubCampaignRepo()
	svc := newCampaignService(repo)
	donor := testActor(domain.RoleDonor)

	pending := seedCampaign(t, repo, domain.CampaignPending, 100, 0, "creator-1")
	rejected := seedCampaign(t, repo, domain.CampaignRejected, 100, 0, "creator-1")
	approved := seedCampaign(t, repo, domain.CampaignApproved, 100, 90, "creator-1")

	if _, err := svc.Donate(context.Background(), donor, ports.DonateInput{CampaignID: pending.ID, Amount: 10}); !errors.Is(err, domain.ErrNotApproved) {
		t.Fatalf("pending: expected ErrNotApproved, got %v", err)
	}
	if _, err := svc.Donate(context.Background(), donor, ports.DonateInput{CampaignID: rejected.ID, Amount: 10}); !errors.Is(err, domain.ErrNotApproved) {
		t.Fatalf("rejected: expected ErrNotApproved, got %v", err)
	}
	if _, err := svc.Donate(context.Background(), donor, ports.DonateInput{CampaignID: "missing", Amount: 10}); !errors.Is(err, domain.ErrCampaignNotFound) {
		t.Fatalf("missing: expected ErrCampaignNotFound, got %v", err)
	}
	if _, err := svc.Donate(context.Background(), donor, ports.DonateInput{CampaignID: approved.ID, Amount: 0}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("zero amount: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Donate(context.Background(), donor, ports.DonateInput{CampaignID: approved.ID, Amount: -3}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("negative amount: expected ErrInvalidInput, got %v", err)
	}
}

func TestCampaignService_Donate_FundingBoundary(t *testing.T) {
	repo := newStubCampaignRepo()
	svc := newCampaignService(repo)
	donor := testActor(domain.RoleDonor)

	// Goal 100 with 90 already raised: 15 overshoots, 10 completes exactly.
	campaign := seedCampaign(t, repo, domain.CampaignApproved, 100, 90, "creator-1")

	if _, err := svc.Donate(context.Background(), donor, ports.DonateInput{CampaignID: campaign.ID, Amount: 15}); !errors.Is(err, domain.ErrExceedsRemaining) {
		t.Fatalf("expected ErrExceedsRemaining, got %v", err)
	}
	current, err := repo.FindByID(context.Background(), campaign.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if current.Raised != 90 {
		t.Fatalf("rejected donation must not change the total, got %g", current.Raised)
	}

	result, err := svc.Donate(context.Background(), donor, ports.DonateInput{CampaignID: campaign.ID, Amount: 10})
	if err != nil {
		t.Fatalf("completing donation: %v", err)
	}
	if !result.Funded || result.Raised != 100 {
		t.Fatalf("expected funded at 100, got %+v", result)
	}

	// The fully funded campaign is removed from the active set.
	if _, err := repo.FindByID(context.Background(), campaign.ID); !errors.Is(err, domain.ErrCampaignNotFound) {
		t.Fatalf("expected campaign removed, got %v", err)
	}
	if _, err := svc.Donate(context.Background(), donor, ports.DonateInput{CampaignID: campaign.ID, Amount: 5}); !errors.Is(err, domain.ErrCampaignNotFound) {
		t.Fatalf("expected ErrCampaignNotFound after completion, got %v", err)
	}
}

func TestCampaignService_Donate_Idempotent(t *testing.T) {
	repo := newStubCampaignRepo()
	svc := newCampaignService(repo)
	donor := testActor(domain.RoleDonor)

	campaign := seedCampaign(t, repo, domain.CampaignApproved, 100, 0, "creator-1")
	in := ports.DonateInput{CampaignID: campaign.ID, Amount: 40, IdempotencyKey: "key-1"}

	first, err := svc.Donate(context.Background(), donor, in)
	if err != nil {
		t.Fatalf("first donate: %v", err)
	}
	if first.Replayed {
		t.Fatal("first application must not be a replay")
	}

	second, err := svc.Donate(context.Background(), donor, in)
	if err != nil {
		t.Fatalf("replayed donate: %v", err)
	}
	if !second.Replayed {
		t.Fatal("expected replayed result")
	}
	if second.Raised != first.Raised {
		t.Fatalf("replay must return the original total, got %g", second.Raised)
	}

	current, err := repo.FindByID(context.Background(), campaign.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if current.Raised != 40 {
		t.Fatalf("contribution applied twice, raised %g", current.Raised)
	}
}

func TestCampaignService_Donate_Concurrent(t *testing.T) {
	repo := newStubCampaignRepo()
	svc := newCampaignService(repo)

	campaign := seedCampaign(t, repo, domain.CampaignApproved, 100, 0, "creator-1")

	const donors = 10
	var wg sync.WaitGroup
	results := make([]*ports.DonationResult, donors)
	errs := make([]error, donors)
	for i := 0; i < donors; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			donor := &domain.User{ID: fmt.Sprintf("donor-%d", i), Role: domain.RoleDonor}
			results[i], errs[i] = svc.Donate(context.Background(), donor, ports.DonateInput{CampaignID: campaign.ID, Amount: 10})
		}(i)
	}
	wg.Wait()

	funded := 0
	for i := 0; i < donors; i++ {
		if errs[i] != nil {
			t.Fatalf("donor %d: %v", i, errs[i])
		}
		if results[i].Funded {
			funded++
		}
	}
	if funded != 1 {
		t.Fatalf("exactly one donation must complete the campaign, got %d", funded)
	}
	if _, err := repo.FindByID(context.Background(), campaign.ID); !errors.Is(err, domain.ErrCampaignNotFound) {
		t.Fatal("fully funded campaign must be removed")
	}
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestCampaignService_Delete(t *testing.T) {
	repo := newStubCampaignRepo()
	svc := newCampaignService(repo)
	admin := testActor(domain.RoleAdmin)

	campaign := seedCampaign(t, repo, domain.CampaignApproved, 100, 0, "creator-1")

	if err := svc.Delete(context.Background(), testActor(domain.RoleDonor), campaign.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}
	if err := svc.Delete(context.Background(), admin, campaign.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(context.Background(), admin, campaign.ID); !errors.Is(err, domain.ErrCampaignNotFound) {
		t.Fatalf("expected ErrCampaignNotFound, got %v", err)
	}
}
