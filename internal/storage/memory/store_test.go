package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openbuidl/fundvault/internal/funding/domain"
	"github.com/openbuidl/fundvault/internal/storage"
)

func testIdentity(b byte) domain.Identity {
	var id domain.Identity
	for i := range id {
		id[i] = b
	}
	return id
}

func TestCampaignCreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	campaign := domain.Campaign{ID: testIdentity(1), Owner: testIdentity(2), Token: testIdentity(3)}

	if _, err := store.GetCampaign(ctx, campaign.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.CreateCampaign(ctx, campaign); err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	if err := store.CreateCampaign(ctx, campaign); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	fetched, err := store.GetCampaign(ctx, campaign.ID)
	if err != nil {
		t.Fatalf("get campaign: %v", err)
	}
	if fetched != campaign {
		t.Fatalf("fetched campaign mismatch: %+v", fetched)
	}

	campaigns, err := store.ListCampaigns(ctx)
	if err != nil {
		t.Fatalf("list campaigns: %v", err)
	}
	if len(campaigns) != 1 {
		t.Fatalf("expected 1 campaign, got %d", len(campaigns))
	}
}

func TestLedgerEntryKeying(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	campaign := testIdentity(1)
	entry := domain.LedgerEntry{
		Contributor:       testIdentity(2),
		Campaign:          campaign,
		Amount:            100,
		FirstContribution: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := store.PutLedgerEntry(ctx, entry); err != nil {
		t.Fatalf("put ledger entry: %v", err)
	}

	fetched, err := store.GetLedgerEntry(ctx, campaign, entry.Contributor)
	if err != nil {
		t.Fatalf("get ledger entry: %v", err)
	}
	if fetched != entry {
		t.Fatalf("ledger entry mismatch: %+v", fetched)
	}

	if _, err := store.GetLedgerEntry(ctx, campaign, testIdentity(9)); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other contributor, got %v", err)
	}
}

func TestProposalPutRequiresExisting(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	proposal := domain.Proposal{ID: testIdentity(1), Campaign: testIdentity(2), Amount: 10}

	if err := store.PutProposal(ctx, proposal); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for put before create, got %v", err)
	}
	if err := store.CreateProposal(ctx, proposal); err != nil {
		t.Fatalf("create proposal: %v", err)
	}
	if err := store.CreateProposal(ctx, proposal); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	proposal.Upvotes = 2
	if err := store.PutProposal(ctx, proposal); err != nil {
		t.Fatalf("put proposal: %v", err)
	}
	fetched, err := store.GetProposal(ctx, proposal.ID)
	if err != nil {
		t.Fatalf("get proposal: %v", err)
	}
	if fetched.Upvotes != 2 {
		t.Fatalf("expected updated tally, got %d", fetched.Upvotes)
	}

	proposals, err := store.ListProposals(ctx, proposal.Campaign)
	if err != nil {
		t.Fatalf("list proposals: %v", err)
	}
	if len(proposals) != 1 {
		t.Fatalf("expected 1 proposal, got %d", len(proposals))
	}
}

func TestVotesAndUpdates(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	proposal := testIdentity(1)
	voter := testIdentity(2)

	if _, err := store.GetVote(ctx, proposal, voter); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	record := domain.VoteRecord{Voter: voter, Proposal: proposal, Upvote: true, HasVoted: true}
	if err := store.PutVote(ctx, record); err != nil {
		t.Fatalf("put vote: %v", err)
	}
	fetched, err := store.GetVote(ctx, proposal, voter)
	if err != nil {
		t.Fatalf("get vote: %v", err)
	}
	if fetched != record {
		t.Fatalf("vote record mismatch: %+v", fetched)
	}

	campaign := testIdentity(3)
	for seq := int64(1); seq <= 3; seq++ {
		entry := domain.UpdateEntry{ID: testIdentity(byte(10 + seq)), Campaign: campaign, Sequence: seq}
		if err := store.AppendUpdate(ctx, entry); err != nil {
			t.Fatalf("append update %d: %v", seq, err)
		}
	}
	updates, err := store.ListUpdates(ctx, campaign)
	if err != nil {
		t.Fatalf("list updates: %v", err)
	}
	if len(updates) != 3 {
		t.Fatalf("expected 3 updates, got %d", len(updates))
	}
	for i, update := range updates {
		if update.Sequence != int64(i+1) {
			t.Fatalf("updates out of append order: %+v", updates)
		}
	}
}
