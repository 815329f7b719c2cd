package sqlite

import (
	"context"
	"errors"
	"path/filepath"
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

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "fundvault.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestCampaignRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	campaign := domain.Campaign{
		ID:    testIdentity(1),
		Owner: testIdentity(2),
		RefID: "eriqih",
		Vault: testIdentity(3),
		Token: testIdentity(4),
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
		t.Fatalf("campaign mismatch: %+v vs %+v", fetched, campaign)
	}

	if _, err := store.GetCampaign(ctx, testIdentity(9)); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	campaigns, err := store.ListCampaigns(ctx)
	if err != nil {
		t.Fatalf("list campaigns: %v", err)
	}
	if len(campaigns) != 1 {
		t.Fatalf("expected 1 campaign, got %d", len(campaigns))
	}
}

func TestLedgerEntryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	entry := domain.LedgerEntry{
		Contributor:       testIdentity(1),
		Campaign:          testIdentity(2),
		Amount:            500,
		FirstContribution: time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC),
	}

	if _, err := store.GetLedgerEntry(ctx, entry.Campaign, entry.Contributor); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.PutLedgerEntry(ctx, entry); err != nil {
		t.Fatalf("put ledger entry: %v", err)
	}

	entry.Amount = 650
	if err := store.PutLedgerEntry(ctx, entry); err != nil {
		t.Fatalf("upsert ledger entry: %v", err)
	}
	fetched, err := store.GetLedgerEntry(ctx, entry.Campaign, entry.Contributor)
	if err != nil {
		t.Fatalf("get ledger entry: %v", err)
	}
	if fetched != entry {
		t.Fatalf("ledger entry mismatch: %+v vs %+v", fetched, entry)
	}
}

func TestProposalAndVotes(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	proposal := domain.Proposal{
		ID:        testIdentity(1),
		Campaign:  testIdentity(2),
		RefID:     "eriqih",
		Amount:    1000,
		Recipient: testIdentity(3),
		Expiry:    time.Date(2026, 2, 8, 10, 0, 0, 0, time.UTC),
	}

	if err := store.PutProposal(ctx, proposal); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before create, got %v", err)
	}
	if err := store.CreateProposal(ctx, proposal); err != nil {
		t.Fatalf("create proposal: %v", err)
	}
	if err := store.CreateProposal(ctx, proposal); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	proposal.Upvotes = 2
	proposal.Downvotes = 1
	if err := store.PutProposal(ctx, proposal); err != nil {
		t.Fatalf("put proposal: %v", err)
	}
	fetched, err := store.GetProposal(ctx, proposal.ID)
	if err != nil {
		t.Fatalf("get proposal: %v", err)
	}
	if fetched != proposal {
		t.Fatalf("proposal mismatch: %+v vs %+v", fetched, proposal)
	}

	proposals, err := store.ListProposals(ctx, proposal.Campaign)
	if err != nil {
		t.Fatalf("list proposals: %v", err)
	}
	if len(proposals) != 1 {
		t.Fatalf("expected 1 proposal, got %d", len(proposals))
	}

	record := domain.VoteRecord{
		Voter:     testIdentity(5),
		Proposal:  proposal.ID,
		Upvote:    true,
		HasVoted:  true,
		UpdatedAt: time.Date(2026, 2, 3, 8, 0, 0, 0, time.UTC),
	}
	if err := store.PutVote(ctx, record); err != nil {
		t.Fatalf("put vote: %v", err)
	}
	record.Upvote = false
	if err := store.PutVote(ctx, record); err != nil {
		t.Fatalf("switch vote: %v", err)
	}
	vote, err := store.GetVote(ctx, proposal.ID, record.Voter)
	if err != nil {
		t.Fatalf("get vote: %v", err)
	}
	if vote != record {
		t.Fatalf("vote mismatch: %+v vs %+v", vote, record)
	}
	if _, err := store.GetVote(ctx, proposal.ID, testIdentity(9)); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown voter, got %v", err)
	}
}

func TestUpdatesAppendOrder(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	campaign := testIdentity(1)

	for seq := int64(1); seq <= 3; seq++ {
		entry := domain.UpdateEntry{
			ID:        testIdentity(byte(10 + seq)),
			Campaign:  campaign,
			RefID:     "post",
			Sequence:  seq,
			Timestamp: time.Date(2026, 2, 1, 0, 0, int(seq), 0, time.UTC),
		}
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
			t.Fatalf("updates out of order: %+v", updates)
		}
	}
}

func TestTelemetryAppend(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	event := storage.TelemetryEvent{
		Operation: "deposit",
		Campaign:  testIdentity(1).String(),
		Detail:    "amount=100",
		Timestamp: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := store.AppendTelemetryEvent(ctx, event); err != nil {
		t.Fatalf("append telemetry event: %v", err)
	}
}
