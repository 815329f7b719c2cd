// Package memory provides an in-memory record store used by tests and
// by hosts that embed the funding core without durable storage.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/openbuidl/fundvault/internal/funding/domain"
	"github.com/openbuidl/fundvault/internal/storage"
)

type ledgerKey struct {
	campaign    domain.Identity
	contributor domain.Identity
}

type voteKey struct {
	proposal domain.Identity
	voter    domain.Identity
}

// Store keeps every record in process memory.
type Store struct {
	mu        sync.RWMutex
	campaigns map[domain.Identity]domain.Campaign
	ledger    map[ledgerKey]domain.LedgerEntry
	proposals map[domain.Identity]domain.Proposal
	votes     map[voteKey]domain.VoteRecord
	updates   map[domain.Identity][]domain.UpdateEntry
	telemetry []storage.TelemetryEvent
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		campaigns: make(map[domain.Identity]domain.Campaign),
		ledger:    make(map[ledgerKey]domain.LedgerEntry),
		proposals: make(map[domain.Identity]domain.Proposal),
		votes:     make(map[voteKey]domain.VoteRecord),
		updates:   make(map[domain.Identity][]domain.UpdateEntry),
	}
}

// Close releases nothing; it satisfies storage.Store.
func (s *Store) Close() error { return nil }

// CreateCampaign inserts a campaign record.
func (s *Store) CreateCampaign(ctx context.Context, campaign domain.Campaign) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.campaigns[campaign.ID]; ok {
		return storage.ErrAlreadyExists
	}
	s.campaigns[campaign.ID] = campaign
	return nil
}

// GetCampaign returns a campaign record by id.
func (s *Store) GetCampaign(ctx context.Context, id domain.Identity) (domain.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return domain.Campaign{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	campaign, ok := s.campaigns[id]
	if !ok {
		return domain.Campaign{}, storage.ErrNotFound
	}
	return campaign, nil
}

// ListCampaigns returns all campaign records ordered by id.
func (s *Store) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Campaign, 0, len(s.campaigns))
	for _, campaign := range s.campaigns {
		out = append(out, campaign)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

// PutLedgerEntry upserts a contribution ledger entry.
func (s *Store) PutLedgerEntry(ctx context.Context, entry domain.LedgerEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger[ledgerKey{campaign: entry.Campaign, contributor: entry.Contributor}] = entry
	return nil
}

// GetLedgerEntry returns one contributor's entry for a campaign.
func (s *Store) GetLedgerEntry(ctx context.Context, campaign, contributor domain.Identity) (domain.LedgerEntry, error) {
	if err := ctx.Err(); err != nil {
		return domain.LedgerEntry{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.ledger[ledgerKey{campaign: campaign, contributor: contributor}]
	if !ok {
		return domain.LedgerEntry{}, storage.ErrNotFound
	}
	return entry, nil
}

// CreateProposal inserts a proposal record.
func (s *Store) CreateProposal(ctx context.Context, proposal domain.Proposal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.proposals[proposal.ID]; ok {
		return storage.ErrAlreadyExists
	}
	s.proposals[proposal.ID] = proposal
	return nil
}

// PutProposal overwrites a proposal record.
func (s *Store) PutProposal(ctx context.Context, proposal domain.Proposal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.proposals[proposal.ID]; !ok {
		return storage.ErrNotFound
	}
	s.proposals[proposal.ID] = proposal
	return nil
}

// GetProposal returns a proposal record by id.
func (s *Store) GetProposal(ctx context.Context, id domain.Identity) (domain.Proposal, error) {
	if err := ctx.Err(); err != nil {
		return domain.Proposal{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	proposal, ok := s.proposals[id]
	if !ok {
		return domain.Proposal{}, storage.ErrNotFound
	}
	return proposal, nil
}

// ListProposals returns a campaign's proposals ordered by id.
func (s *Store) ListProposals(ctx context.Context, campaign domain.Identity) ([]domain.Proposal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Proposal
	for _, proposal := range s.proposals {
		if proposal.Campaign == campaign {
			out = append(out, proposal)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

// PutVote upserts a vote record.
func (s *Store) PutVote(ctx context.Context, record domain.VoteRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.votes[voteKey{proposal: record.Proposal, voter: record.Voter}] = record
	return nil
}

// GetVote returns one voter's record for a proposal.
func (s *Store) GetVote(ctx context.Context, proposal, voter domain.Identity) (domain.VoteRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.VoteRecord{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.votes[voteKey{proposal: proposal, voter: voter}]
	if !ok {
		return domain.VoteRecord{}, storage.ErrNotFound
	}
	return record, nil
}

// AppendUpdate appends an update log entry.
func (s *Store) AppendUpdate(ctx context.Context, entry domain.UpdateEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates[entry.Campaign] = append(s.updates[entry.Campaign], entry)
	return nil
}

// ListUpdates returns a campaign's update log in append order.
func (s *Store) ListUpdates(ctx context.Context, campaign domain.Identity) ([]domain.UpdateEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.updates[campaign]
	out := make([]domain.UpdateEntry, len(entries))
	copy(out, entries)
	return out, nil
}

// AppendTelemetryEvent records an operational event.
func (s *Store) AppendTelemetryEvent(ctx context.Context, event storage.TelemetryEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.telemetry = append(s.telemetry, event)
	return nil
}

// TelemetryEvents returns a copy of the recorded telemetry events.
func (s *Store) TelemetryEvents() []storage.TelemetryEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]storage.TelemetryEvent, len(s.telemetry))
	copy(out, s.telemetry)
	return out
}

var (
	_ storage.Store          = (*Store)(nil)
	_ storage.TelemetryStore = (*Store)(nil)
)
