package storage

import (
	"context"
	"errors"
	"time"

	"github.com/openbuidl/fundvault/internal/funding/domain"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a create collided with an existing record.
var ErrAlreadyExists = errors.New("record already exists")

// CampaignStore persists campaign records.
type CampaignStore interface {
	// CreateCampaign inserts a campaign, failing with ErrAlreadyExists
	// when the identifier is taken.
	CreateCampaign(ctx context.Context, campaign domain.Campaign) error
	GetCampaign(ctx context.Context, id domain.Identity) (domain.Campaign, error)
	ListCampaigns(ctx context.Context) ([]domain.Campaign, error)
}

// LedgerStore persists per-(campaign, contributor) contribution entries.
type LedgerStore interface {
	PutLedgerEntry(ctx context.Context, entry domain.LedgerEntry) error
	GetLedgerEntry(ctx context.Context, campaign, contributor domain.Identity) (domain.LedgerEntry, error)
}

// ProposalStore persists withdrawal proposals.
type ProposalStore interface {
	CreateProposal(ctx context.Context, proposal domain.Proposal) error
	// PutProposal overwrites an existing proposal's mutable tally.
	PutProposal(ctx context.Context, proposal domain.Proposal) error
	GetProposal(ctx context.Context, id domain.Identity) (domain.Proposal, error)
	ListProposals(ctx context.Context, campaign domain.Identity) ([]domain.Proposal, error)
}

// VoteStore persists per-(proposal, voter) vote records.
type VoteStore interface {
	PutVote(ctx context.Context, record domain.VoteRecord) error
	GetVote(ctx context.Context, proposal, voter domain.Identity) (domain.VoteRecord, error)
}

// UpdateStore persists the append-only campaign update log.
type UpdateStore interface {
	AppendUpdate(ctx context.Context, entry domain.UpdateEntry) error
	ListUpdates(ctx context.Context, campaign domain.Identity) ([]domain.UpdateEntry, error)
}

// TelemetryEvent is one operational event emitted by the service layer.
type TelemetryEvent struct {
	Operation string
	Campaign  string
	Detail    string
	Timestamp time.Time
}

// TelemetryStore appends operational telemetry events.
type TelemetryStore interface {
	AppendTelemetryEvent(ctx context.Context, event TelemetryEvent) error
}

// Store groups every record store behind one handle.
type Store interface {
	CampaignStore
	LedgerStore
	ProposalStore
	VoteStore
	UpdateStore
	Close() error
}
