package domain

import "time"

const (
	// MinProposalDurationDays is the shortest allowed voting window.
	MinProposalDurationDays = 3
	secondsPerDay           = 86400
)

// Proposal is a request to withdraw a fixed amount from a campaign's
// vault to a named recipient, gated by the vote tally.
type Proposal struct {
	ID        Identity
	Campaign  Identity
	RefID     string
	Amount    uint64
	Upvotes   uint64
	Downvotes uint64
	Recipient Identity
	Expiry    time.Time
}

// CreateProposalInput carries the caller-supplied proposal values.
type CreateProposalInput struct {
	ID           Identity
	Campaign     Identity
	RefID        string
	Amount       uint64
	Recipient    Identity
	DurationDays int64
}

// CreateProposal validates the input against the vault balance at
// creation time and returns a proposal with an empty tally and an
// expiry of now plus the requested duration.
func CreateProposal(input CreateProposalInput, vaultBalance uint64, now func() time.Time) (Proposal, error) {
	if now == nil {
		now = time.Now
	}
	if input.Campaign.IsZero() {
		return Proposal{}, ErrMissingCampaign
	}
	if input.Recipient.IsZero() {
		return Proposal{}, ErrMissingRecipient
	}
	refID, err := normalizeRefID(input.RefID)
	if err != nil {
		return Proposal{}, err
	}
	if input.Amount > vaultBalance {
		return Proposal{}, ErrInsufficientFunds
	}
	if input.DurationDays < MinProposalDurationDays {
		return Proposal{}, ErrProposalTooShort
	}
	return Proposal{
		ID:        input.ID,
		Campaign:  input.Campaign,
		RefID:     refID,
		Amount:    input.Amount,
		Recipient: input.Recipient,
		Expiry:    now().UTC().Add(time.Duration(input.DurationDays) * secondsPerDay * time.Second),
	}, nil
}

// Passed reports whether the tally holds a strict upvote majority.
// Ties never pass.
func (p Proposal) Passed() bool {
	return p.Upvotes > p.Downvotes
}

// AuthorizeRelease checks whether the proposal's funds may be released
// at the given time. The expiry comparison only applies when
// enforceExpiry is set; the canonical lifecycle releases on tally
// alone.
func (p Proposal) AuthorizeRelease(at time.Time, enforceExpiry bool) error {
	if enforceExpiry && at.Before(p.Expiry) {
		return ErrProposalNotOver
	}
	if !p.Passed() {
		return ErrProposalNotPassed
	}
	return nil
}
