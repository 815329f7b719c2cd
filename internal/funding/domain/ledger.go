package domain

import (
	"math"
	"time"
)

// LedgerEntry is the per-(campaign, contributor) running contribution
// balance. Contributor, Campaign, and FirstContribution are written
// once on the first deposit; Amount only ever increases.
type LedgerEntry struct {
	Contributor       Identity
	Campaign          Identity
	Amount            uint64
	FirstContribution time.Time
}

// Initialized reports whether the entry has recorded a first deposit.
func (e LedgerEntry) Initialized() bool {
	return !e.FirstContribution.IsZero()
}

// DepositInput carries a single contribution.
type DepositInput struct {
	Contributor Identity
	Campaign    Identity
	Amount      uint64
}

// ApplyDeposit accumulates a contribution into the ledger entry. A zero
// entry means this is the contributor's first deposit to the campaign,
// which initializes the write-once fields from the input and clock.
// The arithmetic is overflow-checked: on overflow the whole deposit
// fails and the returned entry is the zero value, so the caller commits
// nothing.
func ApplyDeposit(entry LedgerEntry, input DepositInput, now func() time.Time) (LedgerEntry, error) {
	if now == nil {
		now = time.Now
	}
	if input.Amount < 1 {
		return LedgerEntry{}, ErrAmountTooLow
	}
	if input.Contributor.IsZero() {
		return LedgerEntry{}, ErrMissingContributor
	}
	if input.Campaign.IsZero() {
		return LedgerEntry{}, ErrMissingCampaign
	}

	if !entry.Initialized() {
		entry = LedgerEntry{
			Contributor:       input.Contributor,
			Campaign:          input.Campaign,
			FirstContribution: now().UTC(),
		}
	}

	if entry.Amount > math.MaxUint64-input.Amount {
		return LedgerEntry{}, ErrOverflow
	}
	entry.Amount += input.Amount
	return entry, nil
}
