package domain

import "errors"

var (
	// ErrAmountTooLow indicates a deposit below the minimum of 1.
	ErrAmountTooLow = errors.New("amount must be at least 1")
	// ErrOverflow indicates a deposit that would overflow the
	// contributor's cumulative amount.
	ErrOverflow = errors.New("deposit overflows the contribution ledger entry")
	// ErrInsufficientFunds indicates a proposal amount above the vault balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrProposalTooShort indicates a proposal duration below the minimum.
	ErrProposalTooShort = errors.New("proposal duration must be at least 3 days")
	// ErrAlreadyVoted indicates a repeated vote in the voter's current direction.
	ErrAlreadyVoted = errors.New("already voted the same vote on this proposal")
	// ErrProposalNotPassed indicates a release attempt without a strict
	// upvote majority.
	ErrProposalNotPassed = errors.New("proposal has not passed")
	// ErrProposalNotOver indicates a release attempt before the proposal
	// expiry. Only returned when expiry enforcement is enabled.
	ErrProposalNotOver = errors.New("proposal voting period is not over")
	// ErrRefTooLong indicates an external reference id above the bound.
	ErrRefTooLong = errors.New("reference id exceeds maximum length")
	// ErrMissingOwner indicates an unset owner identity.
	ErrMissingOwner = errors.New("owner identity is required")
	// ErrMissingToken indicates an unset token identity.
	ErrMissingToken = errors.New("token identity is required")
	// ErrMissingCampaign indicates an unset campaign reference.
	ErrMissingCampaign = errors.New("campaign reference is required")
	// ErrMissingRecipient indicates an unset recipient identity.
	ErrMissingRecipient = errors.New("recipient identity is required")
	// ErrMissingVoter indicates an unset voter identity.
	ErrMissingVoter = errors.New("voter identity is required")
	// ErrMissingContributor indicates an unset contributor identity.
	ErrMissingContributor = errors.New("contributor identity is required")
	// ErrTallyUnderflow indicates a vote switch against a corrupted
	// tally where the voter's stored direction no longer has a count to
	// remove. It cannot occur when records are mutated only through
	// this package under the host's transaction guarantee.
	ErrTallyUnderflow = errors.New("vote tally underflow")
)

// Code returns the stable error code for a domain error, or an empty
// string for errors outside the taxonomy.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrAmountTooLow):
		return "AmountTooLow"
	case errors.Is(err, ErrOverflow):
		return "Overflow"
	case errors.Is(err, ErrInsufficientFunds):
		return "InsufficientFunds"
	case errors.Is(err, ErrProposalTooShort):
		return "ProposalTooShort"
	case errors.Is(err, ErrAlreadyVoted):
		return "AlreadyVoted"
	case errors.Is(err, ErrProposalNotPassed):
		return "ProposalNotPassed"
	case errors.Is(err, ErrProposalNotOver):
		return "ProposalNotOver"
	case errors.Is(err, ErrRefTooLong):
		return "RefTooLong"
	default:
		return ""
	}
}
