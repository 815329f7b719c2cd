package domain

import "strings"

// RefMaxLen bounds external reference ids: a 4-byte length prefix plus
// 24 characters at up to 4 bytes each in the persisted layout.
const RefMaxLen = 96

// Campaign is the root record of a funding campaign. All fields are set
// once at initialization and never mutated afterwards.
type Campaign struct {
	ID    Identity
	Owner Identity
	RefID string
	Vault Identity
	Token Identity
}

// Vault describes custody of a campaign's pooled tokens. The balance
// itself lives in the token engine; the authority is derived from the
// campaign and token identities, never from any contributor's key.
type Vault struct {
	ID        Identity
	Campaign  Identity
	Token     Identity
	Authority Identity
}

// InitializeCampaignInput carries the caller-supplied values for
// campaign initialization. Vault and Authority are derived by the
// caller from (ID, Token) before the campaign is assembled.
type InitializeCampaignInput struct {
	ID    Identity
	Owner Identity
	RefID string
	Vault Identity
	Token Identity
}

// InitializeCampaign validates the input and returns the immutable
// campaign record.
func InitializeCampaign(input InitializeCampaignInput) (Campaign, error) {
	if input.Owner.IsZero() {
		return Campaign{}, ErrMissingOwner
	}
	if input.Token.IsZero() {
		return Campaign{}, ErrMissingToken
	}
	refID, err := normalizeRefID(input.RefID)
	if err != nil {
		return Campaign{}, err
	}
	return Campaign{
		ID:    input.ID,
		Owner: input.Owner,
		RefID: refID,
		Vault: input.Vault,
		Token: input.Token,
	}, nil
}

// normalizeRefID trims and bounds an external reference id.
func normalizeRefID(refID string) (string, error) {
	refID = strings.TrimSpace(refID)
	if len(refID) > RefMaxLen {
		return "", ErrRefTooLong
	}
	return refID, nil
}
