package domain

import "time"

// UpdateEntry is one append-only campaign status post. Entries are
// immutable and carry no invariant beyond their own identity.
type UpdateEntry struct {
	ID        Identity
	Campaign  Identity
	RefID     string
	Sequence  int64
	Timestamp time.Time
}

// PostUpdateInput carries one status post.
type PostUpdateInput struct {
	ID       Identity
	Campaign Identity
	RefID    string
	Sequence int64
}

// NewUpdateEntry validates the input and stamps the entry with the
// current time.
func NewUpdateEntry(input PostUpdateInput, now func() time.Time) (UpdateEntry, error) {
	if now == nil {
		now = time.Now
	}
	if input.Campaign.IsZero() {
		return UpdateEntry{}, ErrMissingCampaign
	}
	refID, err := normalizeRefID(input.RefID)
	if err != nil {
		return UpdateEntry{}, err
	}
	return UpdateEntry{
		ID:        input.ID,
		Campaign:  input.Campaign,
		RefID:     refID,
		Sequence:  input.Sequence,
		Timestamp: now().UTC(),
	}, nil
}
