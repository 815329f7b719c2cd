package domain

import "time"

// VoteRecord is the per-(proposal, voter) vote state. Direction is only
// meaningful while HasVoted is set. The record is the sole source of
// truth for which tally bucket the voter currently occupies.
type VoteRecord struct {
	Voter     Identity
	Proposal  Identity
	Upvote    bool
	HasVoted  bool
	UpdatedAt time.Time
}

// VoteInput carries one cast or switched vote.
type VoteInput struct {
	Voter    Identity
	Proposal Identity
	Upvote   bool
}

// ApplyVote advances the voter's state machine and adjusts the proposal
// tally in one step. A first vote increments the chosen bucket. A
// repeat vote in the stored direction fails with ErrAlreadyVoted and
// changes nothing. A switched vote decrements the bucket matching the
// voter's previous stored direction and increments the other, so a
// decrement is only ever paired with removing that voter's own prior
// contribution.
func ApplyVote(record VoteRecord, proposal Proposal, input VoteInput, now func() time.Time) (VoteRecord, Proposal, error) {
	if now == nil {
		now = time.Now
	}
	if input.Voter.IsZero() {
		return VoteRecord{}, Proposal{}, ErrMissingVoter
	}

	if record.HasVoted {
		if record.Upvote == input.Upvote {
			return VoteRecord{}, Proposal{}, ErrAlreadyVoted
		}
		if record.Upvote {
			if proposal.Upvotes == 0 {
				return VoteRecord{}, Proposal{}, ErrTallyUnderflow
			}
			proposal.Upvotes--
		} else {
			if proposal.Downvotes == 0 {
				return VoteRecord{}, Proposal{}, ErrTallyUnderflow
			}
			proposal.Downvotes--
		}
	} else {
		record = VoteRecord{
			Voter:    input.Voter,
			Proposal: proposal.ID,
			HasVoted: true,
		}
	}

	if input.Upvote {
		proposal.Upvotes++
	} else {
		proposal.Downvotes++
	}
	record.Upvote = input.Upvote
	record.UpdatedAt = now().UTC()
	return record, proposal, nil
}
