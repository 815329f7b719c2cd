package domain

import (
	"errors"
	"testing"
	"time"
)

func TestApplyVoteFirstVote(t *testing.T) {
	fixedTime := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	voter := testIdentity(5)
	proposal := Proposal{ID: testIdentity(9)}

	record, updated, err := ApplyVote(VoteRecord{}, proposal, VoteInput{
		Voter:    voter,
		Proposal: proposal.ID,
		Upvote:   true,
	}, fixedClock(fixedTime))
	if err != nil {
		t.Fatalf("apply vote: %v", err)
	}
	if updated.Upvotes != 1 || updated.Downvotes != 0 {
		t.Fatalf("expected tally 1/0, got %d/%d", updated.Upvotes, updated.Downvotes)
	}
	if !record.HasVoted || !record.Upvote {
		t.Fatalf("expected voted-up record, got %+v", record)
	}
	if record.Voter != voter || record.Proposal != proposal.ID {
		t.Fatalf("expected record keyed to voter and proposal, got %+v", record)
	}
	if !record.UpdatedAt.Equal(fixedTime) {
		t.Fatalf("expected update time %v, got %v", fixedTime, record.UpdatedAt)
	}
}

func TestApplyVoteSameDirectionFails(t *testing.T) {
	proposal := Proposal{ID: testIdentity(9), Upvotes: 1}
	record := VoteRecord{Voter: testIdentity(5), Proposal: proposal.ID, Upvote: true, HasVoted: true}

	_, _, err := ApplyVote(record, proposal, VoteInput{
		Voter:    record.Voter,
		Proposal: proposal.ID,
		Upvote:   true,
	}, nil)
	if !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}

	proposal = Proposal{ID: testIdentity(9), Downvotes: 1}
	record = VoteRecord{Voter: testIdentity(5), Proposal: proposal.ID, Upvote: false, HasVoted: true}
	_, _, err = ApplyVote(record, proposal, VoteInput{
		Voter:    record.Voter,
		Proposal: proposal.ID,
		Upvote:   false,
	}, nil)
	if !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted on repeat downvote, got %v", err)
	}
}

func TestApplyVoteSwitchAdjustsBothBuckets(t *testing.T) {
	fixedTime := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	proposal := Proposal{ID: testIdentity(9), Upvotes: 3, Downvotes: 1}
	record := VoteRecord{Voter: testIdentity(5), Proposal: proposal.ID, Upvote: true, HasVoted: true}

	before := int64(proposal.Upvotes) - int64(proposal.Downvotes)
	record, updated, err := ApplyVote(record, proposal, VoteInput{
		Voter:    record.Voter,
		Proposal: proposal.ID,
		Upvote:   false,
	}, fixedClock(fixedTime))
	if err != nil {
		t.Fatalf("switch vote: %v", err)
	}
	if updated.Upvotes != 2 || updated.Downvotes != 2 {
		t.Fatalf("expected tally 2/2, got %d/%d", updated.Upvotes, updated.Downvotes)
	}
	after := int64(updated.Upvotes) - int64(updated.Downvotes)
	if after-before != -2 {
		t.Fatalf("expected margin shift of -2, got %d", after-before)
	}
	if record.Upvote {
		t.Fatalf("expected stored direction down, got up")
	}

	// Switch back: +2 margin shift.
	record, updated, err = ApplyVote(record, updated, VoteInput{
		Voter:    record.Voter,
		Proposal: proposal.ID,
		Upvote:   true,
	}, fixedClock(fixedTime))
	if err != nil {
		t.Fatalf("switch back: %v", err)
	}
	if updated.Upvotes != 3 || updated.Downvotes != 1 {
		t.Fatalf("expected tally 3/1, got %d/%d", updated.Upvotes, updated.Downvotes)
	}
	if !record.Upvote {
		t.Fatalf("expected stored direction up")
	}
}

func TestApplyVoteSwitchThenRepeatFails(t *testing.T) {
	proposal := Proposal{ID: testIdentity(9)}
	voter := testIdentity(5)

	record, proposal, err := ApplyVote(VoteRecord{}, proposal, VoteInput{Voter: voter, Proposal: proposal.ID, Upvote: true}, nil)
	if err != nil {
		t.Fatalf("first vote: %v", err)
	}
	record, proposal, err = ApplyVote(record, proposal, VoteInput{Voter: voter, Proposal: proposal.ID, Upvote: false}, nil)
	if err != nil {
		t.Fatalf("switch vote: %v", err)
	}
	if proposal.Upvotes != 0 || proposal.Downvotes != 1 {
		t.Fatalf("expected tally 0/1, got %d/%d", proposal.Upvotes, proposal.Downvotes)
	}

	_, _, err = ApplyVote(record, proposal, VoteInput{Voter: voter, Proposal: proposal.ID, Upvote: false}, nil)
	if !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}
	if proposal.Upvotes != 0 || proposal.Downvotes != 1 {
		t.Fatalf("tally changed on failed vote: %d/%d", proposal.Upvotes, proposal.Downvotes)
	}
}

func TestApplyVoteGuardsTallyUnderflow(t *testing.T) {
	// A voted-up record against a zero upvote bucket means a corrupted
	// tally; the switch must fail instead of wrapping the counter.
	proposal := Proposal{ID: testIdentity(9), Upvotes: 0, Downvotes: 0}
	record := VoteRecord{Voter: testIdentity(5), Proposal: proposal.ID, Upvote: true, HasVoted: true}

	_, _, err := ApplyVote(record, proposal, VoteInput{Voter: record.Voter, Proposal: proposal.ID, Upvote: false}, nil)
	if !errors.Is(err, ErrTallyUnderflow) {
		t.Fatalf("expected ErrTallyUnderflow, got %v", err)
	}
}

func TestApplyVoteRequiresVoter(t *testing.T) {
	_, _, err := ApplyVote(VoteRecord{}, Proposal{ID: testIdentity(9)}, VoteInput{Proposal: testIdentity(9), Upvote: true}, nil)
	if !errors.Is(err, ErrMissingVoter) {
		t.Fatalf("expected ErrMissingVoter, got %v", err)
	}
}
