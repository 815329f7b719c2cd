package domain

import (
	"errors"
	"testing"
	"time"
)

func TestCreateProposalSetsExpiryFromDuration(t *testing.T) {
	fixedTime := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	proposal, err := CreateProposal(CreateProposalInput{
		ID:           testIdentity(9),
		Campaign:     testIdentity(2),
		RefID:        "eriqih",
		Amount:       1000,
		Recipient:    testIdentity(3),
		DurationDays: 7,
	}, 1500, fixedClock(fixedTime))
	if err != nil {
		t.Fatalf("create proposal: %v", err)
	}
	if proposal.Upvotes != 0 || proposal.Downvotes != 0 {
		t.Fatalf("expected empty tally, got %d/%d", proposal.Upvotes, proposal.Downvotes)
	}
	wantExpiry := fixedTime.Add(7 * 24 * time.Hour)
	if !proposal.Expiry.Equal(wantExpiry) {
		t.Fatalf("expected expiry %v, got %v", wantExpiry, proposal.Expiry)
	}
	if proposal.RefID != "eriqih" {
		t.Fatalf("expected ref id preserved, got %q", proposal.RefID)
	}
}

func TestCreateProposalRejectsAmountAboveVaultBalance(t *testing.T) {
	_, err := CreateProposal(CreateProposalInput{
		Campaign:     testIdentity(2),
		Amount:       3000,
		Recipient:    testIdentity(3),
		DurationDays: 7,
	}, 1500, nil)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if Code(err) != "InsufficientFunds" {
		t.Fatalf("expected code InsufficientFunds, got %q", Code(err))
	}
}

func TestCreateProposalRejectsShortDuration(t *testing.T) {
	for _, days := range []int64{0, 1, 2, -1} {
		_, err := CreateProposal(CreateProposalInput{
			Campaign:     testIdentity(2),
			Amount:       10,
			Recipient:    testIdentity(3),
			DurationDays: days,
		}, 1500, nil)
		if !errors.Is(err, ErrProposalTooShort) {
			t.Fatalf("duration %d: expected ErrProposalTooShort, got %v", days, err)
		}
	}

	proposal, err := CreateProposal(CreateProposalInput{
		Campaign:     testIdentity(2),
		Amount:       10,
		Recipient:    testIdentity(3),
		DurationDays: MinProposalDurationDays,
	}, 1500, nil)
	if err != nil {
		t.Fatalf("minimum duration: %v", err)
	}
	if proposal.Amount != 10 {
		t.Fatalf("expected amount 10, got %d", proposal.Amount)
	}
}

func TestCreateProposalBoundsRefID(t *testing.T) {
	long := make([]byte, RefMaxLen+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err := CreateProposal(CreateProposalInput{
		Campaign:     testIdentity(2),
		RefID:        string(long),
		Amount:       10,
		Recipient:    testIdentity(3),
		DurationDays: 7,
	}, 1500, nil)
	if !errors.Is(err, ErrRefTooLong) {
		t.Fatalf("expected ErrRefTooLong, got %v", err)
	}
}

func TestProposalPassed(t *testing.T) {
	tests := []struct {
		up, down uint64
		want     bool
	}{
		{0, 0, false},
		{1, 1, false},
		{2, 3, false},
		{1, 0, true},
		{3, 2, true},
	}
	for _, tc := range tests {
		proposal := Proposal{Upvotes: tc.up, Downvotes: tc.down}
		if proposal.Passed() != tc.want {
			t.Fatalf("tally %d/%d: expected passed=%t", tc.up, tc.down, tc.want)
		}
	}
}

func TestAuthorizeReleaseTallyOnly(t *testing.T) {
	fixedTime := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	proposal := Proposal{Upvotes: 2, Downvotes: 1, Expiry: fixedTime.Add(72 * time.Hour)}

	// Canonical lifecycle: expiry is not compared to the clock.
	if err := proposal.AuthorizeRelease(fixedTime, false); err != nil {
		t.Fatalf("authorize release: %v", err)
	}

	tied := Proposal{Upvotes: 2, Downvotes: 2}
	if err := tied.AuthorizeRelease(fixedTime, false); !errors.Is(err, ErrProposalNotPassed) {
		t.Fatalf("expected ErrProposalNotPassed on tie, got %v", err)
	}
}

func TestAuthorizeReleaseWithExpiryEnforcement(t *testing.T) {
	fixedTime := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	proposal := Proposal{Upvotes: 2, Downvotes: 1, Expiry: fixedTime.Add(time.Hour)}

	if err := proposal.AuthorizeRelease(fixedTime, true); !errors.Is(err, ErrProposalNotOver) {
		t.Fatalf("expected ErrProposalNotOver, got %v", err)
	}
	if err := proposal.AuthorizeRelease(proposal.Expiry, true); err != nil {
		t.Fatalf("authorize at expiry: %v", err)
	}
}
