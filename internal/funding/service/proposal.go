package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/openbuidl/fundvault/internal/funding/domain"
	"github.com/openbuidl/fundvault/internal/storage"
	"github.com/openbuidl/fundvault/internal/token"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// CreateProposalInput carries the caller-supplied values for a
// withdrawal proposal.
type CreateProposalInput struct {
	Campaign     domain.Identity
	RefID        string
	Amount       uint64
	Recipient    domain.Identity
	DurationDays int64
}

// CreateProposal opens a withdrawal proposal against the campaign's
// vault. The amount is checked against the vault balance at creation
// time only; later deposits and releases can change the balance before
// this proposal resolves.
func (s *Service) CreateProposal(ctx context.Context, in CreateProposalInput) (domain.Proposal, error) {
	ctx, span := s.tracer.Start(ctx, "funding.CreateProposal")
	defer span.End()

	if s.stores.Campaigns == nil || s.stores.Proposals == nil {
		return domain.Proposal{}, status.Error(codes.Internal, "funding stores are not configured")
	}
	if s.tokens == nil {
		return domain.Proposal{}, status.Error(codes.Internal, "token engine is not configured")
	}

	campaign, err := s.stores.Campaigns.GetCampaign(ctx, in.Campaign)
	if err != nil {
		return domain.Proposal{}, statusFromStorage("load campaign", err)
	}

	balance, err := s.tokens.Balance(ctx, campaign.Vault)
	if err != nil {
		return domain.Proposal{}, status.Errorf(codes.Internal, "vault balance: %v", err)
	}

	proposalID, err := s.idGenerator()
	if err != nil {
		return domain.Proposal{}, status.Errorf(codes.Internal, "generate proposal id: %v", err)
	}

	proposal, err := domain.CreateProposal(domain.CreateProposalInput{
		ID:           proposalID,
		Campaign:     campaign.ID,
		RefID:        in.RefID,
		Amount:       in.Amount,
		Recipient:    in.Recipient,
		DurationDays: in.DurationDays,
	}, balance, s.clock)
	if err != nil {
		return domain.Proposal{}, statusFromDomain(err)
	}

	if err := s.stores.Proposals.CreateProposal(ctx, proposal); err != nil {
		return domain.Proposal{}, statusFromStorage("create proposal", err)
	}

	s.emit(ctx, "create_proposal", campaign.ID, fmt.Sprintf("amount=%d days=%d", in.Amount, in.DurationDays))
	return proposal, nil
}

// VoteInput carries one cast or switched vote.
type VoteInput struct {
	Proposal domain.Identity
	Voter    domain.Identity
	Upvote   bool
}

// Vote casts or switches the voter's vote on a proposal and adjusts the
// tally. The vote record and tally writes commit together under the
// host's transaction guarantee.
func (s *Service) Vote(ctx context.Context, in VoteInput) (domain.Proposal, error) {
	ctx, span := s.tracer.Start(ctx, "funding.Vote")
	defer span.End()

	if s.stores.Proposals == nil || s.stores.Votes == nil {
		return domain.Proposal{}, status.Error(codes.Internal, "funding stores are not configured")
	}

	proposal, err := s.stores.Proposals.GetProposal(ctx, in.Proposal)
	if err != nil {
		return domain.Proposal{}, statusFromStorage("load proposal", err)
	}

	record, err := s.stores.Votes.GetVote(ctx, proposal.ID, in.Voter)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return domain.Proposal{}, statusFromStorage("load vote", err)
	}

	record, proposal, err = domain.ApplyVote(record, proposal, domain.VoteInput{
		Voter:    in.Voter,
		Proposal: proposal.ID,
		Upvote:   in.Upvote,
	}, s.clock)
	if err != nil {
		return domain.Proposal{}, statusFromDomain(err)
	}

	if err := s.stores.Votes.PutVote(ctx, record); err != nil {
		return domain.Proposal{}, statusFromStorage("persist vote", err)
	}
	if err := s.stores.Proposals.PutProposal(ctx, proposal); err != nil {
		return domain.Proposal{}, statusFromStorage("persist proposal", err)
	}

	s.emit(ctx, "vote", proposal.Campaign, fmt.Sprintf("upvote=%t", in.Upvote))
	return proposal, nil
}

// ReleaseInput names the proposal whose funds should be released.
type ReleaseInput struct {
	Proposal domain.Identity
}

// Release moves the proposal amount from the campaign vault to the
// proposal recipient once the tally holds a strict upvote majority. The
// transfer is authorized by the campaign's derived authority, so no
// caller-held key can move vault funds. A passed proposal can be
// released more than once as long as the vault balance covers it.
func (s *Service) Release(ctx context.Context, in ReleaseInput) (domain.Proposal, error) {
	ctx, span := s.tracer.Start(ctx, "funding.Release")
	defer span.End()

	if s.stores.Campaigns == nil || s.stores.Proposals == nil {
		return domain.Proposal{}, status.Error(codes.Internal, "funding stores are not configured")
	}
	if s.tokens == nil {
		return domain.Proposal{}, status.Error(codes.Internal, "token engine is not configured")
	}

	proposal, err := s.stores.Proposals.GetProposal(ctx, in.Proposal)
	if err != nil {
		return domain.Proposal{}, statusFromStorage("load proposal", err)
	}
	campaign, err := s.stores.Campaigns.GetCampaign(ctx, proposal.Campaign)
	if err != nil {
		return domain.Proposal{}, statusFromStorage("load campaign", err)
	}

	if err := proposal.AuthorizeRelease(s.clock().UTC(), s.opts.EnforceExpiry); err != nil {
		return domain.Proposal{}, statusFromDomain(err)
	}

	authority := token.DeriveAuthority(campaign.ID, campaign.Token)
	if err := s.tokens.Transfer(ctx, campaign.Vault, proposal.Recipient, authority, proposal.Amount); err != nil {
		return domain.Proposal{}, status.Errorf(codes.FailedPrecondition, "release from vault: %v", err)
	}

	s.emit(ctx, "release", campaign.ID, fmt.Sprintf("amount=%d", proposal.Amount))
	return proposal, nil
}
