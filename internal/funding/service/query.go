package service

import (
	"context"

	"github.com/openbuidl/fundvault/internal/funding/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GetCampaign returns a campaign record by id.
func (s *Service) GetCampaign(ctx context.Context, id domain.Identity) (domain.Campaign, error) {
	if s.stores.Campaigns == nil {
		return domain.Campaign{}, status.Error(codes.Internal, "campaign store is not configured")
	}
	campaign, err := s.stores.Campaigns.GetCampaign(ctx, id)
	if err != nil {
		return domain.Campaign{}, statusFromStorage("load campaign", err)
	}
	return campaign, nil
}

// ListCampaigns returns all campaign records.
func (s *Service) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	if s.stores.Campaigns == nil {
		return nil, status.Error(codes.Internal, "campaign store is not configured")
	}
	campaigns, err := s.stores.Campaigns.ListCampaigns(ctx)
	if err != nil {
		return nil, statusFromStorage("list campaigns", err)
	}
	return campaigns, nil
}

// GetLedgerEntry returns one contributor's entry for a campaign.
func (s *Service) GetLedgerEntry(ctx context.Context, campaign, contributor domain.Identity) (domain.LedgerEntry, error) {
	if s.stores.Ledger == nil {
		return domain.LedgerEntry{}, status.Error(codes.Internal, "ledger store is not configured")
	}
	entry, err := s.stores.Ledger.GetLedgerEntry(ctx, campaign, contributor)
	if err != nil {
		return domain.LedgerEntry{}, statusFromStorage("load ledger entry", err)
	}
	return entry, nil
}

// GetProposal returns a proposal record by id.
func (s *Service) GetProposal(ctx context.Context, id domain.Identity) (domain.Proposal, error) {
	if s.stores.Proposals == nil {
		return domain.Proposal{}, status.Error(codes.Internal, "proposal store is not configured")
	}
	proposal, err := s.stores.Proposals.GetProposal(ctx, id)
	if err != nil {
		return domain.Proposal{}, statusFromStorage("load proposal", err)
	}
	return proposal, nil
}

// ListProposals returns a campaign's proposals.
func (s *Service) ListProposals(ctx context.Context, campaign domain.Identity) ([]domain.Proposal, error) {
	if s.stores.Proposals == nil {
		return nil, status.Error(codes.Internal, "proposal store is not configured")
	}
	proposals, err := s.stores.Proposals.ListProposals(ctx, campaign)
	if err != nil {
		return nil, statusFromStorage("list proposals", err)
	}
	return proposals, nil
}

// GetVote returns one voter's record for a proposal.
func (s *Service) GetVote(ctx context.Context, proposal, voter domain.Identity) (domain.VoteRecord, error) {
	if s.stores.Votes == nil {
		return domain.VoteRecord{}, status.Error(codes.Internal, "vote store is not configured")
	}
	record, err := s.stores.Votes.GetVote(ctx, proposal, voter)
	if err != nil {
		return domain.VoteRecord{}, statusFromStorage("load vote", err)
	}
	return record, nil
}

// ListUpdates returns a campaign's update log entries.
func (s *Service) ListUpdates(ctx context.Context, campaign domain.Identity) ([]domain.UpdateEntry, error) {
	if s.stores.Updates == nil {
		return nil, status.Error(codes.Internal, "update store is not configured")
	}
	updates, err := s.stores.Updates.ListUpdates(ctx, campaign)
	if err != nil {
		return nil, statusFromStorage("list updates", err)
	}
	return updates, nil
}
