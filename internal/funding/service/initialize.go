package service

import (
	"context"
	"fmt"

	"github.com/openbuidl/fundvault/internal/funding/domain"
	"github.com/openbuidl/fundvault/internal/token"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// InitializeInput carries the caller-supplied values for campaign
// initialization.
type InitializeInput struct {
	Owner domain.Identity
	RefID string
	Token domain.Identity
}

// Initialize creates a campaign with a freshly derived vault and hands
// vault custody to the derived authority.
func (s *Service) Initialize(ctx context.Context, in InitializeInput) (domain.Campaign, error) {
	ctx, span := s.tracer.Start(ctx, "funding.Initialize")
	defer span.End()

	if s.stores.Campaigns == nil {
		return domain.Campaign{}, status.Error(codes.Internal, "campaign store is not configured")
	}
	if s.tokens == nil {
		return domain.Campaign{}, status.Error(codes.Internal, "token engine is not configured")
	}

	campaignID, err := s.idGenerator()
	if err != nil {
		return domain.Campaign{}, status.Errorf(codes.Internal, "generate campaign id: %v", err)
	}

	vault := token.DeriveVault(campaignID, in.Token)
	authority := token.DeriveAuthority(campaignID, in.Token)

	campaign, err := domain.InitializeCampaign(domain.InitializeCampaignInput{
		ID:    campaignID,
		Owner: in.Owner,
		RefID: in.RefID,
		Vault: vault,
		Token: in.Token,
	})
	if err != nil {
		return domain.Campaign{}, statusFromDomain(err)
	}

	if err := s.stores.Campaigns.CreateCampaign(ctx, campaign); err != nil {
		return domain.Campaign{}, statusFromStorage("create campaign", err)
	}
	if err := s.tokens.SetAuthority(ctx, vault, authority); err != nil {
		return domain.Campaign{}, status.Errorf(codes.Internal, "assign vault authority: %v", err)
	}

	s.emit(ctx, "initialize", campaign.ID, fmt.Sprintf("ref=%s", campaign.RefID))
	return campaign, nil
}
