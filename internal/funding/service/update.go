package service

import (
	"context"
	"fmt"

	"github.com/openbuidl/fundvault/internal/funding/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// PostUpdateInput carries one campaign status post.
type PostUpdateInput struct {
	Campaign domain.Identity
	RefID    string
	Sequence int64
}

// PostUpdate appends a status post to the campaign's update log.
func (s *Service) PostUpdate(ctx context.Context, in PostUpdateInput) (domain.UpdateEntry, error) {
	ctx, span := s.tracer.Start(ctx, "funding.PostUpdate")
	defer span.End()

	if s.stores.Campaigns == nil || s.stores.Updates == nil {
		return domain.UpdateEntry{}, status.Error(codes.Internal, "funding stores are not configured")
	}

	campaign, err := s.stores.Campaigns.GetCampaign(ctx, in.Campaign)
	if err != nil {
		return domain.UpdateEntry{}, statusFromStorage("load campaign", err)
	}

	entryID, err := s.idGenerator()
	if err != nil {
		return domain.UpdateEntry{}, status.Errorf(codes.Internal, "generate update id: %v", err)
	}

	entry, err := domain.NewUpdateEntry(domain.PostUpdateInput{
		ID:       entryID,
		Campaign: campaign.ID,
		RefID:    in.RefID,
		Sequence: in.Sequence,
	}, s.clock)
	if err != nil {
		return domain.UpdateEntry{}, statusFromDomain(err)
	}

	if err := s.stores.Updates.AppendUpdate(ctx, entry); err != nil {
		return domain.UpdateEntry{}, statusFromStorage("append update", err)
	}

	s.emit(ctx, "post_update", campaign.ID, fmt.Sprintf("seq=%d", in.Sequence))
	return entry, nil
}
