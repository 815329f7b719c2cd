package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/openbuidl/fundvault/internal/funding/domain"
	"github.com/openbuidl/fundvault/internal/storage"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DepositInput carries one contribution to a campaign's vault.
type DepositInput struct {
	Campaign    domain.Identity
	Contributor domain.Identity
	Amount      uint64
}

// Deposit moves tokens from the contributor into the campaign vault and
// accumulates the amount into the contributor's ledger entry. The entry
// is created on the first deposit. The token transfer and the ledger
// write commit together under the host's transaction guarantee.
func (s *Service) Deposit(ctx context.Context, in DepositInput) (domain.LedgerEntry, error) {
	ctx, span := s.tracer.Start(ctx, "funding.Deposit")
	defer span.End()

	if s.stores.Campaigns == nil || s.stores.Ledger == nil {
		return domain.LedgerEntry{}, status.Error(codes.Internal, "funding stores are not configured")
	}
	if s.tokens == nil {
		return domain.LedgerEntry{}, status.Error(codes.Internal, "token engine is not configured")
	}

	campaign, err := s.stores.Campaigns.GetCampaign(ctx, in.Campaign)
	if err != nil {
		return domain.LedgerEntry{}, statusFromStorage("load campaign", err)
	}

	entry, err := s.stores.Ledger.GetLedgerEntry(ctx, campaign.ID, in.Contributor)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return domain.LedgerEntry{}, statusFromStorage("load ledger entry", err)
	}

	entry, err = domain.ApplyDeposit(entry, domain.DepositInput{
		Contributor: in.Contributor,
		Campaign:    campaign.ID,
		Amount:      in.Amount,
	}, s.clock)
	if err != nil {
		return domain.LedgerEntry{}, statusFromDomain(err)
	}

	if err := s.tokens.Transfer(ctx, in.Contributor, campaign.Vault, in.Contributor, in.Amount); err != nil {
		return domain.LedgerEntry{}, status.Errorf(codes.FailedPrecondition, "transfer to vault: %v", err)
	}
	if err := s.stores.Ledger.PutLedgerEntry(ctx, entry); err != nil {
		return domain.LedgerEntry{}, statusFromStorage("persist ledger entry", err)
	}

	s.emit(ctx, "deposit", campaign.ID, fmt.Sprintf("amount=%d", in.Amount))
	return entry, nil
}
