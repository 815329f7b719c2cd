// Package service coordinates funding operations across the domain
// core, the record stores, and the host token engine. Validation and
// state transitions live in the domain package; this layer loads
// records, applies transitions, moves tokens, and persists results.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/openbuidl/fundvault/internal/funding/domain"
	"github.com/openbuidl/fundvault/internal/platform/id"
	"github.com/openbuidl/fundvault/internal/storage"
	"github.com/openbuidl/fundvault/internal/telemetry"
	"github.com/openbuidl/fundvault/internal/token"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const tracerName = "github.com/openbuidl/fundvault/internal/funding/service"

// Stores groups all funding-related storage interfaces.
type Stores struct {
	Campaigns storage.CampaignStore
	Ledger    storage.LedgerStore
	Proposals storage.ProposalStore
	Votes     storage.VoteStore
	Updates   storage.UpdateStore
}

// Options controls optional service behavior.
type Options struct {
	// EnforceExpiry gates fund release on the proposal expiry in
	// addition to the tally. The canonical lifecycle releases on tally
	// alone.
	EnforceExpiry bool
}

// Service implements the funding operations.
type Service struct {
	stores      Stores
	tokens      token.Engine
	opts        Options
	clock       func() time.Time
	idGenerator func() (domain.Identity, error)
	emitter     *telemetry.Emitter
	tracer      trace.Tracer
}

// NewService creates a Service with default dependencies.
func NewService(stores Stores, tokens token.Engine, opts Options) *Service {
	return &Service{
		stores:      stores,
		tokens:      tokens,
		opts:        opts,
		clock:       time.Now,
		idGenerator: newIdentity,
		tracer:      otel.Tracer(tracerName),
	}
}

// WithEmitter attaches a telemetry emitter. A nil emitter disables
// event emission.
func (s *Service) WithEmitter(emitter *telemetry.Emitter) *Service {
	s.emitter = emitter
	return s
}

func newIdentity() (domain.Identity, error) {
	raw, err := id.NewIdentity()
	if err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity(raw), nil
}

func (s *Service) emit(ctx context.Context, operation string, campaign domain.Identity, detail string) {
	if s.emitter == nil {
		return
	}
	err := s.emitter.Emit(ctx, storage.TelemetryEvent{
		Operation: operation,
		Campaign:  campaign.String(),
		Detail:    detail,
	})
	if err != nil {
		log.Printf("telemetry emit %s: %v", operation, err)
	}
}

// statusFromDomain maps a domain error onto a gRPC status. The stable
// error code prefixes the message so callers can match on it without
// parsing the human-readable text.
func statusFromDomain(err error) error {
	c := codes.Internal
	switch {
	case errors.Is(err, domain.ErrAmountTooLow),
		errors.Is(err, domain.ErrProposalTooShort),
		errors.Is(err, domain.ErrRefTooLong),
		errors.Is(err, domain.ErrMissingOwner),
		errors.Is(err, domain.ErrMissingToken),
		errors.Is(err, domain.ErrMissingCampaign),
		errors.Is(err, domain.ErrMissingRecipient),
		errors.Is(err, domain.ErrMissingVoter),
		errors.Is(err, domain.ErrMissingContributor):
		c = codes.InvalidArgument
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrAlreadyVoted),
		errors.Is(err, domain.ErrProposalNotPassed),
		errors.Is(err, domain.ErrProposalNotOver),
		errors.Is(err, domain.ErrOverflow),
		errors.Is(err, domain.ErrTallyUnderflow):
		c = codes.FailedPrecondition
	}
	if code := domain.Code(err); code != "" {
		return status.Errorf(c, "%s: %v", code, err)
	}
	return status.Error(c, err.Error())
}

// statusFromStorage maps a storage error onto a gRPC status.
func statusFromStorage(action string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return status.Errorf(codes.NotFound, "%s: %v", action, err)
	case errors.Is(err, storage.ErrAlreadyExists):
		return status.Errorf(codes.AlreadyExists, "%s: %v", action, err)
	default:
		return status.Errorf(codes.Internal, "%s: %v", action, err)
	}
}
