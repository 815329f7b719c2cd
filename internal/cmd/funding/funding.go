// Package funding parses funding CLI flags and runs inspection and
// seeding subcommands against a local record store.
package funding

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/openbuidl/fundvault/internal/funding/domain"
	"github.com/openbuidl/fundvault/internal/funding/service"
	entrypoint "github.com/openbuidl/fundvault/internal/platform/cmd"
	"github.com/openbuidl/fundvault/internal/platform/id"
	"github.com/openbuidl/fundvault/internal/storage"
	boltstore "github.com/openbuidl/fundvault/internal/storage/bbolt"
	"github.com/openbuidl/fundvault/internal/storage/sqlite"
	"github.com/openbuidl/fundvault/internal/telemetry"
	"github.com/openbuidl/fundvault/internal/token"
)

// Config holds funding command configuration.
type Config struct {
	DBPath  string `env:"FUNDVAULT_DB_PATH" envDefault:"data/fundvault.db"`
	Backend string `env:"FUNDVAULT_DB_BACKEND" envDefault:"sqlite"`
}

// ParseConfig parses environment and flags into Config. The remaining
// arguments name the subcommand and its parameters.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, []string, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, nil, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "path to the record database")
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "storage backend (sqlite or bolt)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, nil, err
	}
	return cfg, fs.Args(), nil
}

// Run dispatches a funding subcommand.
func Run(ctx context.Context, cfg Config, args []string, out io.Writer) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceFunding, func(ctx context.Context) error {
		if len(args) == 0 {
			return fmt.Errorf("subcommand is required: campaigns, proposals, updates, seed")
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		switch args[0] {
		case "campaigns":
			return listCampaigns(ctx, store, out)
		case "proposals":
			if len(args) < 2 {
				return fmt.Errorf("usage: proposals <campaign-id>")
			}
			return listProposals(ctx, store, args[1], out)
		case "updates":
			if len(args) < 2 {
				return fmt.Errorf("usage: updates <campaign-id>")
			}
			return listUpdates(ctx, store, args[1], out)
		case "seed":
			return seed(ctx, store, out)
		default:
			return fmt.Errorf("unknown subcommand %q", args[0])
		}
	})
}

func openStore(cfg Config) (storage.Store, error) {
	switch cfg.Backend {
	case "sqlite":
		return sqlite.Open(cfg.DBPath)
	case "bolt":
		return boltstore.Open(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func listCampaigns(ctx context.Context, store storage.Store, out io.Writer) error {
	campaigns, err := store.ListCampaigns(ctx)
	if err != nil {
		return fmt.Errorf("list campaigns: %w", err)
	}
	for _, campaign := range campaigns {
		fmt.Fprintf(out, "%s ref=%s vault=%s\n", campaign.ID, campaign.RefID, campaign.Vault)
	}
	fmt.Fprintf(out, "%d campaign(s)\n", len(campaigns))
	return nil
}

func listProposals(ctx context.Context, store storage.Store, campaignID string, out io.Writer) error {
	id, err := domain.ParseIdentity(campaignID)
	if err != nil {
		return err
	}
	proposals, err := store.ListProposals(ctx, id)
	if err != nil {
		return fmt.Errorf("list proposals: %w", err)
	}
	for _, proposal := range proposals {
		fmt.Fprintf(out, "%s ref=%s amount=%d tally=%d/%d passed=%t expiry=%s\n",
			proposal.ID, proposal.RefID, proposal.Amount,
			proposal.Upvotes, proposal.Downvotes, proposal.Passed(),
			proposal.Expiry.Format("2006-01-02"))
	}
	fmt.Fprintf(out, "%d proposal(s)\n", len(proposals))
	return nil
}

func listUpdates(ctx context.Context, store storage.Store, campaignID string, out io.Writer) error {
	id, err := domain.ParseIdentity(campaignID)
	if err != nil {
		return err
	}
	updates, err := store.ListUpdates(ctx, id)
	if err != nil {
		return fmt.Errorf("list updates: %w", err)
	}
	for _, update := range updates {
		fmt.Fprintf(out, "%s seq=%d ref=%s at=%s\n",
			update.ID, update.Sequence, update.RefID,
			update.Timestamp.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(out, "%d update(s)\n", len(updates))
	return nil
}

// seed walks a demo lifecycle against the store: one campaign, two
// contributors, a passing proposal, and a status update. Tokens come
// from an in-memory engine, so only the records persist.
func seed(ctx context.Context, store storage.Store, out io.Writer) error {
	tokens := token.NewLedger()
	svc := service.NewService(service.Stores{
		Campaigns: store,
		Ledger:    store,
		Proposals: store,
		Votes:     store,
		Updates:   store,
	}, tokens, service.Options{})
	if telemetryStore, ok := store.(storage.TelemetryStore); ok {
		svc.WithEmitter(telemetry.NewEmitter(telemetryStore))
	}

	owner, err := seedIdentity()
	if err != nil {
		return err
	}
	contributorA, err := seedIdentity()
	if err != nil {
		return err
	}
	contributorB, err := seedIdentity()
	if err != nil {
		return err
	}
	recipient, err := seedIdentity()
	if err != nil {
		return err
	}
	tokenMint, err := seedIdentity()
	if err != nil {
		return err
	}

	campaign, err := svc.Initialize(ctx, service.InitializeInput{
		Owner: owner,
		RefID: "demo-campaign",
		Token: tokenMint,
	})
	if err != nil {
		return fmt.Errorf("seed campaign: %w", err)
	}
	fmt.Fprintf(out, "campaign %s\n", campaign.ID)

	if err := tokens.Mint(ctx, contributorA, 100); err != nil {
		return err
	}
	if err := tokens.Mint(ctx, contributorB, 50); err != nil {
		return err
	}
	for _, deposit := range []service.DepositInput{
		{Campaign: campaign.ID, Contributor: contributorA, Amount: 100},
		{Campaign: campaign.ID, Contributor: contributorB, Amount: 50},
	} {
		if _, err := svc.Deposit(ctx, deposit); err != nil {
			return fmt.Errorf("seed deposit: %w", err)
		}
	}

	proposal, err := svc.CreateProposal(ctx, service.CreateProposalInput{
		Campaign:     campaign.ID,
		RefID:        "demo-withdrawal",
		Amount:       120,
		Recipient:    recipient,
		DurationDays: 3,
	})
	if err != nil {
		return fmt.Errorf("seed proposal: %w", err)
	}
	fmt.Fprintf(out, "proposal %s\n", proposal.ID)

	for _, voter := range []domain.Identity{contributorA, contributorB} {
		if _, err := svc.Vote(ctx, service.VoteInput{
			Proposal: proposal.ID,
			Voter:    voter,
			Upvote:   true,
		}); err != nil {
			return fmt.Errorf("seed vote: %w", err)
		}
	}

	if _, err := svc.PostUpdate(ctx, service.PostUpdateInput{
		Campaign: campaign.ID,
		RefID:    "demo-update",
		Sequence: 1,
	}); err != nil {
		return fmt.Errorf("seed update: %w", err)
	}

	fmt.Fprintln(out, "seeded demo lifecycle")
	return nil
}

func seedIdentity() (domain.Identity, error) {
	raw, err := id.NewIdentity()
	if err != nil {
		return domain.Identity{}, fmt.Errorf("seed identity: %w", err)
	}
	return domain.Identity(raw), nil
}
