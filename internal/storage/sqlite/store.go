// Package sqlite provides a SQLite-backed funding record store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/openbuidl/fundvault/internal/funding/domain"
	"github.com/openbuidl/fundvault/internal/platform/storage/sqlitemigrate"
	"github.com/openbuidl/fundvault/internal/storage"
	"github.com/openbuidl/fundvault/internal/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists funding records in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	if value == 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite store at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateCampaign inserts one campaign record.
func (s *Store) CreateCampaign(ctx context.Context, campaign domain.Campaign) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO campaigns (id, owner, ref_id, vault, token) VALUES (?, ?, ?, ?, ?)`,
		campaign.ID.String(),
		campaign.Owner.String(),
		campaign.RefID,
		campaign.Vault.String(),
		campaign.Token.String(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create campaign: %w", err)
	}
	return nil
}

// GetCampaign returns one campaign record by id.
func (s *Store) GetCampaign(ctx context.Context, id domain.Identity) (domain.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return domain.Campaign{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, owner, ref_id, vault, token FROM campaigns WHERE id = ?`,
		id.String(),
	)
	campaign, err := scanCampaign(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Campaign{}, storage.ErrNotFound
		}
		return domain.Campaign{}, fmt.Errorf("get campaign: %w", err)
	}
	return campaign, nil
}

// ListCampaigns returns all campaign records ordered by id.
func (s *Store) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, owner, ref_id, vault, token FROM campaigns ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var out []domain.Campaign
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("list campaigns: %w", err)
		}
		out = append(out, campaign)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampaign(row rowScanner) (domain.Campaign, error) {
	var id, owner, refID, vault, token string
	if err := row.Scan(&id, &owner, &refID, &vault, &token); err != nil {
		return domain.Campaign{}, err
	}
	campaign := domain.Campaign{RefID: refID}
	var err error
	if campaign.ID, err = domain.ParseIdentity(id); err != nil {
		return domain.Campaign{}, err
	}
	if campaign.Owner, err = domain.ParseIdentity(owner); err != nil {
		return domain.Campaign{}, err
	}
	if campaign.Vault, err = domain.ParseIdentity(vault); err != nil {
		return domain.Campaign{}, err
	}
	if campaign.Token, err = domain.ParseIdentity(token); err != nil {
		return domain.Campaign{}, err
	}
	return campaign, nil
}

// PutLedgerEntry upserts one contribution ledger entry.
func (s *Store) PutLedgerEntry(ctx context.Context, entry domain.LedgerEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO ledger_entries (campaign_id, contributor, amount, first_contribution)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (campaign_id, contributor)
		 DO UPDATE SET amount = excluded.amount`,
		entry.Campaign.String(),
		entry.Contributor.String(),
		int64(entry.Amount),
		toMillis(entry.FirstContribution),
	)
	if err != nil {
		return fmt.Errorf("put ledger entry: %w", err)
	}
	return nil
}

// GetLedgerEntry returns one contributor's entry for a campaign.
func (s *Store) GetLedgerEntry(ctx context.Context, campaign, contributor domain.Identity) (domain.LedgerEntry, error) {
	if err := ctx.Err(); err != nil {
		return domain.LedgerEntry{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT amount, first_contribution FROM ledger_entries
		  WHERE campaign_id = ? AND contributor = ?`,
		campaign.String(),
		contributor.String(),
	)
	var amount int64
	var first int64
	if err := row.Scan(&amount, &first); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.LedgerEntry{}, storage.ErrNotFound
		}
		return domain.LedgerEntry{}, fmt.Errorf("get ledger entry: %w", err)
	}
	return domain.LedgerEntry{
		Contributor:       contributor,
		Campaign:          campaign,
		Amount:            uint64(amount),
		FirstContribution: fromMillis(first),
	}, nil
}

// CreateProposal inserts one proposal record.
func (s *Store) CreateProposal(ctx context.Context, proposal domain.Proposal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO proposals (id, campaign_id, ref_id, amount, upvotes, downvotes, recipient, expiry)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		proposal.ID.String(),
		proposal.Campaign.String(),
		proposal.RefID,
		int64(proposal.Amount),
		int64(proposal.Upvotes),
		int64(proposal.Downvotes),
		proposal.Recipient.String(),
		toMillis(proposal.Expiry),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create proposal: %w", err)
	}
	return nil
}

// PutProposal overwrites one proposal's mutable tally.
func (s *Store) PutProposal(ctx context.Context, proposal domain.Proposal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE proposals SET upvotes = ?, downvotes = ? WHERE id = ?`,
		int64(proposal.Upvotes),
		int64(proposal.Downvotes),
		proposal.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("put proposal: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("put proposal: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetProposal returns one proposal record by id.
func (s *Store) GetProposal(ctx context.Context, id domain.Identity) (domain.Proposal, error) {
	if err := ctx.Err(); err != nil {
		return domain.Proposal{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, campaign_id, ref_id, amount, upvotes, downvotes, recipient, expiry
		   FROM proposals WHERE id = ?`,
		id.String(),
	)
	proposal, err := scanProposal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Proposal{}, storage.ErrNotFound
		}
		return domain.Proposal{}, fmt.Errorf("get proposal: %w", err)
	}
	return proposal, nil
}

// ListProposals returns a campaign's proposals ordered by id.
func (s *Store) ListProposals(ctx context.Context, campaign domain.Identity) ([]domain.Proposal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, campaign_id, ref_id, amount, upvotes, downvotes, recipient, expiry
		   FROM proposals WHERE campaign_id = ? ORDER BY id ASC`,
		campaign.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	defer rows.Close()

	var out []domain.Proposal
	for rows.Next() {
		proposal, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("list proposals: %w", err)
		}
		out = append(out, proposal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	return out, nil
}

func scanProposal(row rowScanner) (domain.Proposal, error) {
	var id, campaign, refID, recipient string
	var amount, upvotes, downvotes, expiry int64
	if err := row.Scan(&id, &campaign, &refID, &amount, &upvotes, &downvotes, &recipient, &expiry); err != nil {
		return domain.Proposal{}, err
	}
	proposal := domain.Proposal{
		RefID:     refID,
		Amount:    uint64(amount),
		Upvotes:   uint64(upvotes),
		Downvotes: uint64(downvotes),
		Expiry:    fromMillis(expiry),
	}
	var err error
	if proposal.ID, err = domain.ParseIdentity(id); err != nil {
		return domain.Proposal{}, err
	}
	if proposal.Campaign, err = domain.ParseIdentity(campaign); err != nil {
		return domain.Proposal{}, err
	}
	if proposal.Recipient, err = domain.ParseIdentity(recipient); err != nil {
		return domain.Proposal{}, err
	}
	return proposal, nil
}

// PutVote upserts one vote record.
func (s *Store) PutVote(ctx context.Context, record domain.VoteRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	upvote := 0
	if record.Upvote {
		upvote = 1
	}
	hasVoted := 0
	if record.HasVoted {
		hasVoted = 1
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO votes (proposal_id, voter, upvote, has_voted, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (proposal_id, voter)
		 DO UPDATE SET upvote = excluded.upvote, has_voted = excluded.has_voted, updated_at = excluded.updated_at`,
		record.Proposal.String(),
		record.Voter.String(),
		upvote,
		hasVoted,
		toMillis(record.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put vote: %w", err)
	}
	return nil
}

// GetVote returns one voter's record for a proposal.
func (s *Store) GetVote(ctx context.Context, proposal, voter domain.Identity) (domain.VoteRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.VoteRecord{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT upvote, has_voted, updated_at FROM votes WHERE proposal_id = ? AND voter = ?`,
		proposal.String(),
		voter.String(),
	)
	var upvote, hasVoted int
	var updatedAt int64
	if err := row.Scan(&upvote, &hasVoted, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.VoteRecord{}, storage.ErrNotFound
		}
		return domain.VoteRecord{}, fmt.Errorf("get vote: %w", err)
	}
	return domain.VoteRecord{
		Voter:     voter,
		Proposal:  proposal,
		Upvote:    upvote != 0,
		HasVoted:  hasVoted != 0,
		UpdatedAt: fromMillis(updatedAt),
	}, nil
}

// AppendUpdate inserts one update log entry.
func (s *Store) AppendUpdate(ctx context.Context, entry domain.UpdateEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO updates (id, campaign_id, ref_id, seq, created_at) VALUES (?, ?, ?, ?, ?)`,
		entry.ID.String(),
		entry.Campaign.String(),
		entry.RefID,
		entry.Sequence,
		toMillis(entry.Timestamp),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("append update: %w", err)
	}
	return nil
}

// ListUpdates returns a campaign's update log in insertion order.
func (s *Store) ListUpdates(ctx context.Context, campaign domain.Identity) ([]domain.UpdateEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, ref_id, seq, created_at FROM updates WHERE campaign_id = ? ORDER BY rowid ASC`,
		campaign.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list updates: %w", err)
	}
	defer rows.Close()

	var out []domain.UpdateEntry
	for rows.Next() {
		var id, refID string
		var seq, createdAt int64
		if err := rows.Scan(&id, &refID, &seq, &createdAt); err != nil {
			return nil, fmt.Errorf("list updates: %w", err)
		}
		entry := domain.UpdateEntry{
			Campaign:  campaign,
			RefID:     refID,
			Sequence:  seq,
			Timestamp: fromMillis(createdAt),
		}
		if entry.ID, err = domain.ParseIdentity(id); err != nil {
			return nil, fmt.Errorf("list updates: %w", err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list updates: %w", err)
	}
	return out, nil
}

// AppendTelemetryEvent inserts one operational telemetry event.
func (s *Store) AppendTelemetryEvent(ctx context.Context, event storage.TelemetryEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO telemetry_events (operation, campaign_id, detail, created_at) VALUES (?, ?, ?, ?)`,
		event.Operation,
		event.Campaign,
		event.Detail,
		toMillis(event.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("append telemetry event: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var (
	_ storage.Store          = (*Store)(nil)
	_ storage.TelemetryStore = (*Store)(nil)
)
