// Package bbolt provides a BoltDB-backed funding record store. Records
// are persisted in their fixed-size binary layouts, one bucket per
// record kind, and every write runs inside a single Bolt update
// transaction.
package bbolt

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/openbuidl/fundvault/internal/funding/domain"
	"github.com/openbuidl/fundvault/internal/storage"
	"github.com/openbuidl/fundvault/internal/storage/record"
	"go.etcd.io/bbolt"
)

const (
	campaignBucket = "campaign"
	ledgerBucket   = "ledger"
	proposalBucket = "proposal"
	voteBucket     = "vote"
	updateBucket   = "update"
)

// Store provides a BoltDB-backed funding record store.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{campaignBucket, ledgerBucket, proposalBucket, voteBucket, updateBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
}

func pairKey(a, b domain.Identity) []byte {
	key := make([]byte, 0, 2*domain.IdentitySize)
	key = append(key, a[:]...)
	return append(key, b[:]...)
}

// CreateCampaign inserts a campaign record.
func (s *Store) CreateCampaign(ctx context.Context, campaign domain.Campaign) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(campaignBucket))
		if bucket.Get(campaign.ID[:]) != nil {
			return storage.ErrAlreadyExists
		}
		return bucket.Put(campaign.ID[:], record.EncodeCampaign(campaign))
	})
}

// GetCampaign returns a campaign record by id.
func (s *Store) GetCampaign(ctx context.Context, id domain.Identity) (domain.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return domain.Campaign{}, err
	}
	var campaign domain.Campaign
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(campaignBucket)).Get(id[:])
		if data == nil {
			return storage.ErrNotFound
		}
		var err error
		campaign, err = record.DecodeCampaign(id, data)
		return err
	})
	if err != nil {
		return domain.Campaign{}, err
	}
	return campaign, nil
}

// ListCampaigns returns all campaign records in key order.
func (s *Store) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []domain.Campaign
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(campaignBucket)).ForEach(func(key, data []byte) error {
			id, err := domain.IdentityFromBytes(key)
			if err != nil {
				return err
			}
			campaign, err := record.DecodeCampaign(id, data)
			if err != nil {
				return err
			}
			out = append(out, campaign)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PutLedgerEntry upserts a contribution ledger entry.
func (s *Store) PutLedgerEntry(ctx context.Context, entry domain.LedgerEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		key := pairKey(entry.Campaign, entry.Contributor)
		return tx.Bucket([]byte(ledgerBucket)).Put(key, record.EncodeLedgerEntry(entry))
	})
}

// GetLedgerEntry returns one contributor's entry for a campaign.
func (s *Store) GetLedgerEntry(ctx context.Context, campaign, contributor domain.Identity) (domain.LedgerEntry, error) {
	if err := ctx.Err(); err != nil {
		return domain.LedgerEntry{}, err
	}
	var entry domain.LedgerEntry
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(ledgerBucket)).Get(pairKey(campaign, contributor))
		if data == nil {
			return storage.ErrNotFound
		}
		var err error
		entry, err = record.DecodeLedgerEntry(data)
		return err
	})
	if err != nil {
		return domain.LedgerEntry{}, err
	}
	return entry, nil
}

// CreateProposal inserts a proposal record.
func (s *Store) CreateProposal(ctx context.Context, proposal domain.Proposal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(proposalBucket))
		if bucket.Get(proposal.ID[:]) != nil {
			return storage.ErrAlreadyExists
		}
		return bucket.Put(proposal.ID[:], record.EncodeProposal(proposal))
	})
}

// PutProposal overwrites an existing proposal record.
func (s *Store) PutProposal(ctx context.Context, proposal domain.Proposal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(proposalBucket))
		if bucket.Get(proposal.ID[:]) == nil {
			return storage.ErrNotFound
		}
		return bucket.Put(proposal.ID[:], record.EncodeProposal(proposal))
	})
}

// GetProposal returns a proposal record by id.
func (s *Store) GetProposal(ctx context.Context, id domain.Identity) (domain.Proposal, error) {
	if err := ctx.Err(); err != nil {
		return domain.Proposal{}, err
	}
	var proposal domain.Proposal
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(proposalBucket)).Get(id[:])
		if data == nil {
			return storage.ErrNotFound
		}
		var err error
		proposal, err = record.DecodeProposal(id, data)
		return err
	})
	if err != nil {
		return domain.Proposal{}, err
	}
	return proposal, nil
}

// ListProposals returns a campaign's proposals in key order.
func (s *Store) ListProposals(ctx context.Context, campaign domain.Identity) ([]domain.Proposal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []domain.Proposal
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(proposalBucket)).ForEach(func(key, data []byte) error {
			id, err := domain.IdentityFromBytes(key)
			if err != nil {
				return err
			}
			proposal, err := record.DecodeProposal(id, data)
			if err != nil {
				return err
			}
			if proposal.Campaign == campaign {
				out = append(out, proposal)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PutVote upserts a vote record.
func (s *Store) PutVote(ctx context.Context, vote domain.VoteRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		key := pairKey(vote.Proposal, vote.Voter)
		return tx.Bucket([]byte(voteBucket)).Put(key, record.EncodeVoteRecord(vote))
	})
}

// GetVote returns one voter's record for a proposal.
func (s *Store) GetVote(ctx context.Context, proposal, voter domain.Identity) (domain.VoteRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.VoteRecord{}, err
	}
	var vote domain.VoteRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(voteBucket)).Get(pairKey(proposal, voter))
		if data == nil {
			return storage.ErrNotFound
		}
		var err error
		vote, err = record.DecodeVoteRecord(data)
		return err
	})
	if err != nil {
		return domain.VoteRecord{}, err
	}
	return vote, nil
}

// AppendUpdate inserts an update log entry keyed by campaign and id.
func (s *Store) AppendUpdate(ctx context.Context, entry domain.UpdateEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		key := pairKey(entry.Campaign, entry.ID)
		return tx.Bucket([]byte(updateBucket)).Put(key, record.EncodeUpdateEntry(entry))
	})
}

// ListUpdates returns a campaign's update log entries.
func (s *Store) ListUpdates(ctx context.Context, campaign domain.Identity) ([]domain.UpdateEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []domain.UpdateEntry
	err := s.db.View(func(tx *bbolt.Tx) error {
		cursor := tx.Bucket([]byte(updateBucket)).Cursor()
		prefix := campaign[:]
		for key, data := cursor.Seek(prefix); key != nil && len(key) == 2*domain.IdentitySize && string(key[:domain.IdentitySize]) == string(prefix); key, data = cursor.Next() {
			id, err := domain.IdentityFromBytes(key[domain.IdentitySize:])
			if err != nil {
				return err
			}
			entry, err := record.DecodeUpdateEntry(id, data)
			if err != nil {
				return err
			}
			out = append(out, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

var _ storage.Store = (*Store)(nil)
