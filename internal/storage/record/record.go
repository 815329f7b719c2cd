// Package record encodes funding records into the fixed-size binary
// layouts used for binary-compatible persistence. Every record starts
// with an 8-byte kind tag; strings are stored as a 4-byte length prefix
// followed by a zero-padded 96-byte field; integers are little-endian;
// timestamps are int64 unix seconds.
package record

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/openbuidl/fundvault/internal/funding/domain"
)

// Field sizes of the binary layout.
const (
	TagSize      = 8
	refPrefixLen = 4
	refDataLen   = domain.RefMaxLen

	// CampaignSize is tag + owner + ref + vault + token.
	CampaignSize = TagSize + domain.IdentitySize + refPrefixLen + refDataLen + 2*domain.IdentitySize
	// ProposalSize is tag + campaign + ref + amount + upvotes +
	// downvotes + recipient + expiry.
	ProposalSize = TagSize + domain.IdentitySize + refPrefixLen + refDataLen + 3*8 + domain.IdentitySize + 8
	// LedgerEntrySize is tag + contributor + amount + timestamp + campaign.
	LedgerEntrySize = TagSize + domain.IdentitySize + 8 + 8 + domain.IdentitySize
	// VoteRecordSize is tag + voter + proposal + direction + timestamp + voted flag.
	VoteRecordSize = TagSize + 2*domain.IdentitySize + 1 + 8 + 1
	// UpdateEntrySize is tag + campaign + ref + timestamp + sequence.
	UpdateEntrySize = TagSize + domain.IdentitySize + refPrefixLen + refDataLen + 8 + 8
)

// Kind tags, zero-padded to TagSize bytes.
var (
	TagCampaign    = makeTag("campaign")
	TagProposal    = makeTag("proposal")
	TagLedgerEntry = makeTag("ledger")
	TagVoteRecord  = makeTag("vote")
	TagUpdateEntry = makeTag("update")
)

func makeTag(name string) [TagSize]byte {
	var tag [TagSize]byte
	copy(tag[:], name)
	return tag
}

type writer struct {
	buf []byte
}

func (w *writer) tag(tag [TagSize]byte)         { w.buf = append(w.buf, tag[:]...) }
func (w *writer) identity(id domain.Identity)   { w.buf = append(w.buf, id[:]...) }
func (w *writer) u64(value uint64)              { w.buf = binary.LittleEndian.AppendUint64(w.buf, value) }
func (w *writer) i64(value int64)               { w.buf = binary.LittleEndian.AppendUint64(w.buf, uint64(value)) }
func (w *writer) timestamp(value time.Time)     { w.i64(value.Unix()) }
func (w *writer) boolean(value bool)            {
	if value {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

func (w *writer) ref(value string) {
	var prefix [refPrefixLen]byte
	binary.LittleEndian.PutUint32(prefix[:], uint32(len(value)))
	w.buf = append(w.buf, prefix[:]...)
	var data [refDataLen]byte
	copy(data[:], value)
	w.buf = append(w.buf, data[:]...)
}

type reader struct {
	buf []byte
	off int
	err error
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.buf) {
		r.err = fmt.Errorf("record truncated at offset %d", r.off)
		return nil
	}
	out := r.buf[r.off : r.off+n]
	r.off += n
	return out
}

func (r *reader) tag(want [TagSize]byte) {
	got := r.take(TagSize)
	if r.err == nil && !bytes.Equal(got, want[:]) {
		r.err = fmt.Errorf("record kind mismatch: expected %q", bytes.TrimRight(want[:], "\x00"))
	}
}

func (r *reader) identity() domain.Identity {
	raw := r.take(domain.IdentitySize)
	if r.err != nil {
		return domain.Identity{}
	}
	var id domain.Identity
	copy(id[:], raw)
	return id
}

func (r *reader) u64() uint64 {
	raw := r.take(8)
	if r.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint64(raw)
}

func (r *reader) i64() int64 { return int64(r.u64()) }

func (r *reader) timestamp() time.Time {
	value := r.i64()
	if r.err != nil || value == 0 {
		return time.Time{}
	}
	return time.Unix(value, 0).UTC()
}

func (r *reader) boolean() bool {
	raw := r.take(1)
	return r.err == nil && raw[0] != 0
}

func (r *reader) ref() string {
	raw := r.take(refPrefixLen)
	if r.err != nil {
		return ""
	}
	length := binary.LittleEndian.Uint32(raw)
	data := r.take(refDataLen)
	if r.err != nil {
		return ""
	}
	if length > refDataLen {
		r.err = fmt.Errorf("reference length %d exceeds field size", length)
		return ""
	}
	return string(data[:length])
}

// EncodeCampaign serializes a campaign record.
func EncodeCampaign(campaign domain.Campaign) []byte {
	w := writer{buf: make([]byte, 0, CampaignSize)}
	w.tag(TagCampaign)
	w.identity(campaign.Owner)
	w.ref(campaign.RefID)
	w.identity(campaign.Vault)
	w.identity(campaign.Token)
	return w.buf
}

// DecodeCampaign deserializes a campaign record keyed by id.
func DecodeCampaign(id domain.Identity, data []byte) (domain.Campaign, error) {
	r := reader{buf: data}
	r.tag(TagCampaign)
	campaign := domain.Campaign{
		ID:    id,
		Owner: r.identity(),
		RefID: r.ref(),
		Vault: r.identity(),
		Token: r.identity(),
	}
	if r.err != nil {
		return domain.Campaign{}, fmt.Errorf("decode campaign: %w", r.err)
	}
	return campaign, nil
}

// EncodeProposal serializes a proposal record.
func EncodeProposal(proposal domain.Proposal) []byte {
	w := writer{buf: make([]byte, 0, ProposalSize)}
	w.tag(TagProposal)
	w.identity(proposal.Campaign)
	w.ref(proposal.RefID)
	w.u64(proposal.Amount)
	w.u64(proposal.Upvotes)
	w.u64(proposal.Downvotes)
	w.identity(proposal.Recipient)
	w.timestamp(proposal.Expiry)
	return w.buf
}

// DecodeProposal deserializes a proposal record keyed by id.
func DecodeProposal(id domain.Identity, data []byte) (domain.Proposal, error) {
	r := reader{buf: data}
	r.tag(TagProposal)
	proposal := domain.Proposal{
		ID:        id,
		Campaign:  r.identity(),
		RefID:     r.ref(),
		Amount:    r.u64(),
		Upvotes:   r.u64(),
		Downvotes: r.u64(),
		Recipient: r.identity(),
		Expiry:    r.timestamp(),
	}
	if r.err != nil {
		return domain.Proposal{}, fmt.Errorf("decode proposal: %w", r.err)
	}
	return proposal, nil
}

// EncodeLedgerEntry serializes a contribution ledger entry.
func EncodeLedgerEntry(entry domain.LedgerEntry) []byte {
	w := writer{buf: make([]byte, 0, LedgerEntrySize)}
	w.tag(TagLedgerEntry)
	w.identity(entry.Contributor)
	w.u64(entry.Amount)
	w.timestamp(entry.FirstContribution)
	w.identity(entry.Campaign)
	return w.buf
}

// DecodeLedgerEntry deserializes a contribution ledger entry.
func DecodeLedgerEntry(data []byte) (domain.LedgerEntry, error) {
	r := reader{buf: data}
	r.tag(TagLedgerEntry)
	entry := domain.LedgerEntry{
		Contributor:       r.identity(),
		Amount:            r.u64(),
		FirstContribution: r.timestamp(),
		Campaign:          r.identity(),
	}
	if r.err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("decode ledger entry: %w", r.err)
	}
	return entry, nil
}

// EncodeVoteRecord serializes a vote record.
func EncodeVoteRecord(record domain.VoteRecord) []byte {
	w := writer{buf: make([]byte, 0, VoteRecordSize)}
	w.tag(TagVoteRecord)
	w.identity(record.Voter)
	w.identity(record.Proposal)
	w.boolean(record.Upvote)
	w.timestamp(record.UpdatedAt)
	w.boolean(record.HasVoted)
	return w.buf
}

// DecodeVoteRecord deserializes a vote record.
func DecodeVoteRecord(data []byte) (domain.VoteRecord, error) {
	r := reader{buf: data}
	r.tag(TagVoteRecord)
	record := domain.VoteRecord{
		Voter:     r.identity(),
		Proposal:  r.identity(),
		Upvote:    r.boolean(),
		UpdatedAt: r.timestamp(),
		HasVoted:  r.boolean(),
	}
	if r.err != nil {
		return domain.VoteRecord{}, fmt.Errorf("decode vote record: %w", r.err)
	}
	return record, nil
}

// EncodeUpdateEntry serializes an update log entry.
func EncodeUpdateEntry(entry domain.UpdateEntry) []byte {
	w := writer{buf: make([]byte, 0, UpdateEntrySize)}
	w.tag(TagUpdateEntry)
	w.identity(entry.Campaign)
	w.ref(entry.RefID)
	w.timestamp(entry.Timestamp)
	w.i64(entry.Sequence)
	return w.buf
}

// DecodeUpdateEntry deserializes an update log entry keyed by id.
func DecodeUpdateEntry(id domain.Identity, data []byte) (domain.UpdateEntry, error) {
	r := reader{buf: data}
	r.tag(TagUpdateEntry)
	entry := domain.UpdateEntry{
		ID:        id,
		Campaign:  r.identity(),
		RefID:     r.ref(),
		Timestamp: r.timestamp(),
		Sequence:  r.i64(),
	}
	if r.err != nil {
		return domain.UpdateEntry{}, fmt.Errorf("decode update entry: %w", r.err)
	}
	return entry, nil
}
