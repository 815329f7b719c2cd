// Package token defines the token-custody surface the funding core
// consumes from its execution host: a transfer primitive, account
// authority reassignment, and deterministic authority derivation. An
// in-memory engine backs tests and local tooling.
package token

import (
	"context"
	"crypto/sha256"
	"errors"

	"github.com/openbuidl/fundvault/internal/funding/domain"
)

var (
	// ErrUnauthorized indicates a transfer signed by an identity that
	// does not hold the source account's authority.
	ErrUnauthorized = errors.New("identity does not hold account authority")
	// ErrInsufficientBalance indicates a transfer above the source
	// account balance.
	ErrInsufficientBalance = errors.New("insufficient token balance")
	// ErrUnknownAccount indicates an account the engine has never seen.
	ErrUnknownAccount = errors.New("unknown token account")
)

// Engine is the token-transfer primitive supplied by the execution
// host. The funding core decides when to call it and with which
// authority; custody mechanics stay behind this interface.
type Engine interface {
	// Transfer moves amount from one account to another, authorized by
	// the identity holding the source account's authority.
	Transfer(ctx context.Context, from, to, authority domain.Identity, amount uint64) error
	// SetAuthority reassigns an account's authority. The host verifies
	// the caller; the funding core invokes this exactly once per vault,
	// at campaign initialization.
	SetAuthority(ctx context.Context, account, next domain.Identity) error
	// Balance returns an account's current balance.
	Balance(ctx context.Context, account domain.Identity) (uint64, error)
}

// Derivation seed tags. Fixed values shared with the host so both
// sides derive the same addresses.
const (
	seedVault     = "vault"
	seedAuthority = "authority"
)

// DeriveVault returns the deterministic vault account identity for a
// campaign and token pair.
func DeriveVault(campaign, token domain.Identity) domain.Identity {
	return derive(seedVault, campaign, token)
}

// DeriveAuthority returns the deterministic custody authority for a
// campaign and token pair. The value depends only on the two record
// identities, never on any contributor's key, so no single human-held
// key can move vault funds.
func DeriveAuthority(campaign, token domain.Identity) domain.Identity {
	return derive(seedAuthority, campaign, token)
}

func derive(seed string, campaign, token domain.Identity) domain.Identity {
	h := sha256.New()
	h.Write([]byte(seed))
	h.Write(campaign[:])
	h.Write(token[:])
	var id domain.Identity
	copy(id[:], h.Sum(nil))
	return id
}
