package token

import (
	"context"
	"sync"

	"github.com/openbuidl/fundvault/internal/funding/domain"
)

// Ledger is an in-memory token engine. Accounts are self-owned until
// their authority is reassigned. It stands in for the host's custody
// primitive in tests and the seed command.
type Ledger struct {
	mu          sync.Mutex
	balances    map[domain.Identity]uint64
	authorities map[domain.Identity]domain.Identity
}

// NewLedger creates an empty token ledger.
func NewLedger() *Ledger {
	return &Ledger{
		balances:    make(map[domain.Identity]uint64),
		authorities: make(map[domain.Identity]domain.Identity),
	}
}

// Mint credits an account, creating it if needed.
func (l *Ledger) Mint(ctx context.Context, account domain.Identity, amount uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensure(account)
	l.balances[account] += amount
	return nil
}

// Transfer moves amount between accounts under the source authority.
func (l *Ledger) Transfer(ctx context.Context, from, to, authority domain.Identity, amount uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	owner, ok := l.authorities[from]
	if !ok {
		return ErrUnknownAccount
	}
	if owner != authority {
		return ErrUnauthorized
	}
	if l.balances[from] < amount {
		return ErrInsufficientBalance
	}
	l.ensure(to)
	l.balances[from] -= amount
	l.balances[to] += amount
	return nil
}

// SetAuthority reassigns an account's authority.
func (l *Ledger) SetAuthority(ctx context.Context, account, next domain.Identity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensure(account)
	l.authorities[account] = next
	return nil
}

// Balance returns an account's balance. Unknown accounts are empty.
func (l *Ledger) Balance(ctx context.Context, account domain.Identity) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[account], nil
}

// ensure registers a self-owned account. Callers must hold the mutex.
func (l *Ledger) ensure(account domain.Identity) {
	if _, ok := l.authorities[account]; !ok {
		l.authorities[account] = account
	}
}

var _ Engine = (*Ledger)(nil)
