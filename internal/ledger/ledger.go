// Package ledger holds the in-memory credited-balance accumulator.
package ledger

import (
	"errors"
	"math"

	"github.com/openlane/crossfeed/pkg/models"
)

// ErrOverflow is returned when a credit would overflow the stored
// uint64 balance.
var ErrOverflow = errors.New("ledger: balance overflow")

type key struct {
	chain models.Chain
	user  string
}

// Ledger accumulates credited amounts per (chain, user). It performs no
// locking of its own: callers must hold the session state lock.
type Ledger struct {
	balances map[key]uint64
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{balances: make(map[key]uint64)}
}

// Credit increases the balance for (chain, user) by amount, creating
// the entry on first use. Overflow is rejected without mutating state.
func (l *Ledger) Credit(chain models.Chain, user string, amount uint64) error {
	k := key{chain: chain, user: user}
	current := l.balances[k]
	if amount > math.MaxUint64-current {
		return ErrOverflow
	}
	l.balances[k] = current + amount
	return nil
}

// Balance returns the credited amount for (chain, user), zero if the
// entry was never created.
func (l *Ledger) Balance(chain models.Chain, user string) uint64 {
	return l.balances[key{chain: chain, user: user}]
}

// Snapshot returns every stored entry. Order is unspecified.
func (l *Ledger) Snapshot() []models.BalanceEntry {
	entries := make([]models.BalanceEntry, 0, len(l.balances))
	for k, amount := range l.balances {
		entries = append(entries, models.BalanceEntry{
			Chain:  k.chain,
			User:   k.user,
			Amount: amount,
		})
	}
	return entries
}
