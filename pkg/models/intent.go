package models

import (
	"github.com/google/uuid"
)

// Side tags an intent as supplying liquidity (maker) or demanding it (taker).
type Side string

const (
	SideMaker Side = "maker"
	SideTaker Side = "taker"
)

// Intent is a declared willingness to trade between two chains.
// Intents are immutable once created and are never removed from the
// order book within a session.
type Intent struct {
	ID        uuid.UUID `json:"id"`
	User      string    `json:"user"`
	FromChain Chain     `json:"fromChain"`
	ToChain   Chain     `json:"toChain"`
	Amount    uint64    `json:"amount"`
	Side      Side      `json:"side"`
	// Signature is carried verbatim from submission; it is not verified.
	Signature string `json:"signature,omitempty"`
}

// PlanLeg is one transfer within a settlement plan.
type PlanLeg struct {
	Chain  Chain  `json:"chain"`
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

// TransferReceipt records a completed settlement leg.
type TransferReceipt struct {
	Chain  Chain  `json:"chain"`
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
	TxHash string `json:"txHash"`
}

// BalanceEntry is one row of a ledger snapshot.
type BalanceEntry struct {
	Chain  Chain  `json:"chain"`
	User   string `json:"user"`
	Amount uint64 `json:"amount"`
}
