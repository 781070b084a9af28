// Package orderbook owns the session state: the balance ledger and the
// intent book, guarded by a single exclusive lock.
package orderbook

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openlane/crossfeed/internal/ledger"
	"github.com/openlane/crossfeed/internal/matching"
	"github.com/openlane/crossfeed/pkg/models"
)

// Validation errors for taker order submission. Any of these means no
// state was mutated.
var (
	ErrUnauthorizedTaker   = errors.New("orderbook: only the configured taker address may place orders")
	ErrAmountBelowMinimum  = errors.New("orderbook: taker amount below the configured minimum")
	ErrUnsupportedCorridor = errors.New("orderbook: taker orders must follow the configured corridor")
)

// State is the root aggregate for one session. All access to the
// ledger and the intent book goes through its methods; each method
// takes the one exclusive lock for its whole critical section.
type State struct {
	mu sync.Mutex

	ledger   *ledger.Ledger
	intents  []models.Intent
	topology matching.Topology

	minTakerAmount uint64
	logger         *zap.Logger
}

// New creates the session state and preseeds it: one maker intent per
// configured share (destination back toward source) and a starting
// balance for each maker on the destination chain.
func New(logger *zap.Logger, topology matching.Topology, minTakerAmount, makerSeed uint64) (*State, error) {
	if err := topology.Validate(); err != nil {
		return nil, err
	}

	s := &State{
		ledger:         ledger.New(),
		topology:       topology,
		minTakerAmount: minTakerAmount,
		logger:         logger,
	}

	for _, m := range topology.Makers {
		if err := s.ledger.Credit(topology.Dest, m.Address, makerSeed); err != nil {
			return nil, err
		}
		s.intents = append(s.intents, models.Intent{
			ID:        uuid.New(),
			User:      m.Address,
			FromChain: topology.Dest,
			ToChain:   topology.Source,
			Amount:    m.Amount,
			Side:      models.SideMaker,
			Signature: "maker-intent",
		})
	}

	logger.Info("session state seeded",
		zap.Int("makers", len(topology.Makers)),
		zap.Uint64("threshold", topology.Threshold),
		zap.String("corridor", topology.Source.String()+"->"+topology.Dest.String()))

	return s, nil
}

// Topology returns the session's corridor topology.
func (s *State) Topology() matching.Topology {
	return s.topology
}

// Deposit credits the ledger for (chain, user).
func (s *State) Deposit(chain models.Chain, user string, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Credit(chain, user, amount); err != nil {
		return err
	}
	s.logger.Debug("deposit credited",
		zap.String("chain", chain.String()),
		zap.String("user", user),
		zap.Uint64("amount", amount))
	return nil
}

// SubmitTaker validates and records a taker intent. Validation runs in
// a fixed order (identity, size, corridor) and rejects before any
// mutation, so a failed submission leaves the book untouched.
func (s *State) SubmitTaker(user string, from, to models.Chain, amount uint64, signature string) (models.Intent, error) {
	if user != s.topology.Taker {
		return models.Intent{}, ErrUnauthorizedTaker
	}
	if amount < s.minTakerAmount {
		return models.Intent{}, ErrAmountBelowMinimum
	}
	if from != s.topology.Source || to != s.topology.Dest {
		return models.Intent{}, ErrUnsupportedCorridor
	}

	intent := models.Intent{
		ID:        uuid.New(),
		User:      user,
		FromChain: from,
		ToChain:   to,
		Amount:    amount,
		Side:      models.SideTaker,
		Signature: signature,
	}

	s.mu.Lock()
	s.intents = append(s.intents, intent)
	s.mu.Unlock()

	s.logger.Info("taker intent recorded",
		zap.String("intent_id", intent.ID.String()),
		zap.Uint64("amount", amount))

	return intent, nil
}

// Intents returns a copy of the book in submission order.
func (s *State) Intents() []models.Intent {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Intent, len(s.intents))
	copy(out, s.intents)
	return out
}

// Balances returns the ledger snapshot.
func (s *State) Balances() []models.BalanceEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.Snapshot()
}

// MatchPlan runs the threshold rule under the lock and returns the
// settlement plan, if any. The plan is an independent slice: callers
// execute it after this method returns, never while the lock is held.
func (s *State) MatchPlan() ([]models.PlanLeg, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.topology.Match(s.intents)
}
