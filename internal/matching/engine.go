// Package matching decides when accumulated taker demand justifies
// executing the session's settlement plan.
package matching

import (
	"fmt"
	"math"

	"github.com/openlane/crossfeed/pkg/models"
)

// MakerShare is one maker's fixed slice of the settlement plan.
type MakerShare struct {
	Address string
	Amount  uint64
}

// Topology describes the single supported corridor as data: the taker
// direction, the qualifying volume threshold, and how the threshold
// splits across the makers. Alternate maker sets or thresholds are a
// configuration change, not a code change.
type Topology struct {
	Source    models.Chain
	Dest      models.Chain
	Taker     string
	Threshold uint64
	Makers    []MakerShare
}

// Validate checks that the topology is internally consistent.
func (t Topology) Validate() error {
	if len(t.Makers) == 0 {
		return fmt.Errorf("matching: topology has no makers")
	}
	var total uint64
	for _, m := range t.Makers {
		total += m.Amount
	}
	if total != t.Threshold {
		return fmt.Errorf("matching: maker shares sum to %d, want %d", total, t.Threshold)
	}
	return nil
}

// TakerVolume sums the qualifying taker demand: taker-side intents by
// the configured taker on the configured corridor. Zero-amount intents
// participate harmlessly. The sum saturates at MaxUint64 so that
// accumulated demand can never wrap back below the threshold.
func (t Topology) TakerVolume(intents []models.Intent) uint64 {
	var total uint64
	for _, in := range intents {
		if in.Side != models.SideTaker {
			continue
		}
		if in.User != t.Taker || in.FromChain != t.Source || in.ToChain != t.Dest {
			continue
		}
		if in.Amount > math.MaxUint64-total {
			return math.MaxUint64
		}
		total += in.Amount
	}
	return total
}

// Match evaluates the threshold rule against the book. Below the
// threshold it reports no plan; at or above it returns the fixed
// round-trip plan: the taker pays each maker its share on the source
// chain, and each maker pays the taker the same share on the
// destination chain.
//
// The plan always moves exactly the threshold amount. Volume above the
// threshold is ignored rather than scaled or carried into a new round;
// changing that policy means changing this method, and nothing else.
func (t Topology) Match(intents []models.Intent) ([]models.PlanLeg, bool) {
	if t.TakerVolume(intents) < t.Threshold {
		return nil, false
	}
	return t.Plan(), true
}

// Plan builds the fixed leg sequence for one settlement round. Legs on
// the source chain come first, in maker order, then the destination
// chain returns in the same order.
func (t Topology) Plan() []models.PlanLeg {
	legs := make([]models.PlanLeg, 0, 2*len(t.Makers))
	for _, m := range t.Makers {
		legs = append(legs, models.PlanLeg{
			Chain:  t.Source,
			From:   t.Taker,
			To:     m.Address,
			Amount: m.Amount,
		})
	}
	for _, m := range t.Makers {
		legs = append(legs, models.PlanLeg{
			Chain:  t.Dest,
			From:   m.Address,
			To:     t.Taker,
			Amount: m.Amount,
		})
	}
	return legs
}

// PlanForChain returns the legs of the fixed plan that settle on the
// given chain, in plan order. The destination half is the one the
// service can execute itself: those legs are funded by the makers,
// whose signing keys it holds.
func (t Topology) PlanForChain(chain models.Chain) []models.PlanLeg {
	var legs []models.PlanLeg
	for _, leg := range t.Plan() {
		if leg.Chain == chain {
			legs = append(legs, leg)
		}
	}
	return legs
}
