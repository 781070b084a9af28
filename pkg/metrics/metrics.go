package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DepositsTotal counts ledger credits accepted through the API.
var DepositsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "crossfeed_deposits_total",
		Help: "Total number of deposits credited, by chain",
	},
	[]string{"chain"},
)

// OrdersTotal counts taker order submissions by outcome.
var OrdersTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "crossfeed_orders_total",
		Help: "Total number of taker order submissions, by outcome",
	},
	[]string{"status"},
)

// SettlementLegsTotal counts executed settlement legs by outcome.
var SettlementLegsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "crossfeed_settlement_legs_total",
		Help: "Total number of settlement plan legs executed, by outcome",
	},
	[]string{"status"},
)

func init() {
	prometheus.MustRegister(DepositsTotal, OrdersTotal, SettlementLegsTotal)
}
