// Package settlement executes settlement plans against an external
// transfer service.
package settlement

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/openlane/crossfeed/pkg/metrics"
	"github.com/openlane/crossfeed/pkg/models"
)

// TransferService is the narrow interface to the outbound chain
// transfer mechanism. Implementations own wallet signing and RPC
// submission; the executor only sequences calls.
type TransferService interface {
	Transfer(ctx context.Context, chain models.Chain, from, to string, amount uint64) (txHash string, err error)
}

// Executor runs plan legs strictly in order. A leg failure aborts the
// remaining legs; completed transfers are neither retried nor
// reversed.
type Executor struct {
	transfers  TransferService
	legTimeout time.Duration
	logger     *zap.Logger
}

// NewExecutor creates an executor. legTimeout bounds each individual
// transfer call; zero means no per-leg bound beyond the caller's ctx.
func NewExecutor(transfers TransferService, legTimeout time.Duration, logger *zap.Logger) *Executor {
	return &Executor{
		transfers:  transfers,
		legTimeout: legTimeout,
		logger:     logger,
	}
}

// Execute runs every leg of the plan sequentially. Leg N+1 is not
// started until leg N has succeeded. On failure it returns the
// receipts of the legs completed so far together with the error; a
// timed-out leg is treated like any other failure.
func (e *Executor) Execute(ctx context.Context, plan []models.PlanLeg) ([]models.TransferReceipt, error) {
	receipts := make([]models.TransferReceipt, 0, len(plan))

	for i, leg := range plan {
		legCtx := ctx
		var cancel context.CancelFunc
		if e.legTimeout > 0 {
			legCtx, cancel = context.WithTimeout(ctx, e.legTimeout)
		}

		txHash, err := e.transfers.Transfer(legCtx, leg.Chain, leg.From, leg.To, leg.Amount)
		if cancel != nil {
			cancel()
		}
		if err != nil {
			metrics.SettlementLegsTotal.WithLabelValues("failed").Inc()
			e.logger.Error("settlement leg failed",
				zap.Int("leg", i),
				zap.String("chain", leg.Chain.String()),
				zap.String("from", leg.From),
				zap.String("to", leg.To),
				zap.Error(err))
			return receipts, fmt.Errorf("settlement leg %d (%s %s -> %s): %w",
				i, leg.Chain, leg.From, leg.To, err)
		}

		metrics.SettlementLegsTotal.WithLabelValues("sent").Inc()
		e.logger.Info("settlement leg sent",
			zap.Int("leg", i),
			zap.String("chain", leg.Chain.String()),
			zap.String("tx_hash", txHash),
			zap.Uint64("amount", leg.Amount))

		receipts = append(receipts, models.TransferReceipt{
			Chain:  leg.Chain,
			From:   leg.From,
			To:     leg.To,
			Amount: leg.Amount,
			TxHash: txHash,
		})
	}

	return receipts, nil
}
