package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openlane/crossfeed/pkg/metrics"
	"github.com/openlane/crossfeed/pkg/models"
)

type depositRequest struct {
	User                  string  `json:"user" validate:"required"`
	Chain                 string  `json:"chain" validate:"required"`
	Amount                uint64  `json:"amount"`
	RecipientOnOtherChain *string `json:"recipientOnOtherChain"`
}

type depositResponse struct {
	User                  string       `json:"user"`
	Chain                 models.Chain `json:"chain"`
	Amount                uint64       `json:"amount"`
	RecipientOnOtherChain *string      `json:"recipientOnOtherChain,omitempty"`
}

type orderRequest struct {
	User      string `json:"user" validate:"required"`
	FromChain string `json:"fromChain" validate:"required"`
	ToChain   string `json:"toChain" validate:"required"`
	Amount    uint64 `json:"amount"`
	Signature string `json:"signature"`
}

type orderResponse struct {
	IntentID  uuid.UUID                `json:"intentId"`
	Transfers []models.TransferReceipt `json:"transfers"`
}

type matchResponse struct {
	Solution []models.PlanLeg `json:"solution"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) deposit(c *gin.Context) {
	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chain, err := models.ParseChain(req.Chain)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.state.Deposit(chain, req.User, req.Amount); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	metrics.DepositsTotal.WithLabelValues(chain.String()).Inc()

	c.JSON(http.StatusOK, depositResponse{
		User:                  req.User,
		Chain:                 chain,
		Amount:                req.Amount,
		RecipientOnOtherChain: req.RecipientOnOtherChain,
	})
}

// createOrder validates and records a taker intent, then settles the
// maker-funded legs of the fixed plan synchronously: the legs on the
// intent's target chain, the only ones whose senders this service
// holds keys for. The intent stays in the book even when settlement
// fails; transfers already sent are not reversed.
func (s *Server) createOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fromChain, err := models.ParseChain(req.FromChain)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	toChain, err := models.ParseChain(req.ToChain)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	intent, err := s.state.SubmitTaker(req.User, fromChain, toChain, req.Amount, req.Signature)
	if err != nil {
		metrics.OrdersTotal.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan := s.state.Topology().PlanForChain(toChain)
	if len(plan) == 0 {
		metrics.OrdersTotal.WithLabelValues("failed").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no settlement plan defined for target chain"})
		return
	}

	receipts, err := s.executor.Execute(c.Request.Context(), plan)
	if err != nil {
		metrics.OrdersTotal.WithLabelValues("failed").Inc()
		s.logger.Error("settlement failed after intent was recorded",
			zap.String("intent_id", intent.ID.String()),
			zap.Int("legs_completed", len(receipts)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	metrics.OrdersTotal.WithLabelValues("settled").Inc()

	c.JSON(http.StatusCreated, orderResponse{
		IntentID:  intent.ID,
		Transfers: receipts,
	})
}

func (s *Server) runMatching(c *gin.Context) {
	legs, ok := s.state.MatchPlan()
	if !ok {
		threshold := s.state.Topology().Threshold
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("insufficient taker liquidity (need %d units)", threshold),
		})
		return
	}
	c.JSON(http.StatusOK, matchResponse{Solution: legs})
}

func (s *Server) listOrderbook(c *gin.Context) {
	c.JSON(http.StatusOK, s.state.Intents())
}

func (s *Server) listBalances(c *gin.Context) {
	c.JSON(http.StatusOK, s.state.Balances())
}
