package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openlane/crossfeed/api"
	"github.com/openlane/crossfeed/internal/matching"
	"github.com/openlane/crossfeed/internal/orderbook"
	"github.com/openlane/crossfeed/internal/settlement"
	"github.com/openlane/crossfeed/pkg/models"
)

const (
	takerAddr = "0x9fd2ff54a9db063578ba06e305744b0fb47b5a08"
	makerB    = "0x3aca6e32bd6268ba2b834e6f23405e10575d19b2"
	makerC    = "0x7cb386178d13e21093fdc988c7e77102d6464f3e"
	makerD    = "0xe08745df99d3563821b633aa93ee02f7f883f25c"
)

// stubTransfers hands out sequential fake hashes, or fails every call.
// Like the production signer table, it only signs for the makers.
type stubTransfers struct {
	calls int
	fail  error
}

func (s *stubTransfers) Transfer(ctx context.Context, chain models.Chain, from, to string, amount uint64) (string, error) {
	if s.fail != nil {
		return "", s.fail
	}
	switch from {
	case makerB, makerC, makerD:
	default:
		return "", fmt.Errorf("%w: %s", settlement.ErrUnknownSender, from)
	}
	s.calls++
	return fmt.Sprintf("0xhash%d", s.calls), nil
}

func setupRouter(t *testing.T, transfers settlement.TransferService) (*gin.Engine, *orderbook.State) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	topo := matching.Topology{
		Source:    models.ChainBase,
		Dest:      models.ChainArbitrum,
		Taker:     takerAddr,
		Threshold: 1_000_000,
		Makers: []matching.MakerShare{
			{Address: makerB, Amount: 500_000},
			{Address: makerC, Amount: 300_000},
			{Address: makerD, Amount: 200_000},
		},
	}
	state, err := orderbook.New(zap.NewNop(), topo, 1_000_000, 1_000_000_000)
	require.NoError(t, err)

	executor := settlement.NewExecutor(transfers, 0, zap.NewNop())
	srv := api.NewServer(zap.NewNop(), state, executor)
	return srv.Router(), state
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router, _ := setupRouter(t, &stubTransfers{})
	w := doJSON(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeposit(t *testing.T) {
	router, state := setupRouter(t, &stubTransfers{})

	w := doJSON(router, http.MethodPost, "/deposit",
		`{"user":"alice","chain":"base","amount":42,"recipientOnOtherChain":"0xabc"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp["user"])
	assert.Equal(t, "Base", resp["chain"])
	assert.Equal(t, float64(42), resp["amount"])
	assert.Equal(t, "0xabc", resp["recipientOnOtherChain"])

	var found bool
	for _, b := range state.Balances() {
		if b.User == "alice" && b.Chain == models.ChainBase {
			found = true
			assert.Equal(t, uint64(42), b.Amount)
		}
	}
	assert.True(t, found)
}

func TestDepositUnknownChain(t *testing.T) {
	router, _ := setupRouter(t, &stubTransfers{})
	w := doJSON(router, http.MethodPost, "/deposit", `{"user":"alice","chain":"dogechain","amount":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderbookListsSeededMakers(t *testing.T) {
	router, _ := setupRouter(t, &stubTransfers{})
	w := doJSON(router, http.MethodGet, "/orderbook", "")
	require.Equal(t, http.StatusOK, w.Code)

	var intents []models.Intent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &intents))
	require.Len(t, intents, 3)
	for _, in := range intents {
		assert.Equal(t, models.SideMaker, in.Side)
	}
}

func TestBalancesListsSeededMakers(t *testing.T) {
	router, _ := setupRouter(t, &stubTransfers{})
	w := doJSON(router, http.MethodGet, "/balances", "")
	require.Equal(t, http.StatusOK, w.Code)

	var entries []models.BalanceEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	assert.Len(t, entries, 3)
}

func TestMatchBeforeLiquidity(t *testing.T) {
	router, _ := setupRouter(t, &stubTransfers{})
	w := doJSON(router, http.MethodPost, "/match", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient taker liquidity")
}

func TestOrderFlowEndToEnd(t *testing.T) {
	router, state := setupRouter(t, &stubTransfers{})

	body := fmt.Sprintf(`{"user":%q,"fromChain":"Base","toChain":"Arbitrum","amount":1000000,"signature":"sig"}`, takerAddr)
	w := doJSON(router, http.MethodPost, "/order", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		IntentID  string                   `json:"intentId"`
		Transfers []models.TransferReceipt `json:"transfers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.IntentID)

	// Only the maker-funded legs on the target chain settle here; the
	// stub, like the real signer table, cannot sign for the taker.
	require.Len(t, resp.Transfers, 3)
	var settled uint64
	for i, tr := range resp.Transfers {
		assert.Equal(t, models.ChainArbitrum, tr.Chain)
		assert.Equal(t, takerAddr, tr.To)
		assert.Equal(t, fmt.Sprintf("0xhash%d", i+1), tr.TxHash)
		settled += tr.Amount
	}
	assert.Equal(t, uint64(1_000_000), settled)

	// The recorded intent now satisfies the matcher.
	w = doJSON(router, http.MethodPost, "/match", "")
	require.Equal(t, http.StatusOK, w.Code)
	var match struct {
		Solution []models.PlanLeg `json:"solution"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &match))
	assert.Len(t, match.Solution, 6)

	assert.Len(t, state.Intents(), 4)
}

func TestOrderRejectsWrongUser(t *testing.T) {
	router, state := setupRouter(t, &stubTransfers{})

	w := doJSON(router, http.MethodPost, "/order",
		`{"user":"0x0000000000000000000000000000000000000001","fromChain":"Base","toChain":"Arbitrum","amount":1000000}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, state.Intents(), 3)
}

func TestOrderRejectsBelowMinimum(t *testing.T) {
	router, state := setupRouter(t, &stubTransfers{})

	body := fmt.Sprintf(`{"user":%q,"fromChain":"Base","toChain":"Arbitrum","amount":999999}`, takerAddr)
	w := doJSON(router, http.MethodPost, "/order", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, state.Intents(), 3)
}

func TestOrderRejectsWrongCorridor(t *testing.T) {
	router, state := setupRouter(t, &stubTransfers{})

	body := fmt.Sprintf(`{"user":%q,"fromChain":"Arbitrum","toChain":"Base","amount":1000000}`, takerAddr)
	w := doJSON(router, http.MethodPost, "/order", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, state.Intents(), 3)
}

// A settlement failure surfaces as a server error but the intent stays
// in the book.
func TestOrderSettlementFailureKeepsIntent(t *testing.T) {
	router, state := setupRouter(t, &stubTransfers{fail: errors.New("rpc down")})

	body := fmt.Sprintf(`{"user":%q,"fromChain":"Base","toChain":"Arbitrum","amount":1000000}`, takerAddr)
	w := doJSON(router, http.MethodPost, "/order", body)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Len(t, state.Intents(), 4)
}
