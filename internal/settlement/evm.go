package settlement

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/openlane/crossfeed/pkg/models"
)

// ErrUnknownSender is returned when a leg's from address has no
// configured signing key.
var ErrUnknownSender = errors.New("settlement: unknown sender address")

// erc20TransferSelector is the 4-byte selector of
// transfer(address,uint256).
var erc20TransferSelector = []byte{0xa9, 0x05, 0x9c, 0xbb}

const erc20TransferGasLimit = 100_000

// EVMClient implements TransferService by signing and submitting ERC-20
// transfers of the settlement token. Signing keys are a finite map of
// known sender addresses built at construction; anything else is
// ErrUnknownSender.
type EVMClient struct {
	client *ethclient.Client
	token  common.Address
	keys   map[common.Address]*ecdsa.PrivateKey
	logger *zap.Logger
}

// NewEVMClient dials the RPC endpoint and loads the per-sender signing
// keys. senderKeys maps hex address -> hex private key; each key must
// derive the address it is registered under.
func NewEVMClient(rpcURL, tokenAddress string, senderKeys map[string]string, logger *zap.Logger) (*EVMClient, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("settlement: dial rpc: %w", err)
	}
	if !common.IsHexAddress(tokenAddress) {
		return nil, fmt.Errorf("settlement: token address %q is not a hex address", tokenAddress)
	}

	keys := make(map[common.Address]*ecdsa.PrivateKey, len(senderKeys))
	for addr, keyHex := range senderKeys {
		if !common.IsHexAddress(addr) {
			return nil, fmt.Errorf("settlement: sender %q is not a hex address", addr)
		}
		key, err := crypto.HexToECDSA(strings.TrimPrefix(keyHex, "0x"))
		if err != nil {
			return nil, fmt.Errorf("settlement: private key for %s: %w", addr, err)
		}
		want := common.HexToAddress(addr)
		if got := crypto.PubkeyToAddress(key.PublicKey); got != want {
			return nil, fmt.Errorf("settlement: key for %s derives %s", addr, got.Hex())
		}
		keys[want] = key
	}

	return &EVMClient{
		client: client,
		token:  common.HexToAddress(tokenAddress),
		keys:   keys,
		logger: logger,
	}, nil
}

// Transfer signs and submits one ERC-20 transfer. The demo settles
// every leg through the single configured RPC endpoint regardless of
// the leg's chain tag.
func (c *EVMClient) Transfer(ctx context.Context, chain models.Chain, from, to string, amount uint64) (string, error) {
	key, ok := c.keys[common.HexToAddress(from)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownSender, from)
	}

	fromAddr := crypto.PubkeyToAddress(key.PublicKey)
	nonce, err := c.client.PendingNonceAt(ctx, fromAddr)
	if err != nil {
		return "", fmt.Errorf("settlement: nonce for %s: %w", from, err)
	}
	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("settlement: gas price: %w", err)
	}

	data := transferCalldata(common.HexToAddress(to), amount)
	tx := types.NewTransaction(nonce, c.token, big.NewInt(0), erc20TransferGasLimit, gasPrice, data)

	chainID, err := c.client.NetworkID(ctx)
	if err != nil {
		return "", fmt.Errorf("settlement: network id: %w", err)
	}
	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(chainID), key)
	if err != nil {
		return "", fmt.Errorf("settlement: sign tx from %s: %w", from, err)
	}
	if err := c.client.SendTransaction(ctx, signedTx); err != nil {
		return "", fmt.Errorf("settlement: send tx from %s: %w", from, err)
	}

	c.logger.Debug("erc20 transfer submitted",
		zap.String("chain", chain.String()),
		zap.String("from", from),
		zap.String("to", to),
		zap.String("tx_hash", signedTx.Hash().Hex()))

	return signedTx.Hash().Hex(), nil
}

// transferCalldata encodes transfer(address,uint256).
func transferCalldata(to common.Address, amount uint64) []byte {
	data := make([]byte, 0, 4+32+32)
	data = append(data, erc20TransferSelector...)

	var toWord [32]byte
	copy(toWord[12:], to.Bytes())
	data = append(data, toWord[:]...)

	var amountWord [32]byte
	new(big.Int).SetUint64(amount).FillBytes(amountWord[:])
	data = append(data, amountWord[:]...)

	return data
}
