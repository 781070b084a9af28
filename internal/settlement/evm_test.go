package settlement

import (
	"encoding/hex"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTransferCalldata(t *testing.T) {
	to := common.HexToAddress("0x3aca6e32bd6268ba2b834e6f23405e10575d19b2")
	data := transferCalldata(to, 500_000)

	require.Len(t, data, 68)
	assert.Equal(t, "a9059cbb", hex.EncodeToString(data[:4]))
	// Recipient right-aligned in the first argument word.
	assert.Equal(t, to.Bytes(), data[4+12:4+32])
	// Amount big-endian in the second word.
	assert.Equal(t, "000000000000000000000000000000000000000000000000000000000007a120",
		hex.EncodeToString(data[36:]))
}

func TestNewEVMClientRejectsMismatchedKey(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	keyHex := hex.EncodeToString(crypto.FromECDSA(key))

	// Registered under an address the key does not derive.
	_, err = NewEVMClient("http://127.0.0.1:8545", "0x0000000000000000000000000000000000000010",
		map[string]string{"0x0000000000000000000000000000000000000001": keyHex}, zap.NewNop())
	assert.Error(t, err)
}

func TestNewEVMClientAcceptsValidKey(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey).Hex()
	keyHex := hex.EncodeToString(crypto.FromECDSA(key))

	client, err := NewEVMClient("http://127.0.0.1:8545", "0x0000000000000000000000000000000000000010",
		map[string]string{addr: keyHex}, zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewEVMClientRejectsBadAddresses(t *testing.T) {
	_, err := NewEVMClient("http://127.0.0.1:8545", "not-an-address", nil, zap.NewNop())
	assert.Error(t, err)

	_, err = NewEVMClient("http://127.0.0.1:8545", "0x0000000000000000000000000000000000000010",
		map[string]string{"bogus": "00"}, zap.NewNop())
	assert.Error(t, err)
}
