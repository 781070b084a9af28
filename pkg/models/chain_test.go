package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChainCaseInsensitive(t *testing.T) {
	for _, name := range []string{"base", "Base", "BASE"} {
		c, err := ParseChain(name)
		require.NoError(t, err)
		assert.Equal(t, ChainBase, c)
	}

	c, err := ParseChain("arbitrum")
	require.NoError(t, err)
	assert.Equal(t, ChainArbitrum, c)
}

func TestParseChainUnknown(t *testing.T) {
	_, err := ParseChain("solana")
	assert.ErrorIs(t, err, ErrInvalidChain)
}

func TestChainJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(ChainArbitrum)
	require.NoError(t, err)
	assert.Equal(t, `"Arbitrum"`, string(data))

	var c Chain
	require.NoError(t, json.Unmarshal([]byte(`"base"`), &c))
	assert.Equal(t, ChainBase, c)

	assert.Error(t, json.Unmarshal([]byte(`"mainnet"`), &c))
}
