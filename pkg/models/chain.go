package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Chain identifies one of the settlement venues supported by the exchange.
type Chain int

const (
	ChainBase Chain = iota
	ChainArbitrum
)

// ErrInvalidChain is returned (wrapped) when a chain name cannot be parsed.
var ErrInvalidChain = errors.New("invalid chain")

// AllChains lists every supported chain.
func AllChains() []Chain {
	return []Chain{ChainBase, ChainArbitrum}
}

// String returns the canonical capitalized chain name.
func (c Chain) String() string {
	switch c {
	case ChainBase:
		return "Base"
	case ChainArbitrum:
		return "Arbitrum"
	default:
		return fmt.Sprintf("Chain(%d)", int(c))
	}
}

// ParseChain parses a chain name case-insensitively.
func ParseChain(s string) (Chain, error) {
	switch strings.ToLower(s) {
	case "base":
		return ChainBase, nil
	case "arbitrum":
		return ChainArbitrum, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrInvalidChain, s)
	}
}

// MarshalJSON serializes the chain as its canonical name.
func (c Chain) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON parses a chain from its JSON string form.
func (c *Chain) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseChain(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
