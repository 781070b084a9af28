package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

// MakerConfig describes one preseeded maker: its on-chain address, the
// hex-encoded private key used to sign its settlement legs, and its
// fixed share of the settlement plan.
type MakerConfig struct {
	Address    string `mapstructure:"address"`
	PrivateKey string `mapstructure:"private_key"`
	Share      uint64 `mapstructure:"share"`
}

// Config carries everything the process needs: the HTTP listen address,
// the chain connection for settlement, and the corridor topology.
type Config struct {
	ListenAddr string `mapstructure:"listen_addr"`
	LogLevel   string `mapstructure:"log_level"`

	RPCURL       string `mapstructure:"rpc_url"`
	TokenAddress string `mapstructure:"token_address"`

	// Corridor is the single supported taker direction.
	SourceChain string `mapstructure:"source_chain"`
	DestChain   string `mapstructure:"dest_chain"`

	// TakerAddress is the only identity allowed to place orders.
	TakerAddress string `mapstructure:"taker_address"`

	// Threshold is the qualifying taker volume that triggers settlement.
	Threshold uint64 `mapstructure:"threshold"`

	// MinTakerAmount is the minimum size of a single taker order.
	MinTakerAmount uint64 `mapstructure:"min_taker_amount"`

	// MakerSeedAmount is credited to each maker on the destination
	// chain at startup.
	MakerSeedAmount uint64 `mapstructure:"maker_seed_amount"`

	Makers []MakerConfig `mapstructure:"makers"`

	TransferTimeout time.Duration `mapstructure:"transfer_timeout"`
}

// Load reads configuration from an optional config.yaml and from
// CROSSFEED_-prefixed environment variables, then validates it.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AutomaticEnv()
	v.SetEnvPrefix("CROSSFEED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults mirrors the demo deployment: three makers whose shares
// sum to the 1,000,000 unit threshold.
func setDefaults(v *viper.Viper) {
	v.SetDefault("listen_addr", "127.0.0.1:8081")
	v.SetDefault("log_level", "info")
	v.SetDefault("source_chain", "Base")
	v.SetDefault("dest_chain", "Arbitrum")
	v.SetDefault("taker_address", "0x9fd2ff54a9db063578ba06e305744b0fb47b5a08")
	v.SetDefault("threshold", uint64(1_000_000))
	v.SetDefault("min_taker_amount", uint64(1_000_000))
	v.SetDefault("maker_seed_amount", uint64(1_000_000_000))
	v.SetDefault("transfer_timeout", 30*time.Second)
	v.SetDefault("makers", []map[string]interface{}{
		{"address": "0x3aca6e32bd6268ba2b834e6f23405e10575d19b2", "share": uint64(500_000)},
		{"address": "0x7cb386178d13e21093fdc988c7e77102d6464f3e", "share": uint64(300_000)},
		{"address": "0xe08745df99d3563821b633aa93ee02f7f883f25c", "share": uint64(200_000)},
	})
}

// Validate checks the parts of the configuration whose failure must be
// caught at startup rather than mid-settlement.
func (c *Config) Validate() error {
	if c.TokenAddress != "" && !common.IsHexAddress(c.TokenAddress) {
		return fmt.Errorf("token_address %q is not a hex address", c.TokenAddress)
	}
	if !common.IsHexAddress(c.TakerAddress) {
		return fmt.Errorf("taker_address %q is not a hex address", c.TakerAddress)
	}
	if len(c.Makers) == 0 {
		return fmt.Errorf("at least one maker is required")
	}
	var total uint64
	for i, m := range c.Makers {
		if !common.IsHexAddress(m.Address) {
			return fmt.Errorf("maker %d address %q is not a hex address", i, m.Address)
		}
		if m.Share == 0 {
			return fmt.Errorf("maker %d has zero share", i)
		}
		total += m.Share
	}
	if total != c.Threshold {
		return fmt.Errorf("maker shares sum to %d, want threshold %d", total, c.Threshold)
	}
	if c.SourceChain == c.DestChain {
		return fmt.Errorf("source and destination chains must differ")
	}
	if c.Threshold == 0 {
		return fmt.Errorf("threshold must be positive")
	}
	return nil
}
