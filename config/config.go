package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// SolanaConfig configures the Solana deposit signer.
type SolanaConfig struct {
	Enabled       bool
	RPCUrl        string
	PrivateKey    string // base58
	Commitment    string
	SkipPreflight bool
}

// EVMConfig configures the Ethereum deposit signer.
type EVMConfig struct {
	Enabled    bool
	RPCUrl     string
	PrivateKey string // hex, with or without 0x prefix
	GasLimit   uint64
}

// DepositConfig groups the per-chain signing configuration.
type DepositConfig struct {
	Solana   SolanaConfig
	Ethereum EVMConfig
}

// Config holds the application configuration.
type Config struct {
	JWTToken        string // NEAR Intents 1Click API token
	NativeBridgeURL string
	LayerswapURL    string
	LayerswapAPIKey string
	HTTPTimeout     time.Duration
	QuoteRetries    int
	MonitorInterval time.Duration
	MonitorAttempts int
	SlippageBps     int
	DeadlineSeconds int
	Deposit         DepositConfig
}

// Load reads configuration from environment variables and an optional
// .wavebridge.yaml config file.
func Load() (*Config, error) {
	viper.SetConfigName(".wavebridge")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath(".")

	viper.SetDefault("native_bridge_url", "")
	viper.SetDefault("layerswap_url", "")
	viper.SetDefault("http_timeout_seconds", 15)
	viper.SetDefault("quote_retries", 2)
	viper.SetDefault("monitor_interval_seconds", 3)
	viper.SetDefault("monitor_attempts", 40)
	viper.SetDefault("slippage_bps", 50)
	viper.SetDefault("deadline_seconds", 1200)
	viper.SetDefault("solana_commitment", "confirmed")
	viper.SetDefault("evm_gas_limit", 90000)

	viper.SetEnvPrefix("WAVEBRIDGE")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()

	cfg := &Config{
		JWTToken:        viper.GetString("jwt_token"),
		NativeBridgeURL: viper.GetString("native_bridge_url"),
		LayerswapURL:    viper.GetString("layerswap_url"),
		LayerswapAPIKey: viper.GetString("layerswap_api_key"),
		HTTPTimeout:     time.Duration(viper.GetInt("http_timeout_seconds")) * time.Second,
		QuoteRetries:    viper.GetInt("quote_retries"),
		MonitorInterval: time.Duration(viper.GetInt("monitor_interval_seconds")) * time.Second,
		MonitorAttempts: viper.GetInt("monitor_attempts"),
		SlippageBps:     viper.GetInt("slippage_bps"),
		DeadlineSeconds: viper.GetInt("deadline_seconds"),
		Deposit: DepositConfig{
			Solana: SolanaConfig{
				Enabled:       viper.GetBool("solana_deposit_enabled"),
				RPCUrl:        viper.GetString("solana_rpc_url"),
				PrivateKey:    viper.GetString("solana_private_key"),
				Commitment:    viper.GetString("solana_commitment"),
				SkipPreflight: viper.GetBool("solana_skip_preflight"),
			},
			Ethereum: EVMConfig{
				Enabled:    viper.GetBool("evm_deposit_enabled"),
				RPCUrl:     viper.GetString("evm_rpc_url"),
				PrivateKey: viper.GetString("evm_private_key"),
				GasLimit:   viper.GetUint64("evm_gas_limit"),
			},
		},
	}

	if cfg.JWTToken == "" {
		return nil, fmt.Errorf("JWT token not found. Set WAVEBRIDGE_JWT_TOKEN or add jwt_token to .wavebridge.yaml")
	}

	return cfg, nil
}
