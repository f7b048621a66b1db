package cmd

import (
	"context"
	"fmt"

	"wavebridge/config"
	"wavebridge/pkg/bridge"
	"wavebridge/pkg/chains"
	"wavebridge/pkg/deposit"
	"wavebridge/pkg/httpx"
	"wavebridge/pkg/provider/defuse"
	"wavebridge/pkg/provider/layerswap"
	"wavebridge/pkg/provider/native"
)

// buildEngine wires the orchestration engine from configuration: the token
// registry, one backend per provider, and the deposit signers that are
// enabled in config.
func buildEngine(ctx context.Context, cfg *config.Config) (*bridge.Engine, *deposit.Manager, error) {
	httpClient := httpx.New(cfg.HTTPTimeout, cfg.QuoteRetries)

	depositors := deposit.NewManager()
	if cfg.Deposit.Solana.Enabled {
		sol, err := deposit.NewSolanaDepositor(cfg.Deposit.Solana)
		if err != nil {
			return nil, nil, fmt.Errorf("solana deposit signer: %w", err)
		}
		depositors.Register(chains.Solana, sol)
	}
	if cfg.Deposit.Ethereum.Enabled {
		evm, err := deposit.NewEVMDepositor(ctx, cfg.Deposit.Ethereum)
		if err != nil {
			return nil, nil, fmt.Errorf("ethereum deposit signer: %w", err)
		}
		depositors.Register(chains.Ethereum, evm)
	}

	engine := bridge.New(bridge.Options{
		Registry: bridge.NewRegistry(chains.DefaultTokens()),
		Backends: []bridge.Backend{
			defuse.New(cfg.JWTToken),
			native.New(httpClient, cfg.NativeBridgeURL),
			layerswap.New(httpClient, cfg.LayerswapURL, cfg.LayerswapAPIKey),
		},
		Depositor: depositors,
		Monitor: bridge.MonitorConfig{
			Interval: cfg.MonitorInterval,
			Attempts: cfg.MonitorAttempts,
		},
	})
	return engine, depositors, nil
}

// resolveRoute turns chain/symbol strings into a catalog-backed route.
func resolveRoute(registry *bridge.Registry, srcChain, srcSymbol, dstChain, dstSymbol string) (chains.Route, error) {
	origin, err := lookupToken(registry, srcChain, srcSymbol)
	if err != nil {
		return chains.Route{}, fmt.Errorf("source token: %w", err)
	}
	dest, err := lookupToken(registry, dstChain, dstSymbol)
	if err != nil {
		return chains.Route{}, fmt.Errorf("destination token: %w", err)
	}
	return chains.Route{Origin: origin, Destination: dest}, nil
}

func lookupToken(registry *bridge.Registry, chainName, symbol string) (chains.CrossChainToken, error) {
	chain, err := chains.Parse(chainName)
	if err != nil {
		return chains.CrossChainToken{}, err
	}
	return registry.FindToken(chain, symbol)
}
