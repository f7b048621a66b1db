package chains

// DefaultTokens is the shipped token catalog. Support flags record which
// backends list the asset; the Solana-StarkNet routing rule lives in the
// capability registry, not here.
func DefaultTokens() []CrossChainToken {
	return []CrossChainToken{
		{
			Symbol: "SOL", Name: "Solana", Chain: Solana,
			Address: "So11111111111111111111111111111111111111112", Decimals: 9,
			Support: BridgeSupport{Defuse: true, Native: true},
		},
		{
			Symbol: "USDC", Name: "USD Coin", Chain: Solana,
			Address: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", Decimals: 6,
			Support: BridgeSupport{Defuse: true, Layerswap: true},
		},
		{
			Symbol: "SOL", Name: "Solana (StarkNet)", Chain: StarkNet,
			Address: "0x04b2f43c5e20ae0837ac6d55b8bcc7ae1e4b26f0c7a0e1f7a3c4d4f9a7b11c01", Decimals: 9,
			Support: BridgeSupport{Defuse: true, Native: true},
		},
		{
			Symbol: "ETH", Name: "Ether (StarkNet)", Chain: StarkNet,
			Address: "0x049d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7", Decimals: 18,
			Support: BridgeSupport{Layerswap: true},
		},
		{
			Symbol: "USDC", Name: "USD Coin (StarkNet)", Chain: StarkNet,
			Address: "0x053c91253bc9682c04929ca02ed00b3e423f6710d2ee7e0d5ebb06f3ecf368a8", Decimals: 6,
			Support: BridgeSupport{Layerswap: true},
		},
		{
			Symbol: "ETH", Name: "Ether", Chain: Ethereum,
			Address: "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee", Decimals: 18,
			Support: BridgeSupport{Defuse: true, Layerswap: true},
		},
		{
			Symbol: "USDC", Name: "USD Coin", Chain: Ethereum,
			Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Decimals: 6,
			Support: BridgeSupport{Defuse: true, Layerswap: true},
		},
		{
			Symbol: "NEAR", Name: "NEAR", Chain: Near,
			Address: "wrap.near", Decimals: 24,
			Support: BridgeSupport{Defuse: true},
		},
		{
			Symbol: "USDC", Name: "USD Coin (NEAR)", Chain: Near,
			Address: "17208628f84f5d6ad33f0da3bbbeb27ffcb398eac501a31bd6ad2011e36133a1", Decimals: 6,
			Support: BridgeSupport{Defuse: true},
		},
	}
}
