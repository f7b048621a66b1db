package chains

// BridgeSupport records which providers can service a token.
type BridgeSupport struct {
	Defuse    bool `json:"defuse"`
	Native    bool `json:"native"`
	Layerswap bool `json:"layerswap"`
}

// CrossChainToken identifies a fungible asset on one chain. Decimals are
// fixed for the token's lifetime; two tokens are the same entity iff
// (Chain, Address) match.
type CrossChainToken struct {
	Symbol   string        `json:"symbol"`
	Name     string        `json:"name"`
	Address  string        `json:"address"`
	Decimals int           `json:"decimals"`
	Chain    ChainId       `json:"chain"`
	Support  BridgeSupport `json:"bridge_support"`
}

// Same reports whether two tokens are the same on-chain asset.
func (t CrossChainToken) Same(other CrossChainToken) bool {
	return t.Chain == other.Chain && t.Address == other.Address
}

// Route is an ordered (origin, destination) token pair. Routes never span a
// single chain; that is enforced by the validation layer, not here.
type Route struct {
	Origin      CrossChainToken
	Destination CrossChainToken
}

// SameChain reports whether both ends of the route live on one chain.
func (r Route) SameChain() bool {
	return r.Origin.Chain == r.Destination.Chain
}
