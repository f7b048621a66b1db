package bridge

import (
	"fmt"

	"wavebridge/pkg/chains"
)

// nativePair is the chain pair reserved for the native lock/relay bridge.
// Routes between these two chains never go through another backend.
var nativePair = [2]chains.ChainId{chains.Solana, chains.StarkNet}

// Registry answers which providers can service a route. It is built once
// and read-only afterwards; selection is a pure function of its contents.
type Registry struct {
	tokens map[chains.ChainId][]chains.CrossChainToken
}

// NewRegistry builds a registry from the known token catalog.
func NewRegistry(tokens []chains.CrossChainToken) *Registry {
	r := &Registry{tokens: make(map[chains.ChainId][]chains.CrossChainToken)}
	for _, t := range tokens {
		r.tokens[t.Chain] = append(r.tokens[t.Chain], t)
	}
	return r
}

// Tokens returns the catalog entries for a chain.
func (r *Registry) Tokens(chain chains.ChainId) []chains.CrossChainToken {
	return r.tokens[chain]
}

// FindToken looks a token up by symbol on a chain.
func (r *Registry) FindToken(chain chains.ChainId, symbol string) (chains.CrossChainToken, error) {
	for _, t := range r.tokens[chain] {
		if t.Symbol == symbol {
			return t, nil
		}
	}
	return chains.CrossChainToken{}, fmt.Errorf("token %s not found on chain %s", symbol, chain)
}

// IsSupported reports whether a token declares support for a provider.
func (r *Registry) IsSupported(token chains.CrossChainToken, provider Provider) bool {
	switch provider {
	case ProviderDefuse:
		return token.Support.Defuse
	case ProviderNative:
		return token.Support.Native
	case ProviderLayerswap:
		return token.Support.Layerswap
	default:
		return false
	}
}

func isNativePair(a, b chains.ChainId) bool {
	return (a == nativePair[0] && b == nativePair[1]) ||
		(a == nativePair[1] && b == nativePair[0])
}

// ProvidersFor returns every provider able to service the route, in
// precedence order. The native pair is serviced only by the native bridge.
func (r *Registry) ProvidersFor(route chains.Route) []Provider {
	if route.SameChain() {
		return nil
	}
	if isNativePair(route.Origin.Chain, route.Destination.Chain) {
		return []Provider{ProviderNative}
	}
	var out []Provider
	if route.Origin.Support.Defuse && route.Destination.Support.Defuse {
		out = append(out, ProviderDefuse)
	}
	if route.Origin.Support.Layerswap && route.Destination.Support.Layerswap {
		out = append(out, ProviderLayerswap)
	}
	return out
}

// SelectProvider applies the fixed precedence rule: the native pair routes
// to the native bridge unconditionally; otherwise defuse when both tokens
// support it, then layerswap. Deterministic for a given registry snapshot.
func (r *Registry) SelectProvider(route chains.Route) (Provider, error) {
	if route.SameChain() {
		return "", NewError(CodeInvalidRoute,
			fmt.Sprintf("origin and destination are both on %s; bridging requires two chains", route.Origin.Chain))
	}
	providers := r.ProvidersFor(route)
	if len(providers) == 0 {
		return "", NewError(CodeNoProviderForRoute,
			fmt.Sprintf("no provider can service %s/%s -> %s/%s",
				route.Origin.Chain, route.Origin.Symbol,
				route.Destination.Chain, route.Destination.Symbol))
	}
	return providers[0], nil
}
