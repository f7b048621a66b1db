package bridge

import (
	"fmt"

	"wavebridge/pkg/amount"
	"wavebridge/pkg/chains"
)

// ValidateRoute applies the pre-flight checks that must pass before any
// network call is issued: two distinct chains, a route the registry can
// service, and a strictly positive amount. Pure; calling it twice on the
// same inputs yields the same verdict.
func (r *Registry) ValidateRoute(route chains.Route, amountDecimal string) error {
	if route.SameChain() {
		return NewError(CodeInvalidRoute,
			fmt.Sprintf("origin and destination are both on %s; bridging requires two chains", route.Origin.Chain))
	}
	if route.Origin.Address == "" || route.Destination.Address == "" {
		return NewError(CodeInvalidQuote, "token address is empty")
	}
	if !amount.IsPositive(amountDecimal) {
		return NewError(CodeInvalidAmount,
			fmt.Sprintf("amount must be a positive decimal, got %q", amountDecimal))
	}
	if len(r.ProvidersFor(route)) == 0 {
		return NewError(CodeNoProviderForRoute,
			fmt.Sprintf("no provider can service %s/%s -> %s/%s",
				route.Origin.Chain, route.Origin.Symbol,
				route.Destination.Chain, route.Destination.Symbol))
	}
	return nil
}

// ValidateAddress checks an address against the per-chain format table.
func ValidateAddress(chain chains.ChainId, addr string) error {
	if addr == "" {
		return nil // optional addresses are validated only when present
	}
	if chains.ValidAddress(chain, addr) {
		return nil
	}
	msg := fmt.Sprintf("address %q is not valid for chain %s", addr, chain)
	if rule, ok := chains.AddressRuleFor(chain); ok {
		msg = fmt.Sprintf("%s (expected %s)", msg, rule.Description)
	}
	return NewError(CodeInvalidAddress, msg)
}

// ValidateOptions checks the caller-supplied recipient and refund addresses
// against the route's chains.
func ValidateOptions(route chains.Route, opts QuoteOptions) error {
	if err := ValidateAddress(route.Destination.Chain, opts.RecipientAddress); err != nil {
		return err
	}
	return ValidateAddress(route.Origin.Chain, opts.RefundAddress)
}
