package bridge

import (
	"context"

	"wavebridge/pkg/chains"
)

// SettlementState is one observation from a provider's status endpoint.
type SettlementState string

const (
	SettlementPending   SettlementState = "pending"
	SettlementCompleted SettlementState = "completed"
	SettlementFailed    SettlementState = "failed"
)

// StatusReport is the normalized result of a single status query.
type StatusReport struct {
	State           SettlementState
	CompletionTxRef string
	Reason          string // provider-reported failure detail
}

// Backend is the capability every bridging provider implements. It is the
// only boundary where provider-specific payload shapes are allowed; each
// implementation normalizes its own wire format into BridgeQuote and
// StatusReport values.
type Backend interface {
	// ID names the provider.
	ID() Provider

	// GenerateQuote prices a validated route. Implementations convert the
	// human amount to smallest units, call their quote endpoint, and return
	// a pending quote with a future expiry.
	GenerateQuote(ctx context.Context, route chains.Route, amountDecimal string, opts QuoteOptions) (*BridgeQuote, error)

	// SettlementSteps is the number of provider-side sub-steps between the
	// deposit and the final confirmation, fixed per provider.
	SettlementSteps() int

	// Settle submits the recorded deposit to the provider's settlement or
	// relay endpoints. step is invoked once per sub-step with a
	// human-readable description; the returned reference is what the
	// status monitor polls with.
	Settle(ctx context.Context, quote *BridgeQuote, depositTxRef string, step func(description string)) (string, error)

	// Status issues one read-only status query for a settlement reference.
	Status(ctx context.Context, ref string) (StatusReport, error)
}

// Depositor is the chain signing/transaction collaborator. It is supplied
// by wallet-integration code outside the engine; the engine never
// constructs or signs transactions itself.
type Depositor interface {
	SubmitDeposit(ctx context.Context, chain chains.ChainId, fromAddress, toAddress, amountDecimal string, token chains.CrossChainToken) (string, error)
}

// TotalSteps is the fixed step count for an execution against a backend:
// validation, deposit, the provider's settlement sub-steps, and the final
// monitor-confirmed completion. Fixed at execution start so callers can
// render a stable progress bar.
func TotalSteps(b Backend) int {
	return 3 + b.SettlementSteps()
}
