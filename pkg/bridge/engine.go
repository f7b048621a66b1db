package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wavebridge/pkg/amount"
	"wavebridge/pkg/chains"
)

// Engine orchestrates quote generation and execution across the registered
// backends. Construct one at process start and pass it by reference; it
// holds no mutable state of its own, so independent executions may run
// concurrently without coordination.
type Engine struct {
	registry  *Registry
	backends  map[Provider]Backend
	depositor Depositor
	monitor   MonitorConfig
	now       func() time.Time
}

// Options for creating an Engine.
type Options struct {
	Registry  *Registry
	Backends  []Backend
	Depositor Depositor
	Monitor   MonitorConfig // zero value uses the package defaults
	Now       func() time.Time
}

// New creates an engine from its collaborators.
func New(opts Options) *Engine {
	backends := make(map[Provider]Backend, len(opts.Backends))
	for _, b := range opts.Backends {
		backends[b.ID()] = b
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		registry:  opts.Registry,
		backends:  backends,
		depositor: opts.Depositor,
		monitor:   opts.Monitor,
		now:       now,
	}
}

// Registry exposes the engine's capability registry.
func (e *Engine) Registry() *Registry { return e.registry }

// SelectProvider resolves a route to a provider using the registry's
// fixed precedence rule.
func (e *Engine) SelectProvider(route chains.Route) (Provider, error) {
	return e.registry.SelectProvider(route)
}

// GenerateQuote validates the route and options locally, selects a
// provider, and asks it to price the transfer. All validation failures are
// reported before any network call so an invalid request never burns part
// of a quote-expiry window.
func (e *Engine) GenerateQuote(ctx context.Context, route chains.Route, amountDecimal string, opts QuoteOptions) (*BridgeQuote, error) {
	if err := e.registry.ValidateRoute(route, amountDecimal); err != nil {
		return nil, err
	}
	if err := ValidateOptions(route, opts); err != nil {
		return nil, err
	}

	provider, err := e.registry.SelectProvider(route)
	if err != nil {
		return nil, err
	}
	backend, ok := e.backends[provider]
	if !ok {
		return nil, NewError(CodeNoProviderForRoute,
			fmt.Sprintf("provider %s is selected for the route but no backend is configured", provider))
	}

	quote, err := backend.GenerateQuote(ctx, route, amountDecimal, opts.Normalize())
	if err != nil {
		return nil, attachContext(err, "", provider, 0)
	}
	return quote, nil
}

// CheckStatus issues one read-only status query against a provider.
func (e *Engine) CheckStatus(ctx context.Context, provider Provider, ref string) (StatusReport, error) {
	backend, ok := e.backends[provider]
	if !ok {
		return StatusReport{}, NewError(CodeNoProviderForRoute,
			fmt.Sprintf("no backend configured for provider %s", provider))
	}
	return backend.Status(ctx, ref)
}

// AwaitTerminal runs the bounded status poll loop for a reference that is
// already settling, independent of any execution.
func (e *Engine) AwaitTerminal(ctx context.Context, provider Provider, ref string) (TerminalOutcome, error) {
	backend, ok := e.backends[provider]
	if !ok {
		return TerminalOutcome{}, NewError(CodeNoProviderForRoute,
			fmt.Sprintf("no backend configured for provider %s", provider))
	}
	return Monitor(ctx, backend, ref, e.monitor)
}

// ExecContext carries the caller-owned collaborator inputs for one
// execution: the funding address on the origin chain and an optional
// progress observer, invoked with a snapshot after every step transition.
type ExecContext struct {
	FromAddress string
	OnProgress  func(BridgeExecution)
}

// ExecuteBridge drives a quote through the provider's step sequence to a
// terminal status. The returned execution is always non-nil; on failure it
// preserves the step log and any recorded transaction references up to the
// failure point. A failed deposit is never retried here: the deposit is a
// chain-level action with its own finality, and re-broadcasting a possibly
// already-accepted transaction risks double spending. Callers needing
// another attempt must request a fresh quote.
func (e *Engine) ExecuteBridge(ctx context.Context, quote *BridgeQuote, execCtx ExecContext) (*BridgeExecution, error) {
	backend, ok := e.backends[quote.Provider]
	if !ok {
		exec := &BridgeExecution{Quote: quote, Status: ExecutionFailed}
		exec.Error = fmt.Sprintf("no backend configured for provider %s", quote.Provider)
		return exec, NewError(CodeNoProviderForRoute, exec.Error)
	}

	exec := &BridgeExecution{
		Quote:               quote,
		Status:              ExecutionInitializing,
		TotalSteps:          TotalSteps(backend),
		EstimatedCompletion: e.now().Add(e.monitor.normalize().Interval * time.Duration(e.monitor.normalize().Attempts)),
	}
	emit := func() {
		if execCtx.OnProgress != nil {
			execCtx.OnProgress(exec.Snapshot())
		}
	}
	emit()

	// VALIDATING
	exec.Status = ExecutionValidating
	emit()
	if err := e.validateQuote(quote); err != nil {
		return exec, e.fail(exec, emit, err)
	}
	exec.advance("Quote validated")
	emit()

	// DEPOSITING
	exec.Status = ExecutionDepositing
	exec.advance(fmt.Sprintf("Submitting deposit of %s %s on %s",
		quote.FromAmount, quote.OriginToken.Symbol, quote.DepositChain))
	emit()
	depositRef, err := e.depositor.SubmitDeposit(ctx, quote.DepositChain,
		execCtx.FromAddress, quote.DepositAddress, quote.FromAmount, quote.OriginToken)
	if err != nil {
		return exec, e.fail(exec, emit, WrapError(CodeExecutionFailed, "deposit submission failed", err))
	}
	exec.DepositTxRef = depositRef
	emit()

	// PROCESSING: provider settlement sub-steps, then status monitoring.
	exec.Status = ExecutionProcessing
	emit()
	settleRef, err := backend.Settle(ctx, quote, depositRef, func(description string) {
		exec.advance(description)
		emit()
	})
	if err != nil {
		return exec, e.fail(exec, emit, err)
	}

	outcome, err := Monitor(ctx, backend, settleRef, e.monitor)
	if err != nil {
		return exec, e.fail(exec, emit, err)
	}

	exec.CompletionTxRef = outcome.CompletionTxRef
	exec.Status = ExecutionCompleted
	exec.advance("Transfer confirmed on destination chain")
	emit()
	return exec, nil
}

// validateQuote enforces the pre-deposit checks: quote freshness, token
// addresses, and a positive amount.
func (e *Engine) validateQuote(quote *BridgeQuote) error {
	if quote.Expired(e.now()) {
		return NewError(CodeQuoteExpired,
			fmt.Sprintf("quote expired at %s; request a fresh quote", quote.ExpiresAt.Format(time.RFC3339)))
	}
	if quote.OriginToken.Address == "" || quote.DestinationToken.Address == "" {
		return NewError(CodeInvalidQuote, "quote carries a token with an empty address")
	}
	if !amount.IsPositive(quote.FromAmount) {
		return NewError(CodeInvalidAmount,
			fmt.Sprintf("quote amount must be positive, got %q", quote.FromAmount))
	}
	return nil
}

// fail marks the execution terminal and annotates the error with quote,
// provider and step context. The step log is kept as-is so the caller can
// show exactly how far the transfer progressed.
func (e *Engine) fail(exec *BridgeExecution, emit func(), err error) error {
	exec.Status = ExecutionFailed
	exec.Error = err.Error()
	emit()
	return attachContext(err, exec.Quote.ID, exec.Quote.Provider, exec.CurrentStep)
}

func attachContext(err error, quoteID string, provider Provider, step int) error {
	var bridgeErr *Error
	if errors.As(err, &bridgeErr) {
		if bridgeErr.QuoteID == "" {
			bridgeErr.QuoteID = quoteID
		}
		if bridgeErr.Provider == "" {
			bridgeErr.Provider = provider
		}
		if bridgeErr.Step == 0 {
			bridgeErr.Step = step
		}
		return err
	}
	return &Error{
		Code: CodeExecutionFailed, Message: err.Error(),
		QuoteID: quoteID, Provider: provider, Step: step, Cause: err,
	}
}
