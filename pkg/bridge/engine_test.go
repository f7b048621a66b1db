package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"wavebridge/pkg/chains"
)

// spyDepositor records deposit submissions and can be scripted to fail.
type spyDepositor struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *spyDepositor) SubmitDeposit(ctx context.Context, chain chains.ChainId, fromAddress, toAddress, amountDecimal string, token chains.CrossChainToken) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return fmt.Sprintf("deposit-tx-%d", s.calls), nil
}

func (s *spyDepositor) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func testQuote(provider Provider) *BridgeQuote {
	all := chains.BridgeSupport{Defuse: true, Native: true, Layerswap: true}
	origin := testToken("SOL", chains.Solana, all)
	dest := testToken("SOL", chains.StarkNet, all)
	return &BridgeQuote{
		ID:               "quote-1",
		OriginToken:      origin,
		DestinationToken: dest,
		FromAmount:       "1.5",
		ToAmount:         "1.499",
		Provider:         provider,
		DepositChain:     origin.Chain,
		DestinationChain: dest.Chain,
		DepositAddress:   "vault-address",
		SlippageBps:      50,
		ExpiresAt:        time.Now().Add(10 * time.Minute),
		Status:           QuotePending,
	}
}

// completingBackend settles in the given number of sub-steps and reports
// completion on the first status query.
func completingBackend(id Provider, steps int) *fakeBackend {
	return &fakeBackend{
		id:    id,
		steps: steps,
		settleFn: func(ctx context.Context, quote *BridgeQuote, depositTxRef string, step func(string)) (string, error) {
			for i := 0; i < steps; i++ {
				step(fmt.Sprintf("settlement step %d", i+1))
			}
			return "settle-ref", nil
		},
		statusFn: func(ctx context.Context, ref string) (StatusReport, error) {
			return StatusReport{State: SettlementCompleted, CompletionTxRef: "0xfinal"}, nil
		},
	}
}

func testEngine(backend Backend, dep Depositor) *Engine {
	return New(Options{
		Registry:  NewRegistry(chains.DefaultTokens()),
		Backends:  []Backend{backend},
		Depositor: dep,
		Monitor:   fastMonitor(5),
	})
}

func TestExecuteBridgeHappyPath(t *testing.T) {
	backend := completingBackend(ProviderNative, 2)
	dep := &spyDepositor{}
	engine := testEngine(backend, dep)

	var seen []BridgeExecution
	exec, err := engine.ExecuteBridge(context.Background(), testQuote(ProviderNative), ExecContext{
		FromAddress: "funder",
		OnProgress:  func(snap BridgeExecution) { seen = append(seen, snap) },
	})
	if err != nil {
		t.Fatalf("ExecuteBridge: %v", err)
	}

	if exec.Status != ExecutionCompleted {
		t.Errorf("status = %s, want %s", exec.Status, ExecutionCompleted)
	}
	if exec.TotalSteps != 5 {
		t.Errorf("total steps = %d, want 5 for the native bridge", exec.TotalSteps)
	}
	if exec.CurrentStep != exec.TotalSteps {
		t.Errorf("current step = %d, want %d", exec.CurrentStep, exec.TotalSteps)
	}
	if exec.DepositTxRef == "" {
		t.Error("deposit tx reference not recorded")
	}
	if exec.CompletionTxRef != "0xfinal" {
		t.Errorf("completion tx ref = %q", exec.CompletionTxRef)
	}
	if dep.callCount() != 1 {
		t.Errorf("deposit submitted %d times, want 1", dep.callCount())
	}
	if len(exec.Steps) != exec.TotalSteps {
		t.Errorf("step log has %d entries, want %d", len(exec.Steps), exec.TotalSteps)
	}

	// Progress snapshots are monotonic and bounded.
	prev := 0
	for _, snap := range seen {
		if snap.CurrentStep < prev {
			t.Fatalf("current step went backwards: %d after %d", snap.CurrentStep, prev)
		}
		if snap.CurrentStep > snap.TotalSteps {
			t.Fatalf("current step %d exceeds total %d", snap.CurrentStep, snap.TotalSteps)
		}
		if snap.TotalSteps != 5 {
			t.Fatalf("total steps changed mid-execution: %d", snap.TotalSteps)
		}
		prev = snap.CurrentStep
	}
}

func TestExecuteBridgeStepCountPerProvider(t *testing.T) {
	tests := []struct {
		provider Provider
		steps    int
		total    int
	}{
		{ProviderNative, 2, 5},
		{ProviderDefuse, 1, 4},
		{ProviderLayerswap, 1, 4},
	}
	for _, tt := range tests {
		backend := completingBackend(tt.provider, tt.steps)
		engine := testEngine(backend, &spyDepositor{})
		exec, err := engine.ExecuteBridge(context.Background(), testQuote(tt.provider), ExecContext{FromAddress: "funder"})
		if err != nil {
			t.Fatalf("%s: %v", tt.provider, err)
		}
		if exec.TotalSteps != tt.total {
			t.Errorf("%s total steps = %d, want %d", tt.provider, exec.TotalSteps, tt.total)
		}
	}
}

func TestExecuteBridgeExpiredQuote(t *testing.T) {
	backend := completingBackend(ProviderDefuse, 1)
	dep := &spyDepositor{}
	engine := testEngine(backend, dep)

	quote := testQuote(ProviderDefuse)
	quote.ExpiresAt = time.Now().Add(-time.Minute)

	exec, err := engine.ExecuteBridge(context.Background(), quote, ExecContext{FromAddress: "funder"})
	if !IsCode(err, CodeQuoteExpired) {
		t.Fatalf("error = %v, want code %s", err, CodeQuoteExpired)
	}
	if exec.Status != ExecutionFailed {
		t.Errorf("status = %s, want %s", exec.Status, ExecutionFailed)
	}
	if dep.callCount() != 0 {
		t.Errorf("deposit submitted %d times for an expired quote, want 0", dep.callCount())
	}
}

func TestExecuteBridgeDepositFailure(t *testing.T) {
	backend := completingBackend(ProviderDefuse, 1)
	dep := &spyDepositor{err: errors.New("insufficient SOL for fees")}
	engine := testEngine(backend, dep)

	exec, err := engine.ExecuteBridge(context.Background(), testQuote(ProviderDefuse), ExecContext{FromAddress: "funder"})
	if !IsCode(err, CodeExecutionFailed) {
		t.Fatalf("error = %v, want code %s", err, CodeExecutionFailed)
	}
	if exec.Status != ExecutionFailed {
		t.Errorf("status = %s, want %s", exec.Status, ExecutionFailed)
	}
	if exec.CurrentStep != 2 {
		t.Errorf("current step = %d, want 2: validation done, deposit attempted", exec.CurrentStep)
	}
	if exec.Error == "" {
		t.Error("execution error detail is empty")
	}
	if exec.CompletionTxRef != "" {
		t.Errorf("completion tx ref = %q, want empty", exec.CompletionTxRef)
	}
	// Deposits are never retried; a second broadcast could double spend.
	if dep.callCount() != 1 {
		t.Errorf("deposit attempted %d times, want exactly 1", dep.callCount())
	}
}

func TestExecuteBridgeMonitoringTimeout(t *testing.T) {
	backend := completingBackend(ProviderDefuse, 1)
	backend.statusFn = func(ctx context.Context, ref string) (StatusReport, error) {
		return StatusReport{State: SettlementPending}, nil
	}
	engine := testEngine(backend, &spyDepositor{})

	exec, err := engine.ExecuteBridge(context.Background(), testQuote(ProviderDefuse), ExecContext{FromAddress: "funder"})
	if !IsCode(err, CodeMonitoringTimeout) {
		t.Fatalf("error = %v, want code %s", err, CodeMonitoringTimeout)
	}
	if exec.Status != ExecutionFailed {
		t.Errorf("status = %s, want %s", exec.Status, ExecutionFailed)
	}
	// The deposit went through; the reference must survive the timeout so
	// the user can keep watching the transfer themselves.
	if exec.DepositTxRef == "" {
		t.Error("deposit tx reference lost on monitoring timeout")
	}
}

func TestExecuteBridgeMissingBackend(t *testing.T) {
	engine := testEngine(completingBackend(ProviderDefuse, 1), &spyDepositor{})
	exec, err := engine.ExecuteBridge(context.Background(), testQuote(ProviderLayerswap), ExecContext{})
	if !IsCode(err, CodeNoProviderForRoute) {
		t.Fatalf("error = %v, want code %s", err, CodeNoProviderForRoute)
	}
	if exec == nil || exec.Status != ExecutionFailed {
		t.Error("execution not marked failed")
	}
}

func TestGenerateQuoteValidatesBeforeNetwork(t *testing.T) {
	called := false
	backend := &fakeBackend{
		id: ProviderDefuse,
		quoteFn: func(ctx context.Context, route chains.Route, amountDecimal string, opts QuoteOptions) (*BridgeQuote, error) {
			called = true
			return testQuote(ProviderDefuse), nil
		},
	}
	engine := testEngine(backend, &spyDepositor{})

	all := chains.BridgeSupport{Defuse: true}
	route := chains.Route{
		Origin:      testToken("USDC", chains.Ethereum, all),
		Destination: testToken("USDC", chains.Near, all),
	}

	if _, err := engine.GenerateQuote(context.Background(), route, "0", QuoteOptions{}); !IsCode(err, CodeInvalidAmount) {
		t.Fatalf("error = %v, want code %s", err, CodeInvalidAmount)
	}
	if _, err := engine.GenerateQuote(context.Background(), route, "1", QuoteOptions{RecipientAddress: "BAD ADDR"}); !IsCode(err, CodeInvalidAddress) {
		t.Fatalf("error = %v, want code %s", err, CodeInvalidAddress)
	}
	if called {
		t.Fatal("backend called despite local validation failure")
	}

	quote, err := engine.GenerateQuote(context.Background(), route, "1", QuoteOptions{RecipientAddress: "alice.near"})
	if err != nil {
		t.Fatalf("GenerateQuote: %v", err)
	}
	if !called || quote == nil {
		t.Error("backend not reached for a valid request")
	}
}

func TestGenerateQuoteAttachesProviderContext(t *testing.T) {
	backend := &fakeBackend{
		id: ProviderDefuse,
		quoteFn: func(ctx context.Context, route chains.Route, amountDecimal string, opts QuoteOptions) (*BridgeQuote, error) {
			return nil, NewError(CodeInsufficientLiquidity, "amount exceeds available liquidity")
		},
	}
	engine := testEngine(backend, &spyDepositor{})

	all := chains.BridgeSupport{Defuse: true}
	route := chains.Route{
		Origin:      testToken("USDC", chains.Ethereum, all),
		Destination: testToken("USDC", chains.Near, all),
	}
	_, err := engine.GenerateQuote(context.Background(), route, "1000000", QuoteOptions{RecipientAddress: "alice.near"})
	if !IsCode(err, CodeInsufficientLiquidity) {
		t.Fatalf("error = %v, want code %s", err, CodeInsufficientLiquidity)
	}
	var bridgeErr *Error
	if !errors.As(err, &bridgeErr) || bridgeErr.Provider != ProviderDefuse {
		t.Errorf("provider context not attached: %+v", bridgeErr)
	}
}

func TestGenerateQuoteConcurrent(t *testing.T) {
	backend := &fakeBackend{
		id: ProviderDefuse,
		quoteFn: func(ctx context.Context, route chains.Route, amountDecimal string, opts QuoteOptions) (*BridgeQuote, error) {
			q := testQuote(ProviderDefuse)
			q.FromAmount = amountDecimal
			return q, nil
		},
	}
	engine := testEngine(backend, &spyDepositor{})

	all := chains.BridgeSupport{Defuse: true}
	route := chains.Route{
		Origin:      testToken("USDC", chains.Ethereum, all),
		Destination: testToken("USDC", chains.Near, all),
	}

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			amt := fmt.Sprintf("%d.5", n+1)
			q, err := engine.GenerateQuote(context.Background(), route, amt, QuoteOptions{RecipientAddress: "alice.near"})
			if err != nil {
				errs <- err
				return
			}
			if q.FromAmount != amt {
				errs <- fmt.Errorf("quote carries amount %q, want %q", q.FromAmount, amt)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestAwaitTerminal(t *testing.T) {
	backend := completingBackend(ProviderDefuse, 1)
	engine := testEngine(backend, &spyDepositor{})

	outcome, err := engine.AwaitTerminal(context.Background(), ProviderDefuse, "settle-ref")
	if err != nil {
		t.Fatalf("AwaitTerminal: %v", err)
	}
	if !outcome.Completed {
		t.Error("expected completed outcome")
	}

	if _, err := engine.AwaitTerminal(context.Background(), ProviderNative, "x"); !IsCode(err, CodeNoProviderForRoute) {
		t.Errorf("error = %v, want code %s", err, CodeNoProviderForRoute)
	}
}
