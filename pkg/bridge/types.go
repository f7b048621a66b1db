package bridge

import (
	"time"

	"wavebridge/pkg/chains"
)

// Provider identifies one bridging backend.
type Provider string

const (
	ProviderDefuse    Provider = "defuse"
	ProviderNative    Provider = "native"
	ProviderLayerswap Provider = "layerswap"
)

// QuoteStatus tracks a quote from creation to settlement.
type QuoteStatus string

const (
	QuotePending    QuoteStatus = "pending"
	QuoteProcessing QuoteStatus = "processing"
	QuoteCompleted  QuoteStatus = "completed"
	QuoteFailed     QuoteStatus = "failed"
)

// ExecutionStatus is the state machine phase of one bridge attempt.
type ExecutionStatus string

const (
	ExecutionInitializing ExecutionStatus = "INITIALIZING"
	ExecutionValidating   ExecutionStatus = "VALIDATING"
	ExecutionDepositing   ExecutionStatus = "DEPOSITING"
	ExecutionProcessing   ExecutionStatus = "PROCESSING"
	ExecutionCompleted    ExecutionStatus = "COMPLETED"
	ExecutionFailed       ExecutionStatus = "FAILED"
)

// Terminal reports whether no further transitions can occur.
func (s ExecutionStatus) Terminal() bool {
	return s == ExecutionCompleted || s == ExecutionFailed
}

// QuoteOptions is the caller-supplied configuration record for quote
// generation. Zero values fall back to the defaults below.
type QuoteOptions struct {
	SlippageBps      int    // tolerance in basis points
	DeadlineSeconds  int    // quote validity window
	RecipientAddress string // destination-chain recipient
	RefundAddress    string // origin-chain refund target
}

const (
	DefaultSlippageBps     = 50
	DefaultDeadlineSeconds = 1200
)

// Normalize fills in defaults for unset option fields.
func (o QuoteOptions) Normalize() QuoteOptions {
	if o.SlippageBps <= 0 {
		o.SlippageBps = DefaultSlippageBps
	}
	if o.DeadlineSeconds <= 0 {
		o.DeadlineSeconds = DefaultDeadlineSeconds
	}
	return o
}

// BridgeQuote is a time-bounded, priced offer to execute a route. It is
// immutable once returned by a provider; execution tracks its own state in
// a BridgeExecution and never mutates the quote.
type BridgeQuote struct {
	ID                 string                 `json:"id"`
	OriginToken        chains.CrossChainToken `json:"origin_token"`
	DestinationToken   chains.CrossChainToken `json:"destination_token"`
	FromAmount         string                 `json:"from_amount"` // decimal, human units
	ToAmount           string                 `json:"to_amount"`
	Rate               string                 `json:"rate"`
	Provider           Provider               `json:"provider"`
	FeeAmount          string                 `json:"fee_amount"`
	FeePercent         string                 `json:"fee_percent"`
	DepositChain       chains.ChainId         `json:"deposit_chain"`
	DestinationChain   chains.ChainId         `json:"destination_chain"`
	DepositAddress     string                 `json:"deposit_address,omitempty"`
	DestinationAddress string                 `json:"destination_address,omitempty"`
	SlippageBps        int                    `json:"slippage_bps"`
	EstimatedTime      string                 `json:"estimated_time"`
	ExpiresAt          time.Time              `json:"expires_at"`
	Status             QuoteStatus            `json:"status"`
}

// Expired reports whether the quote's validity window has passed.
func (q *BridgeQuote) Expired(now time.Time) bool {
	return q.ExpiresAt.Before(now)
}

// BridgeExecution tracks one attempt to fulfill a quote. It is owned
// exclusively by the task driving it; callers observe snapshot copies.
type BridgeExecution struct {
	Quote               *BridgeQuote    `json:"quote"`
	Status              ExecutionStatus `json:"status"`
	CurrentStep         int             `json:"current_step"`
	TotalSteps          int             `json:"total_steps"`
	Steps               []string        `json:"steps"`
	DepositTxRef        string          `json:"deposit_tx_ref,omitempty"`
	CompletionTxRef     string          `json:"completion_tx_ref,omitempty"`
	Error               string          `json:"error,omitempty"`
	EstimatedCompletion time.Time       `json:"estimated_completion"`
}

// Snapshot returns a copy safe to hand to observers; the step log is
// duplicated so the owning task can keep appending.
func (e *BridgeExecution) Snapshot() BridgeExecution {
	out := *e
	out.Steps = append([]string(nil), e.Steps...)
	return out
}

// advance appends a step description and bumps the step counter.
func (e *BridgeExecution) advance(description string) {
	e.Steps = append(e.Steps, description)
	if e.CurrentStep < e.TotalSteps {
		e.CurrentStep++
	}
}

// TerminalOutcome is the result the status monitor observed from a
// provider's status endpoint.
type TerminalOutcome struct {
	Completed       bool
	CompletionTxRef string
	FailureReason   string
}
