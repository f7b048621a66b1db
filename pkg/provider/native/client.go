// Package native drives the lock/relay bridge that services the
// Solana-StarkNet pair: funds are locked in an origin-chain vault, a relay
// attests the lock, and the bridge executes the release on the destination
// chain.
package native

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wavebridge/pkg/amount"
	"wavebridge/pkg/bridge"
	"wavebridge/pkg/chains"
	"wavebridge/pkg/httpx"
)

const DefaultBaseURL = "https://bridge.wavelabs.io"

// Client implements bridge.Backend against the bridge relay API.
type Client struct {
	http    *httpx.Client
	baseURL string
	now     func() time.Time
}

// New creates a native bridge backend. An empty baseURL uses the
// production relay.
func New(httpClient *httpx.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{http: httpClient, baseURL: strings.TrimRight(baseURL, "/"), now: time.Now}
}

func (c *Client) ID() bridge.Provider { return bridge.ProviderNative }

// SettlementSteps: relay attestation plus destination-chain execution.
func (c *Client) SettlementSteps() int { return 2 }

type quoteRequest struct {
	OriginChain      string `json:"originChain"`
	OriginToken      string `json:"originToken"`
	DestinationChain string `json:"destinationChain"`
	DestinationToken string `json:"destinationToken"`
	Amount           string `json:"amount"` // smallest units
	SlippageBps      int    `json:"slippageBps"`
	Recipient        string `json:"recipient,omitempty"`
	RefundAddress    string `json:"refundAddress,omitempty"`
}

type quoteResponse struct {
	QuoteID          string `json:"quoteId"`
	LockVault        string `json:"lockVault"`
	AmountOut        string `json:"amountOut"` // smallest units, destination token
	FeeAmount        string `json:"feeAmount"` // smallest units, origin token
	FeeBps           int    `json:"feeBps"`
	EstimatedSeconds int    `json:"estimatedSeconds"`
}

// GenerateQuote prices a lock/relay transfer. Amounts are converted to
// smallest units before the request is built.
func (c *Client) GenerateQuote(ctx context.Context, route chains.Route, amountDecimal string, opts bridge.QuoteOptions) (*bridge.BridgeQuote, error) {
	if route.SameChain() {
		return nil, bridge.NewError(bridge.CodeInvalidRoute, "bridge quotes require two distinct chains")
	}

	baseUnits, err := amount.ToSmallestUnit(amountDecimal, route.Origin.Decimals)
	if err != nil {
		return nil, bridge.WrapError(bridge.CodeInvalidAmount, "scale amount to smallest units", err)
	}

	var resp quoteResponse
	req := quoteRequest{
		OriginChain:      string(route.Origin.Chain),
		OriginToken:      route.Origin.Address,
		DestinationChain: string(route.Destination.Chain),
		DestinationToken: route.Destination.Address,
		Amount:           baseUnits,
		SlippageBps:      opts.SlippageBps,
		Recipient:        opts.RecipientAddress,
		RefundAddress:    opts.RefundAddress,
	}
	// Quote calls are read-only for the bridge, safe to retry.
	if err := c.http.PostJSON(ctx, c.baseURL+"/v1/quote", req, nil, &resp, true); err != nil {
		return nil, err
	}
	if resp.QuoteID == "" || resp.LockVault == "" {
		return nil, bridge.NewError(bridge.CodeProviderUnavailable, "bridge quote missing id or lock vault")
	}

	amountOut, err := amount.FromSmallestUnit(resp.AmountOut, route.Destination.Decimals)
	if err != nil {
		return nil, bridge.WrapError(bridge.CodeProviderUnavailable, "bridge quote output amount malformed", err)
	}
	feeAmount := "0"
	if resp.FeeAmount != "" {
		if feeAmount, err = amount.FromSmallestUnit(resp.FeeAmount, route.Origin.Decimals); err != nil {
			return nil, bridge.WrapError(bridge.CodeProviderUnavailable, "bridge quote fee malformed", err)
		}
	}

	deadline := c.now().Add(time.Duration(opts.DeadlineSeconds) * time.Second)
	return &bridge.BridgeQuote{
		ID:                 resp.QuoteID,
		OriginToken:        route.Origin,
		DestinationToken:   route.Destination,
		FromAmount:         amountDecimal,
		ToAmount:           amountOut,
		Rate:               amount.Rate(amountOut, amountDecimal),
		Provider:           bridge.ProviderNative,
		FeeAmount:          feeAmount,
		FeePercent:         fmt.Sprintf("%.2f", float64(resp.FeeBps)/100),
		DepositChain:       route.Origin.Chain,
		DestinationChain:   route.Destination.Chain,
		DepositAddress:     resp.LockVault,
		DestinationAddress: opts.RecipientAddress,
		SlippageBps:        opts.SlippageBps,
		EstimatedTime:      fmt.Sprintf("%d seconds", resp.EstimatedSeconds),
		ExpiresAt:          deadline,
		Status:             bridge.QuotePending,
	}, nil
}

type relayRequest struct {
	QuoteID   string `json:"quoteId"`
	DepositTx string `json:"depositTx"`
}

type relayResponse struct {
	RelayID string `json:"relayId"`
}

type executeResponse struct {
	ExecutionTx string `json:"executionTx"`
}

// Settle runs the two relay-side sub-steps: submit the lock transaction for
// attestation, then trigger the destination-chain execution. Neither call
// is retried; both mutate bridge state.
func (c *Client) Settle(ctx context.Context, quote *bridge.BridgeQuote, depositTxRef string, step func(string)) (string, error) {
	step("Relaying lock transaction for attestation")
	var relay relayResponse
	req := relayRequest{QuoteID: quote.ID, DepositTx: depositTxRef}
	if err := c.http.PostJSON(ctx, c.baseURL+"/v1/relay", req, nil, &relay, false); err != nil {
		return "", bridge.WrapError(bridge.CodeExecutionFailed, "relay submission failed", err)
	}
	if relay.RelayID == "" {
		return "", bridge.NewError(bridge.CodeExecutionFailed, "relay accepted the lock but returned no relay id")
	}

	step(fmt.Sprintf("Executing release on %s", quote.DestinationChain))
	var exec executeResponse
	url := fmt.Sprintf("%s/v1/relay/%s/execute", c.baseURL, relay.RelayID)
	if err := c.http.PostJSON(ctx, url, nil, nil, &exec, false); err != nil {
		return "", bridge.WrapError(bridge.CodeExecutionFailed, "destination execution failed", err)
	}

	return relay.RelayID, nil
}

type statusResponse struct {
	Status        string `json:"status"`
	DestinationTx string `json:"destinationTx"`
	Error         string `json:"error"`
}

// Status issues one read-only relay status query.
func (c *Client) Status(ctx context.Context, ref string) (bridge.StatusReport, error) {
	var resp statusResponse
	url := fmt.Sprintf("%s/v1/relay/%s", c.baseURL, ref)
	if err := c.http.GetJSON(ctx, url, nil, &resp); err != nil {
		return bridge.StatusReport{}, err
	}

	switch strings.ToLower(resp.Status) {
	case "completed":
		return bridge.StatusReport{State: bridge.SettlementCompleted, CompletionTxRef: resp.DestinationTx}, nil
	case "failed", "refunded":
		return bridge.StatusReport{State: bridge.SettlementFailed, Reason: resp.Error}, nil
	default:
		return bridge.StatusReport{State: bridge.SettlementPending}, nil
	}
}
