// Package layerswap drives the generic cross-chain settlement protocol:
// a swap is opened with the network, funded by an origin-chain deposit,
// and settled by the protocol's intent processor.
package layerswap

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

const DefaultBaseURL = "https://api.layerswap.io"

// Client implements bridge.Backend against the settlement API.
type Client struct {
	http    *httpx.Client
	baseURL string
	apiKey  string
	now     func() time.Time
}

// New creates a settlement backend. An empty baseURL uses production.
func New(httpClient *httpx.Client, baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{http: httpClient, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, now: time.Now}
}

func (c *Client) ID() bridge.Provider { return bridge.ProviderLayerswap }

// SettlementSteps: one sub-step, handing the funded swap to the intent
// processor.
func (c *Client) SettlementSteps() int { return 1 }

func (c *Client) headers() map[string]string {
	if c.apiKey == "" {
		return nil
	}
	return map[string]string{"X-LS-APIKEY": c.apiKey}
}

type swapRequest struct {
	SourceNetwork      string `json:"source_network"`
	SourceToken        string `json:"source_token"`
	DestinationNetwork string `json:"destination_network"`
	DestinationToken   string `json:"destination_token"`
	Amount             string `json:"amount"` // smallest units
	DestinationAddress string `json:"destination_address,omitempty"`
	RefundAddress      string `json:"refund_address,omitempty"`
	SlippageBps        int    `json:"slippage_bps"`
}

type swapResponse struct {
	Swap struct {
		ID                   string `json:"id"`
		DepositAddress       string `json:"deposit_address"`
		ReceiveAmount        string `json:"receive_amount"` // smallest units
		FeeAmount            string `json:"fee_amount"`     // smallest units, origin token
		FeePercent           string `json:"fee_percent"`
		AvgCompletionSeconds int    `json:"avg_completion_seconds"`
	} `json:"swap"`
}

// GenerateQuote opens a priced swap with the settlement network.
func (c *Client) GenerateQuote(ctx context.Context, route chains.Route, amountDecimal string, opts bridge.QuoteOptions) (*bridge.BridgeQuote, error) {
	if route.SameChain() {
		return nil, bridge.NewError(bridge.CodeInvalidRoute, "settlement quotes require two distinct chains")
	}

	baseUnits, err := amount.ToSmallestUnit(amountDecimal, route.Origin.Decimals)
	if err != nil {
		return nil, bridge.WrapError(bridge.CodeInvalidAmount, "scale amount to smallest units", err)
	}

	req := swapRequest{
		SourceNetwork:      string(route.Origin.Chain),
		SourceToken:        route.Origin.Address,
		DestinationNetwork: string(route.Destination.Chain),
		DestinationToken:   route.Destination.Address,
		Amount:             baseUnits,
		DestinationAddress: opts.RecipientAddress,
		RefundAddress:      opts.RefundAddress,
		SlippageBps:        opts.SlippageBps,
	}
	var resp swapResponse
	// Opening an unfunded swap is idempotent on the provider side.
	if err := c.http.PostJSON(ctx, c.baseURL+"/api/v2/swaps", req, c.headers(), &resp, true); err != nil {
		return nil, err
	}
	if resp.Swap.ID == "" || resp.Swap.DepositAddress == "" {
		return nil, bridge.NewError(bridge.CodeProviderUnavailable, "settlement quote missing swap id or deposit address")
	}

	amountOut, err := amount.FromSmallestUnit(resp.Swap.ReceiveAmount, route.Destination.Decimals)
	if err != nil {
		return nil, bridge.WrapError(bridge.CodeProviderUnavailable, "settlement output amount malformed", err)
	}
	feeAmount := "0"
	if resp.Swap.FeeAmount != "" {
		if feeAmount, err = amount.FromSmallestUnit(resp.Swap.FeeAmount, route.Origin.Decimals); err != nil {
			return nil, bridge.WrapError(bridge.CodeProviderUnavailable, "settlement fee malformed", err)
		}
	}
	feePercent := resp.Swap.FeePercent
	if feePercent == "" {
		feePercent = "0"
	}

	deadline := c.now().Add(time.Duration(opts.DeadlineSeconds) * time.Second)
	return &bridge.BridgeQuote{
		ID:                 resp.Swap.ID,
		OriginToken:        route.Origin,
		DestinationToken:   route.Destination,
		FromAmount:         amountDecimal,
		ToAmount:           amountOut,
		Rate:               amount.Rate(amountOut, amountDecimal),
		Provider:           bridge.ProviderLayerswap,
		FeeAmount:          feeAmount,
		FeePercent:         feePercent,
		DepositChain:       route.Origin.Chain,
		DestinationChain:   route.Destination.Chain,
		DepositAddress:     resp.Swap.DepositAddress,
		DestinationAddress: opts.RecipientAddress,
		SlippageBps:        opts.SlippageBps,
		EstimatedTime:      fmt.Sprintf("%d seconds", resp.Swap.AvgCompletionSeconds),
		ExpiresAt:          deadline,
		Status:             bridge.QuotePending,
	}, nil
}

type intentRequest struct {
	DepositTx string `json:"deposit_tx"`
}

type intentResponse struct {
	IntentID string `json:"intent_id"`
}

// Settle hands the funded swap to the intent processor. Not retried; the
// call mutates settlement state.
func (c *Client) Settle(ctx context.Context, quote *bridge.BridgeQuote, depositTxRef string, step func(string)) (string, error) {
	step("Submitting funded swap to the settlement intent processor")

	var resp intentResponse
	url := fmt.Sprintf("%s/api/v2/swaps/%s/intent", c.baseURL, quote.ID)
	if err := c.http.PostJSON(ctx, url, intentRequest{DepositTx: depositTxRef}, c.headers(), &resp, false); err != nil {
		return "", bridge.WrapError(bridge.CodeExecutionFailed, "intent processing failed", err)
	}
	return quote.ID, nil
}

type statusResponse struct {
	Status        string `json:"status"`
	OutputTx      string `json:"output_tx"`
	FailureReason string `json:"failure_reason"`
}

// Status issues one read-only swap status query.
func (c *Client) Status(ctx context.Context, ref string) (bridge.StatusReport, error) {
	var resp statusResponse
	url := fmt.Sprintf("%s/api/v2/swaps/%s", c.baseURL, ref)
	if err := c.http.GetJSON(ctx, url, c.headers(), &resp); err != nil {
		return bridge.StatusReport{}, err
	}

	switch strings.ToLower(resp.Status) {
	case "completed":
		return bridge.StatusReport{State: bridge.SettlementCompleted, CompletionTxRef: resp.OutputTx}, nil
	case "failed", "cancelled", "expired":
		reason := resp.FailureReason
		if reason == "" {
			reason = fmt.Sprintf("settlement network reported status %s", resp.Status)
		}
		return bridge.StatusReport{State: bridge.SettlementFailed, Reason: reason}, nil
	default:
		return bridge.StatusReport{State: bridge.SettlementPending}, nil
	}
}
