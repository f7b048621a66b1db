// Package defuse drives the intents-based settlement network through the
// NEAR Intents 1Click API.
package defuse

import (
	"context"
	"fmt"
	"strings"
	"time"

	oneclick "github.com/defuse-protocol/one-click-sdk-go"

	"wavebridge/pkg/amount"
	"wavebridge/pkg/bridge"
	"wavebridge/pkg/chains"
)

// Client implements bridge.Backend on top of the 1Click SDK.
type Client struct {
	client   *oneclick.APIClient
	jwtToken string
	now      func() time.Time
}

// New creates an authenticated 1Click backend.
func New(jwtToken string) *Client {
	return &Client{
		client:   oneclick.NewAPIClient(oneclick.NewConfiguration()),
		jwtToken: jwtToken,
		now:      time.Now,
	}
}

func (c *Client) ID() bridge.Provider { return bridge.ProviderDefuse }

// SettlementSteps: one sub-step, the deposit hand-off to the intents
// network; solvers take it from there.
func (c *Client) SettlementSteps() int { return 1 }

// authCtx attaches the JWT to the caller's context per request instead of
// capturing a context at construction time.
func (c *Client) authCtx(ctx context.Context) context.Context {
	return context.WithValue(ctx, oneclick.ContextAccessToken, c.jwtToken)
}

// blockchainSlug maps a ChainId to the 1Click blockchain identifier.
func blockchainSlug(chain chains.ChainId) string {
	switch chain {
	case chains.Solana:
		return "sol"
	case chains.Ethereum:
		return "eth"
	case chains.Near:
		return "near"
	case chains.StarkNet:
		return "starknet"
	default:
		return string(chain)
	}
}

// resolveAsset finds the 1Click asset id for a token by (chain, symbol).
func (c *Client) resolveAsset(ctx context.Context, token chains.CrossChainToken) (string, error) {
	tokens, httpResp, err := c.client.OneClickAPI.GetTokens(c.authCtx(ctx)).Execute()
	if err != nil {
		return "", bridge.WrapError(bridge.CodeProviderUnavailable, "list intents network tokens", err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != 200 {
		return "", bridge.NewError(bridge.CodeProviderUnavailable,
			fmt.Sprintf("intents token listing returned status %d", httpResp.StatusCode))
	}

	slug := blockchainSlug(token.Chain)
	for _, t := range tokens {
		if strings.EqualFold(t.GetSymbol(), token.Symbol) &&
			strings.EqualFold(t.GetBlockchain(), slug) {
			return t.GetAssetId(), nil
		}
	}
	return "", bridge.NewError(bridge.CodeNoProviderForRoute,
		fmt.Sprintf("intents network does not list %s on %s", token.Symbol, token.Chain))
}

// GenerateQuote prices the route through the 1Click quote endpoint. The
// human amount is scaled to smallest units with integer arithmetic before
// it crosses the wire.
func (c *Client) GenerateQuote(ctx context.Context, route chains.Route, amountDecimal string, opts bridge.QuoteOptions) (*bridge.BridgeQuote, error) {
	if route.SameChain() {
		return nil, bridge.NewError(bridge.CodeInvalidRoute, "intents quotes require two distinct chains")
	}

	originAsset, err := c.resolveAsset(ctx, route.Origin)
	if err != nil {
		return nil, err
	}
	destAsset, err := c.resolveAsset(ctx, route.Destination)
	if err != nil {
		return nil, err
	}

	baseUnits, err := amount.ToSmallestUnit(amountDecimal, route.Origin.Decimals)
	if err != nil {
		return nil, bridge.WrapError(bridge.CodeInvalidAmount, "scale amount to smallest units", err)
	}

	recipient := opts.RecipientAddress
	if recipient == "" {
		return nil, bridge.NewError(bridge.CodeInvalidAddress, "intents quotes require a recipient address")
	}
	refundTo := opts.RefundAddress
	if refundTo == "" {
		refundTo = recipient
	}

	deadline := c.now().Add(time.Duration(opts.DeadlineSeconds) * time.Second)
	quoteReq := oneclick.NewQuoteRequest(
		false,                       // dry: a real deposit address is needed
		"EXACT_INPUT",               // swapType
		float32(opts.SlippageBps),   // slippageTolerance, basis points
		originAsset,                 // originAsset
		"ORIGIN_CHAIN",              // depositType
		destAsset,                   // destinationAsset
		baseUnits,                   // amount, smallest units
		refundTo,                    // refundTo
		"ORIGIN_CHAIN",              // refundType
		recipient,                   // recipient
		"DESTINATION_CHAIN",         // recipientType
		deadline,                    // deadline
	)

	resp, httpResp, err := c.client.OneClickAPI.GetQuote(c.authCtx(ctx)).QuoteRequest(*quoteReq).Execute()
	if err != nil {
		return nil, classifyQuoteError(httpResp != nil, err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, bridge.NewError(bridge.CodeProviderUnavailable,
			fmt.Sprintf("intents quote returned status %d", httpResp.StatusCode))
	}
	if resp == nil {
		return nil, bridge.NewError(bridge.CodeProviderUnavailable, "empty intents quote response")
	}

	q := resp.GetQuote()
	amountOut := q.GetAmountOutFormatted()

	return &bridge.BridgeQuote{
		ID:                 q.GetDepositAddress(),
		OriginToken:        route.Origin,
		DestinationToken:   route.Destination,
		FromAmount:         amountDecimal,
		ToAmount:           amountOut,
		Rate:               amount.Rate(amountOut, amountDecimal),
		Provider:           bridge.ProviderDefuse,
		FeeAmount:          "0", // 1Click folds its fee into the quoted output
		FeePercent:         "0",
		DepositChain:       route.Origin.Chain,
		DestinationChain:   route.Destination.Chain,
		DepositAddress:     q.GetDepositAddress(),
		DestinationAddress: recipient,
		SlippageBps:        opts.SlippageBps,
		EstimatedTime:      fmt.Sprintf("%.0f seconds", float64(q.GetTimeEstimate())),
		ExpiresAt:          deadline,
		Status:             bridge.QuotePending,
	}, nil
}

func classifyQuoteError(hasResponse bool, err error) error {
	msg := err.Error()
	if strings.Contains(strings.ToLower(msg), "liquidity") {
		return bridge.WrapError(bridge.CodeInsufficientLiquidity, "intents network reported insufficient liquidity", err)
	}
	if hasResponse {
		return bridge.WrapError(bridge.CodeProviderUnavailable, "intents quote rejected", err)
	}
	return bridge.WrapError(bridge.CodeProviderUnavailable, "intents quote request failed", err)
}

// Settle submits the origin-chain deposit hash to the intents network. One
// sub-step; the returned monitoring reference is the deposit address.
func (c *Client) Settle(ctx context.Context, quote *bridge.BridgeQuote, depositTxRef string, step func(string)) (string, error) {
	step("Submitting deposit transaction to the intents network")

	req := oneclick.NewSubmitDepositTxRequest(quote.DepositAddress, depositTxRef)
	_, httpResp, err := c.client.OneClickAPI.SubmitDepositTx(c.authCtx(ctx)).SubmitDepositTxRequest(*req).Execute()
	if err != nil {
		return "", bridge.WrapError(bridge.CodeExecutionFailed, "submit deposit to intents network", err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != 200 && httpResp.StatusCode != 201 {
		return "", bridge.NewError(bridge.CodeExecutionFailed,
			fmt.Sprintf("intents deposit submission returned status %d", httpResp.StatusCode))
	}
	return quote.DepositAddress, nil
}

// Status issues one read-only execution status query.
func (c *Client) Status(ctx context.Context, ref string) (bridge.StatusReport, error) {
	resp, httpResp, err := c.client.OneClickAPI.GetExecutionStatus(c.authCtx(ctx)).DepositAddress(ref).Execute()
	if err != nil {
		return bridge.StatusReport{}, bridge.WrapError(bridge.CodeProviderUnavailable, "intents status query failed", err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != 200 {
		return bridge.StatusReport{}, bridge.NewError(bridge.CodeProviderUnavailable,
			fmt.Sprintf("intents status returned %d", httpResp.StatusCode))
	}

	report := bridge.StatusReport{State: MapStatus(resp.GetStatus())}
	if report.State == bridge.SettlementCompleted {
		details := resp.GetSwapDetails()
		for _, tx := range details.GetDestinationChainTxHashes() {
			if tx.GetHash() != "" {
				report.CompletionTxRef = tx.GetHash()
				break
			}
		}
	}
	if report.State == bridge.SettlementFailed {
		report.Reason = fmt.Sprintf("intents network reported status %s", resp.GetStatus())
	}
	return report, nil
}

// MapStatus normalizes a 1Click execution status string. Anything not
// recognizably terminal counts as still-pending.
func MapStatus(status string) bridge.SettlementState {
	switch strings.ToUpper(status) {
	case "SUCCESS", "COMPLETED":
		return bridge.SettlementCompleted
	case "FAILED", "REFUNDED":
		return bridge.SettlementFailed
	default:
		return bridge.SettlementPending
	}
}
