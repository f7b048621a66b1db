package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"wavebridge/config"
	"wavebridge/pkg/bridge"
	"wavebridge/pkg/parser"
	"wavebridge/pkg/types"
)

var (
	quoteFromChain string
	quoteToChain   string
	quoteRecipient string
	quoteRefund    string
	quoteSlippage  int
	quoteDeadline  int
)

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> <source-token> to <dest-token>",
	Short: "Price a cross-chain transfer without executing it",
	Long: `Fetch a time-bounded quote for a route. The provider is selected
automatically: Solana-StarkNet routes always use the native bridge,
otherwise the intents network is preferred, then the settlement protocol.

Examples:
  wavebridge quote 1 SOL to USDC --from-chain solana --to-chain ethereum --recipient 0x1234...
  wavebridge quote 1.5 SOL to SOL --from-chain solana --to-chain starknet --recipient 0x04b2...`,
	Args: cobra.MinimumNArgs(1),
	Run:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().StringVar(&quoteFromChain, "from-chain", "", "Source blockchain (REQUIRED)")
	quoteCmd.Flags().StringVar(&quoteToChain, "to-chain", "", "Destination blockchain (REQUIRED)")
	quoteCmd.Flags().StringVar(&quoteRecipient, "recipient", "", "Recipient address on the destination chain")
	quoteCmd.Flags().StringVar(&quoteRefund, "refund-to", "", "Refund address on the source chain")
	quoteCmd.Flags().IntVar(&quoteSlippage, "slippage-bps", 0, "Slippage tolerance in basis points (default 50)")
	quoteCmd.Flags().IntVar(&quoteDeadline, "deadline-seconds", 0, "Quote validity window in seconds (default 1200)")
}

func runQuote(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	req, err := parseRequest(args, quoteFromChain, quoteToChain, quoteRecipient, quoteRefund)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	ctx := cmd.Context()
	engine, _, err := buildEngine(ctx, cfg)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	quote, err := priceRoute(ctx, cfg, engine, req, quoteSlippage, quoteDeadline, !jsonOutput)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(quote, "", "  ")
		fmt.Println(string(jsonData))
		return
	}
	displayQuote(quote)
}

// parseRequest combines positional command words with the chain and
// address flags into a bridge request.
func parseRequest(args []string, fromChain, toChain, recipient, refund string) (*types.BridgeRequest, error) {
	req, err := parser.ParseBridgeCommand(strings.Join(args, " "))
	if err != nil {
		return nil, err
	}
	req.SourceChain = fromChain
	req.DestChain = toChain
	req.RecipientAddr = recipient
	req.RefundAddr = refund
	if err := parser.ValidateBridgeRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

// priceRoute resolves the request against the token catalog and asks the
// engine for a quote, showing a spinner unless output is machine-read.
func priceRoute(ctx context.Context, cfg *config.Config, engine *bridge.Engine, req *types.BridgeRequest, slippageBps, deadlineSeconds int, showSpinner bool) (*bridge.BridgeQuote, error) {
	route, err := resolveRoute(engine.Registry(),
		req.SourceChain, parser.NormalizeTokenSymbol(req.SourceToken),
		req.DestChain, parser.NormalizeTokenSymbol(req.DestToken))
	if err != nil {
		return nil, err
	}

	opts := bridge.QuoteOptions{
		SlippageBps:      slippageBps,
		DeadlineSeconds:  deadlineSeconds,
		RecipientAddress: req.RecipientAddr,
		RefundAddress:    req.RefundAddr,
	}
	if opts.SlippageBps == 0 {
		opts.SlippageBps = cfg.SlippageBps
	}
	if opts.DeadlineSeconds == 0 {
		opts.DeadlineSeconds = cfg.DeadlineSeconds
	}

	stop := startSpinner(" Fetching quote...", showSpinner)
	quote, err := engine.GenerateQuote(ctx, route, req.Amount, opts)
	stop()
	return quote, err
}

func displayQuote(quote *bridge.BridgeQuote) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                    BRIDGE QUOTE")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  Provider:          %s\n", color.CyanString(string(quote.Provider)))
	fmt.Printf("  From:              %s %s on %s\n", quote.FromAmount, color.YellowString(quote.OriginToken.Symbol), quote.DepositChain)
	fmt.Printf("  To:                ~%s %s on %s\n", quote.ToAmount, color.YellowString(quote.DestinationToken.Symbol), quote.DestinationChain)
	fmt.Printf("  Rate:              %s\n", quote.Rate)
	fmt.Printf("  Fee:               %s %s (%s%%)\n", quote.FeeAmount, quote.OriginToken.Symbol, quote.FeePercent)
	fmt.Printf("  Estimated Time:    %s\n", quote.EstimatedTime)
	fmt.Printf("  Expires At:        %s\n", quote.ExpiresAt.Format("2006-01-02 15:04:05"))
	if quote.DepositAddress != "" {
		fmt.Printf("  Deposit Address:   %s\n", color.CyanString(quote.DepositAddress))
	}

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}
