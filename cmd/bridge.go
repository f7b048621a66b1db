package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"wavebridge/config"
	"wavebridge/pkg/bridge"
)

var (
	bridgeFromChain string
	bridgeToChain   string
	bridgeRecipient string
	bridgeRefund    string
	bridgeFromAddr  string
	bridgeSlippage  int
	bridgeDeadline  int
	bridgeNoConfirm bool
)

var bridgeCmd = &cobra.Command{
	Use:   "bridge <amount> <source-token> to <dest-token>",
	Short: "Quote and execute a cross-chain transfer",
	Long: `Fetch a quote, confirm it, and drive the transfer to a terminal state:
the deposit is signed and broadcast on the origin chain, handed to the
selected backend, and its settlement is monitored until it completes,
fails, or the monitoring budget runs out.

IMPORTANT:
  - You MUST specify --recipient (where you'll receive tokens)
  - You SHOULD specify --refund-to (where refunds go if the transfer fails)
  - A deposit signer must be configured for the origin chain

Examples:
  wavebridge bridge 1.5 SOL to SOL --from-chain solana --to-chain starknet --recipient 0x04b2... --from-address <sol-addr>
  wavebridge bridge 100 USDC to USDC --from-chain ethereum --to-chain near --recipient your.near --yes`,
	Args: cobra.MinimumNArgs(1),
	Run:  runBridge,
}

func init() {
	rootCmd.AddCommand(bridgeCmd)

	bridgeCmd.Flags().StringVar(&bridgeFromChain, "from-chain", "", "Source blockchain (REQUIRED)")
	bridgeCmd.Flags().StringVar(&bridgeToChain, "to-chain", "", "Destination blockchain (REQUIRED)")
	bridgeCmd.Flags().StringVar(&bridgeRecipient, "recipient", "", "Recipient address (REQUIRED - where you'll receive tokens)")
	bridgeCmd.Flags().StringVar(&bridgeRefund, "refund-to", "", "Refund address on source chain")
	bridgeCmd.Flags().StringVar(&bridgeFromAddr, "from-address", "", "Funding address on the source chain")
	bridgeCmd.Flags().IntVar(&bridgeSlippage, "slippage-bps", 0, "Slippage tolerance in basis points (default 50)")
	bridgeCmd.Flags().IntVar(&bridgeDeadline, "deadline-seconds", 0, "Quote validity window in seconds (default 1200)")
	bridgeCmd.Flags().BoolVarP(&bridgeNoConfirm, "yes", "y", false, "Skip confirmation prompt")
}

func runBridge(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	verbose, _ := cmd.Flags().GetBool("verbose")

	req, err := parseRequest(args, bridgeFromChain, bridgeToChain, bridgeRecipient, bridgeRefund)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	req.FromAddr = bridgeFromAddr

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	ctx := cmd.Context()
	engine, depositors, err := buildEngine(ctx, cfg)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	quote, err := priceRoute(ctx, cfg, engine, req, bridgeSlippage, bridgeDeadline, !jsonOutput)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if !jsonOutput {
		displayQuote(quote)
	}
	if verbose {
		quoteJSON, _ := json.MarshalIndent(quote, "", "  ")
		fmt.Println(string(quoteJSON))
	}

	if !depositors.Supports(quote.DepositChain) {
		color.Yellow("\nNo deposit signer is configured for %s.", quote.DepositChain)
		fmt.Printf("Send %s %s manually to: %s\n", quote.FromAmount, quote.OriginToken.Symbol, color.CyanString(quote.DepositAddress))
		fmt.Println("Then monitor with:")
		color.Cyan("  wavebridge status %s --provider %s\n", quote.ID, quote.Provider)
		return
	}

	if !bridgeNoConfirm && !jsonOutput {
		if !confirmBridge() {
			fmt.Println("\nBridge cancelled.")
			os.Exit(0)
		}
	}

	exec, err := engine.ExecuteBridge(ctx, quote, bridge.ExecContext{
		FromAddress: req.FromAddr,
		OnProgress: func(snapshot bridge.BridgeExecution) {
			if !jsonOutput {
				displayProgress(snapshot)
			}
		},
	})

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(exec, "", "  ")
		fmt.Println(string(jsonData))
		if err != nil {
			os.Exit(1)
		}
		return
	}

	displayTerminal(exec, err)
	if err != nil {
		os.Exit(1)
	}
}

var lastRenderedStep int

// displayProgress prints each newly reached step once.
func displayProgress(snapshot bridge.BridgeExecution) {
	if snapshot.CurrentStep <= lastRenderedStep || len(snapshot.Steps) == 0 {
		return
	}
	lastRenderedStep = snapshot.CurrentStep
	fmt.Printf("  [%d/%d] %s\n", snapshot.CurrentStep, snapshot.TotalSteps, snapshot.Steps[len(snapshot.Steps)-1])
}

func displayTerminal(exec *bridge.BridgeExecution, err error) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	if exec.Status == bridge.ExecutionCompleted {
		color.Green("                 BRIDGE COMPLETED")
	} else {
		color.Red("                 BRIDGE FAILED")
	}
	fmt.Println(strings.Repeat("=", 60))

	if exec.DepositTxRef != "" {
		fmt.Printf("\n  Deposit Tx:      %s\n", color.HiBlackString(exec.DepositTxRef))
	}
	if exec.CompletionTxRef != "" {
		fmt.Printf("  Completion Tx:   %s\n", color.HiBlackString(exec.CompletionTxRef))
	}
	fmt.Printf("  Steps Completed: %d/%d\n", exec.CurrentStep, exec.TotalSteps)

	if err != nil {
		fmt.Printf("  Error:           %v\n", err)
		if bridge.IsCode(err, bridge.CodeMonitoringTimeout) {
			color.Yellow("\n  Monitoring stopped before a terminal state was observed.")
			color.Yellow("  The transfer may still complete - check a chain explorer")
			color.Yellow("  or run: wavebridge status %s --provider %s", exec.Quote.ID, exec.Quote.Provider)
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}

func confirmBridge() bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("\nProceed with bridge? (y/N): ")

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
