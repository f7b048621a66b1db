package cmd

import (
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
	statusProvider string
	watchStatus    bool
)

var statusCmd = &cobra.Command{
	Use:   "status <reference>",
	Short: "Check the settlement status of a transfer",
	Long: `Check the status of an in-flight transfer by its settlement reference:
the deposit address for the intents network, the relay id for the native
bridge, or the swap id for the settlement protocol.

Examples:
  wavebridge status 0x1234...abcd --provider defuse
  wavebridge status rly_8f3a --provider native --watch`,
	Args: cobra.ExactArgs(1),
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVar(&statusProvider, "provider", "defuse", "Provider that issued the reference (defuse|native|layerswap)")
	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Poll until a terminal state or the attempt budget runs out")
}

func runStatus(cmd *cobra.Command, args []string) {
	ref := args[0]
	jsonOutput, _ := cmd.Flags().GetBool("json")
	provider := bridge.Provider(strings.ToLower(statusProvider))

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

	if watchStatus {
		stop := startSpinner(" Awaiting terminal status...", !jsonOutput)
		outcome, err := engine.AwaitTerminal(ctx, provider, ref)
		stop()
		displayOutcome(ref, provider, outcome, err, jsonOutput)
		if err != nil {
			os.Exit(1)
		}
		return
	}

	stop := startSpinner(" Checking status...", !jsonOutput)
	report, err := engine.CheckStatus(ctx, provider, ref)
	stop()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	displayReport(ref, provider, report, jsonOutput)
}

func displayReport(ref string, provider bridge.Provider, report bridge.StatusReport, jsonOutput bool) {
	if jsonOutput {
		jsonData, _ := json.MarshalIndent(map[string]any{
			"reference":     ref,
			"provider":      provider,
			"state":         report.State,
			"completion_tx": report.CompletionTxRef,
			"reason":        report.Reason,
		}, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                  TRANSFER STATUS")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("\n  Reference:  %s\n", color.CyanString(ref))
	fmt.Printf("  Provider:   %s\n", provider)
	fmt.Printf("  State:      %s\n", coloredState(report.State))
	if report.CompletionTxRef != "" {
		fmt.Printf("  Completion: %s\n", color.HiBlackString(report.CompletionTxRef))
	}
	if report.Reason != "" {
		fmt.Printf("  Reason:     %s\n", report.Reason)
	}
	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}

func displayOutcome(ref string, provider bridge.Provider, outcome bridge.TerminalOutcome, err error, jsonOutput bool) {
	if jsonOutput {
		jsonData, _ := json.MarshalIndent(map[string]any{
			"reference":     ref,
			"provider":      provider,
			"completed":     outcome.Completed,
			"completion_tx": outcome.CompletionTxRef,
			"failure":       outcome.FailureReason,
			"error":         errString(err),
		}, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	if err == nil {
		color.Green("\nTransfer completed.")
		if outcome.CompletionTxRef != "" {
			fmt.Printf("  Completion Tx: %s\n\n", color.HiBlackString(outcome.CompletionTxRef))
		}
		return
	}
	if bridge.IsCode(err, bridge.CodeMonitoringTimeout) {
		color.Yellow("\nMonitoring budget exhausted before a terminal state was observed.")
		color.Yellow("The transfer may still complete - check a chain explorer.\n")
		return
	}
	color.Red("\nTransfer failed: %v\n", err)
}

func coloredState(state bridge.SettlementState) string {
	switch state {
	case bridge.SettlementCompleted:
		return color.GreenString(string(state))
	case bridge.SettlementFailed:
		return color.RedString(string(state))
	default:
		return color.YellowString(string(state))
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
