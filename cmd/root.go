package cmd

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wavebridge",
	Short: "A CLI for moving tokens across chains through multiple bridge backends",
	Long: `wavebridge moves value-bearing tokens between Solana, StarkNet, Ethereum
and NEAR by selecting, pricing, and executing a transfer through one of
several bridging backends: the NEAR Intents settlement network, the native
Solana-StarkNet lock/relay bridge, or a generic settlement protocol.

Examples:
  wavebridge quote 1 SOL to USDC --from-chain solana --to-chain ethereum --recipient 0x...
  wavebridge bridge 1.5 SOL to SOL --from-chain solana --to-chain starknet --recipient 0x...
  wavebridge tokens
  wavebridge status <reference> --provider defuse`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}

// startSpinner shows a progress spinner unless suppressed; the returned
// func stops it.
func startSpinner(suffix string, show bool) func() {
	if !show {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = suffix
	s.Start()
	return s.Stop
}
