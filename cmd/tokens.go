package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"wavebridge/pkg/bridge"
	"wavebridge/pkg/chains"
)

var (
	filterChain  string
	filterSymbol string
)

var tokensCmd = &cobra.Command{
	Use:     "list-tokens",
	Aliases: []string{"tokens", "ls"},
	Short:   "List the bridgeable token catalog",
	Long: `List every token the engine can bridge, with the providers able to
service it.

Examples:
  wavebridge list-tokens
  wavebridge list-tokens --chain solana
  wavebridge list-tokens --symbol USDC`,
	Run: runListTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().StringVar(&filterChain, "chain", "", "Filter by blockchain")
	tokensCmd.Flags().StringVar(&filterSymbol, "symbol", "", "Filter by token symbol")
}

func runListTokens(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	registry := bridge.NewRegistry(chains.DefaultTokens())

	var tokens []chains.CrossChainToken
	for _, chain := range chains.All() {
		if filterChain != "" {
			parsed, err := chains.Parse(filterChain)
			if err != nil {
				printError(err)
				os.Exit(1)
			}
			if chain != parsed {
				continue
			}
		}
		for _, t := range registry.Tokens(chain) {
			if filterSymbol != "" && !strings.EqualFold(t.Symbol, filterSymbol) {
				continue
			}
			tokens = append(tokens, t)
		}
	}

	sort.Slice(tokens, func(i, j int) bool {
		if tokens[i].Chain != tokens[j].Chain {
			return tokens[i].Chain < tokens[j].Chain
		}
		return tokens[i].Symbol < tokens[j].Symbol
	})

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(tokens, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 72))
	color.Green("                          BRIDGEABLE TOKENS")
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("\n  %-10s %-8s %-9s %-12s %s\n", "CHAIN", "SYMBOL", "DECIMALS", "PROVIDERS", "ADDRESS")
	for _, t := range tokens {
		fmt.Printf("  %-10s %-8s %-9d %-12s %s\n",
			t.Chain, color.YellowString(t.Symbol), t.Decimals,
			strings.Join(providerFlags(t), ","), shorten(t.Address))
	}
	fmt.Println("\n" + strings.Repeat("=", 72) + "\n")
}

func providerFlags(t chains.CrossChainToken) []string {
	var out []string
	if t.Support.Defuse {
		out = append(out, string(bridge.ProviderDefuse))
	}
	if t.Support.Native {
		out = append(out, string(bridge.ProviderNative))
	}
	if t.Support.Layerswap {
		out = append(out, string(bridge.ProviderLayerswap))
	}
	return out
}

func shorten(addr string) string {
	if len(addr) <= 16 {
		return addr
	}
	return addr[:8] + "..." + addr[len(addr)-6:]
}
