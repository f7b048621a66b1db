package parser

import (
	"fmt"
	"regexp"
	"strings"

	"wavebridge/pkg/types"
)

// ParseBridgeCommand parses a natural language bridge command
// Examples:
//   - "bridge 1 SOL to USDC"
//   - "1.5 SOL to SOL"
//   - "100 USDC to ETH"
func ParseBridgeCommand(command string) (*types.BridgeRequest, error) {
	// Normalize the command
	command = strings.TrimSpace(strings.ToUpper(command))
	command = strings.TrimPrefix(command, "BRIDGE ")

	// Pattern: <amount> <source_token> TO <dest_token>
	pattern := regexp.MustCompile(`^(\d+\.?\d*)\s+([A-Z0-9]+)\s+TO\s+([A-Z0-9]+)$`)

	matches := pattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid bridge command format. Expected: 'bridge <amount> <token> to <token>' (e.g., 'bridge 1 SOL to USDC')")
	}

	return &types.BridgeRequest{
		Amount:      matches[1],
		SourceToken: matches[2],
		DestToken:   matches[3],
	}, nil
}

// ValidateBridgeRequest validates that a bridge request has all required fields
func ValidateBridgeRequest(req *types.BridgeRequest) error {
	if req.Amount == "" {
		return fmt.Errorf("amount is required")
	}
	if req.SourceToken == "" {
		return fmt.Errorf("source token is required")
	}
	if req.DestToken == "" {
		return fmt.Errorf("destination token is required")
	}
	if req.SourceChain == "" {
		return fmt.Errorf("source chain is required")
	}
	if req.DestChain == "" {
		return fmt.Errorf("destination chain is required")
	}
	return nil
}

// NormalizeTokenSymbol normalizes token symbols to standard format
func NormalizeTokenSymbol(symbol string) string {
	symbol = strings.TrimSpace(strings.ToUpper(symbol))

	aliases := map[string]string{
		"WSOL": "SOL",
		"WETH": "ETH",
	}

	if normalized, exists := aliases[symbol]; exists {
		return normalized
	}

	return symbol
}
