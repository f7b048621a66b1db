package parser

import (
	"testing"

	"wavebridge/pkg/types"
)

func TestParseBridgeCommand(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    types.BridgeRequest
		wantErr bool
	}{
		{
			name:    "with bridge prefix",
			command: "bridge 1 SOL to USDC",
			want:    types.BridgeRequest{Amount: "1", SourceToken: "SOL", DestToken: "USDC"},
		},
		{
			name:    "decimal amount",
			command: "1.5 SOL to SOL",
			want:    types.BridgeRequest{Amount: "1.5", SourceToken: "SOL", DestToken: "SOL"},
		},
		{
			name:    "lowercase input",
			command: "bridge 100 usdc to eth",
			want:    types.BridgeRequest{Amount: "100", SourceToken: "USDC", DestToken: "ETH"},
		},
		{name: "missing amount", command: "bridge SOL to USDC", wantErr: true},
		{name: "missing to keyword", command: "1 SOL USDC", wantErr: true},
		{name: "empty", command: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBridgeCommand(tt.command)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBridgeCommand: %v", err)
			}
			if got.Amount != tt.want.Amount || got.SourceToken != tt.want.SourceToken || got.DestToken != tt.want.DestToken {
				t.Errorf("parsed %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestValidateBridgeRequest(t *testing.T) {
	full := &types.BridgeRequest{
		Amount: "1", SourceToken: "SOL", DestToken: "USDC",
		SourceChain: "solana", DestChain: "ethereum",
	}
	if err := ValidateBridgeRequest(full); err != nil {
		t.Errorf("complete request rejected: %v", err)
	}

	missing := *full
	missing.DestChain = ""
	if err := ValidateBridgeRequest(&missing); err == nil {
		t.Error("expected error for missing destination chain")
	}
}

func TestNormalizeTokenSymbol(t *testing.T) {
	tests := []struct{ in, want string }{
		{"wsol", "SOL"},
		{"WETH", "ETH"},
		{" usdc ", "USDC"},
		{"SOL", "SOL"},
	}
	for _, tt := range tests {
		if got := NormalizeTokenSymbol(tt.in); got != tt.want {
			t.Errorf("NormalizeTokenSymbol(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
