package chains

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mr-tron/base58"
)

// ChainId identifies a supported settlement network.
type ChainId string

const (
	Solana   ChainId = "solana"
	StarkNet ChainId = "starknet"
	Ethereum ChainId = "ethereum"
	Near     ChainId = "near"
)

// All lists every supported chain.
func All() []ChainId {
	return []ChainId{Solana, StarkNet, Ethereum, Near}
}

// Parse resolves a chain name or common alias to a ChainId.
func Parse(name string) (ChainId, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "solana", "sol":
		return Solana, nil
	case "starknet", "strk":
		return StarkNet, nil
	case "ethereum", "eth":
		return Ethereum, nil
	case "near":
		return Near, nil
	default:
		return "", fmt.Errorf("unsupported chain: %s", name)
	}
}

// AddressRule describes the address format accepted on a chain.
// StarkNet field elements and Ethereum accounts are hex with a 0x prefix,
// Solana addresses are 32-byte base58, NEAR accounts are named or hex.
type AddressRule struct {
	Pattern     *regexp.Regexp
	Description string
}

var addressRules = map[ChainId]AddressRule{
	Solana: {
		Pattern:     regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`),
		Description: "base58-encoded 32-byte public key",
	},
	StarkNet: {
		Pattern:     regexp.MustCompile(`^0x[0-9a-fA-F]{1,64}$`),
		Description: "0x-prefixed field element, up to 64 hex digits",
	},
	Ethereum: {
		Pattern:     regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`),
		Description: "0x-prefixed 20-byte account address",
	},
	Near: {
		Pattern:     regexp.MustCompile(`^([a-z0-9._-]{2,64}|[0-9a-f]{64})$`),
		Description: "named account or 64 hex digit implicit account",
	},
}

// ValidAddress reports whether addr is well-formed for the chain.
// Solana addresses are additionally base58-decoded to catch strings that
// match the alphabet but do not decode to 32 bytes.
func ValidAddress(chain ChainId, addr string) bool {
	rule, ok := addressRules[chain]
	if !ok {
		return false
	}
	if !rule.Pattern.MatchString(addr) {
		return false
	}
	if chain == Solana {
		raw, err := base58.Decode(addr)
		if err != nil || len(raw) != 32 {
			return false
		}
	}
	return true
}

// AddressRuleFor returns the format rule for a chain, for error messages.
func AddressRuleFor(chain ChainId) (AddressRule, bool) {
	rule, ok := addressRules[chain]
	return rule, ok
}
