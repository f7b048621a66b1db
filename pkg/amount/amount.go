// Package amount converts between human-readable decimal strings and
// smallest-unit integer strings. All arithmetic is on big integers; no
// floating point representation of a token amount ever leaves this package.
package amount

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

var decimalPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ToSmallestUnit scales a decimal string like "1.5" by 10^decimals and
// returns the integer string, e.g. ("1.5", 9) -> "1500000000".
func ToSmallestUnit(decimal string, decimals int) (string, error) {
	decimal = strings.TrimSpace(decimal)
	if !decimalPattern.MatchString(decimal) {
		return "", fmt.Errorf("amount must be a non-negative decimal like 1.5, got %q", decimal)
	}
	if decimals < 0 {
		return "", fmt.Errorf("decimals must be >= 0, got %d", decimals)
	}

	parts := strings.SplitN(decimal, ".", 2)
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if len(fracPart) > decimals {
		return "", fmt.Errorf("amount precision exceeds token decimals (%d)", decimals)
	}

	fracPart += strings.Repeat("0", decimals-len(fracPart))
	combined := strings.TrimLeft(intPart+fracPart, "0")
	if combined == "" {
		return "0", nil
	}
	if _, ok := new(big.Int).SetString(combined, 10); !ok {
		return "", fmt.Errorf("invalid decimal amount %q", decimal)
	}
	return combined, nil
}

// FromSmallestUnit formats an integer base-unit string as a decimal string,
// trimming trailing zeros, e.g. ("1500000000", 9) -> "1.5".
func FromSmallestUnit(baseUnits string, decimals int) (string, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(baseUnits), 10)
	if !ok || n.Sign() < 0 {
		return "", fmt.Errorf("base units must be a non-negative integer string, got %q", baseUnits)
	}
	if decimals == 0 {
		return n.String(), nil
	}

	s := n.String()
	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}
	intPart := s[:len(s)-decimals]
	fracPart := strings.TrimRight(s[len(s)-decimals:], "0")
	if fracPart == "" {
		return intPart, nil
	}
	return intPart + "." + fracPart, nil
}

// IsPositive reports whether a decimal string parses and is strictly
// greater than zero.
func IsPositive(decimal string) bool {
	decimal = strings.TrimSpace(decimal)
	if !decimalPattern.MatchString(decimal) {
		return false
	}
	return strings.Trim(strings.Replace(decimal, ".", "", 1), "0") != ""
}

// Rate returns out/in as a decimal string with 8 fractional digits, used
// for the displayed exchange rate. Returns "0" when in is zero or either
// side does not parse. Display only; never fed back into unit math.
func Rate(outDecimal, inDecimal string) string {
	o, okO := new(big.Rat).SetString(outDecimal)
	i, okI := new(big.Rat).SetString(inDecimal)
	if !okO || !okI || i.Sign() == 0 {
		return "0"
	}
	return new(big.Rat).Quo(o, i).FloatString(8)
}
