package amount

import "testing"

func TestToSmallestUnit(t *testing.T) {
	tests := []struct {
		name     string
		decimal  string
		decimals int
		want     string
		wantErr  bool
	}{
		{name: "nine decimal scaling", decimal: "1.5", decimals: 9, want: "1500000000"},
		{name: "whole amount", decimal: "2", decimals: 6, want: "2000000"},
		{name: "full precision", decimal: "0.000001", decimals: 6, want: "1"},
		{name: "zero decimals", decimal: "42", decimals: 0, want: "42"},
		{name: "zero amount", decimal: "0", decimals: 9, want: "0"},
		{name: "leading zeros trimmed", decimal: "0.5", decimals: 2, want: "50"},
		{name: "too much precision", decimal: "1.0000001", decimals: 6, wantErr: true},
		{name: "negative rejected", decimal: "-1", decimals: 9, wantErr: true},
		{name: "not a number", decimal: "abc", decimals: 9, wantErr: true},
		{name: "empty rejected", decimal: "", decimals: 9, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToSmallestUnit(tt.decimal, tt.decimals)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ToSmallestUnit(%q, %d) = %q, want %q", tt.decimal, tt.decimals, got, tt.want)
			}
		})
	}
}

func TestFromSmallestUnit(t *testing.T) {
	tests := []struct {
		baseUnits string
		decimals  int
		want      string
	}{
		{"1500000000", 9, "1.5"},
		{"2000000", 6, "2"},
		{"1", 6, "0.000001"},
		{"42", 0, "42"},
		{"0", 9, "0"},
	}

	for _, tt := range tests {
		got, err := FromSmallestUnit(tt.baseUnits, tt.decimals)
		if err != nil {
			t.Fatalf("FromSmallestUnit(%q, %d): %v", tt.baseUnits, tt.decimals, err)
		}
		if got != tt.want {
			t.Errorf("FromSmallestUnit(%q, %d) = %q, want %q", tt.baseUnits, tt.decimals, got, tt.want)
		}
	}

	if _, err := FromSmallestUnit("not-a-number", 6); err == nil {
		t.Error("expected error for malformed base units")
	}
}

func TestRoundTrip(t *testing.T) {
	base, err := ToSmallestUnit("123.456789", 9)
	if err != nil {
		t.Fatal(err)
	}
	back, err := FromSmallestUnit(base, 9)
	if err != nil {
		t.Fatal(err)
	}
	if back != "123.456789" {
		t.Errorf("round trip produced %q", back)
	}
}

func TestIsPositive(t *testing.T) {
	positives := []string{"1", "0.000001", "1.5", "100"}
	for _, v := range positives {
		if !IsPositive(v) {
			t.Errorf("IsPositive(%q) = false, want true", v)
		}
	}

	nonPositives := []string{"0", "0.0", "", "-1", "abc", "1.2.3"}
	for _, v := range nonPositives {
		if IsPositive(v) {
			t.Errorf("IsPositive(%q) = true, want false", v)
		}
	}
}

func TestRate(t *testing.T) {
	if got := Rate("3", "1.5"); got != "2.00000000" {
		t.Errorf("Rate(3, 1.5) = %q", got)
	}
	if got := Rate("1", "0"); got != "0" {
		t.Errorf("Rate by zero = %q, want 0", got)
	}
}
