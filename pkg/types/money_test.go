package types

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRupeesToPaise(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{in: "500", want: 50_000},
		{in: "500.50", want: 50_050},
		{in: "0.01", want: 1},
		{in: "99999.99", want: 9_999_999},
	}
	for _, tt := range tests {
		amount, err := decimal.NewFromString(tt.in)
		if err != nil {
			t.Fatalf("bad test input %q: %v", tt.in, err)
		}
		got, err := RupeesToPaise(amount)
		if err != nil {
			t.Fatalf("RupeesToPaise(%s): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("RupeesToPaise(%s) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRupeesToPaiseRejectsSubPaise(t *testing.T) {
	amount, err := decimal.NewFromString("10.005")
	if err != nil {
		t.Fatalf("bad test input: %v", err)
	}
	if _, err := RupeesToPaise(amount); err == nil {
		t.Fatalf("expected sub-paise precision to be rejected, not rounded")
	}
}

func TestPaiseToRupeesRoundTrip(t *testing.T) {
	for _, paise := range []int64{0, 1, 99, 100, 50_050, 9_999_999} {
		rupees := PaiseToRupees(paise)
		back, err := RupeesToPaise(rupees)
		if err != nil {
			t.Fatalf("round trip %d: %v", paise, err)
		}
		if back != paise {
			t.Fatalf("round trip %d came back as %d", paise, back)
		}
	}
}
