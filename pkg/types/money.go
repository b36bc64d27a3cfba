package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var paisePerRupee = decimal.NewFromInt(100)

// RupeesToPaise converts a decimal rupee amount into integer paise.
// Amounts with sub-paise precision are rejected rather than rounded, so the
// ledger never stores a value the client did not ask for.
func RupeesToPaise(amount decimal.Decimal) (int64, error) {
	paise := amount.Mul(paisePerRupee)
	if !paise.Equal(paise.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has more than two decimal places", amount.String())
	}
	return paise.IntPart(), nil
}

// PaiseToRupees converts integer paise back to the decimal rupee form used on
// the API surface.
func PaiseToRupees(paise int64) decimal.Decimal {
	return decimal.NewFromInt(paise).Div(paisePerRupee)
}
