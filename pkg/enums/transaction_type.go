package enums

import "fmt"

// TransactionType classifies the monetary event a ledger entry records.
type TransactionType string

const (
	TransactionTypeRechargeWallet      TransactionType = "recharge_wallet"
	TransactionTypeStockBooking        TransactionType = "stock_booking"
	TransactionTypeStockWalletBooking  TransactionType = "stock_wallet_booking"
	TransactionTypeStockItemBooking    TransactionType = "stock_item_booking"
	TransactionTypeBookingConfirmation TransactionType = "booking_confirmation"
)

var validTransactionTypes = []TransactionType{
	TransactionTypeRechargeWallet,
	TransactionTypeStockBooking,
	TransactionTypeStockWalletBooking,
	TransactionTypeStockItemBooking,
	TransactionTypeBookingConfirmation,
}

// String implements fmt.Stringer.
func (t TransactionType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TransactionType.
func (t TransactionType) IsValid() bool {
	for _, candidate := range validTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsBookingType reports whether finalizing the transaction settles a booking
// rather than the wallet. Recharge entries credit the wallet on completion;
// booking entries mark the linked booking paid instead.
func (t TransactionType) IsBookingType() bool {
	switch t {
	case TransactionTypeStockBooking, TransactionTypeStockWalletBooking,
		TransactionTypeStockItemBooking, TransactionTypeBookingConfirmation:
		return true
	}
	return false
}

// ParseTransactionType converts raw input into a TransactionType.
func ParseTransactionType(value string) (TransactionType, error) {
	for _, candidate := range validTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction type %q", value)
}
