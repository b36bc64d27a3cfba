package enums

import "fmt"

// PaymentMode is the closed set of ways a partner can settle a charge.
type PaymentMode string

const (
	PaymentModeWallet   PaymentMode = "wallet"
	PaymentModeCash     PaymentMode = "cash"
	PaymentModeRazorpay PaymentMode = "razorpay"
	PaymentModeCashfree PaymentMode = "cashfree"
)

var validPaymentModes = []PaymentMode{
	PaymentModeWallet,
	PaymentModeCash,
	PaymentModeRazorpay,
	PaymentModeCashfree,
}

// String implements fmt.Stringer.
func (m PaymentMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known PaymentMode.
func (m PaymentMode) IsValid() bool {
	for _, candidate := range validPaymentModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// IsGateway reports whether settlement happens through an external payment
// gateway and therefore starts in the pending state.
func (m PaymentMode) IsGateway() bool {
	return m == PaymentModeRazorpay || m == PaymentModeCashfree
}

// ParsePaymentMode converts raw input into a PaymentMode.
func ParsePaymentMode(value string) (PaymentMode, error) {
	for _, candidate := range validPaymentModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment mode %q", value)
}
