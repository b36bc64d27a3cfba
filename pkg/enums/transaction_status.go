package enums

import "fmt"

// TransactionStatus tracks the one-way lifecycle of a ledger entry.
// Transitions are pending -> completed or pending -> failed; terminal states
// never change again.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

var validTransactionStatuses = []TransactionStatus{
	TransactionStatusPending,
	TransactionStatusCompleted,
	TransactionStatusFailed,
}

// String implements fmt.Stringer.
func (s TransactionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known TransactionStatus.
func (s TransactionStatus) IsValid() bool {
	for _, candidate := range validTransactionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status permits no further transition.
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusFailed
}

// ParseTransactionStatus converts a raw value into a TransactionStatus.
func ParseTransactionStatus(value string) (TransactionStatus, error) {
	status := TransactionStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid transaction status %q", value)
	}
	return status, nil
}

// ParseTransactionOutcome accepts only the terminal states a resolver call may
// request. Pending is not a valid outcome.
func ParseTransactionOutcome(value string) (TransactionStatus, error) {
	switch TransactionStatus(value) {
	case TransactionStatusCompleted:
		return TransactionStatusCompleted, nil
	case TransactionStatusFailed:
		return TransactionStatusFailed, nil
	}
	return "", fmt.Errorf("invalid transaction outcome %q", value)
}
