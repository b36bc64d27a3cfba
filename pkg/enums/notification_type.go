package enums

// NotificationType labels the in-app notifications the ledger dispatches.
type NotificationType string

const (
	NotificationTypeWalletRecharge NotificationType = "wallet_recharge"
	NotificationTypeBookingPlaced  NotificationType = "booking_placed"
	NotificationTypeBookingPayment NotificationType = "booking_payment"
)

// IsValid reports whether the value is a known NotificationType.
func (n NotificationType) IsValid() bool {
	switch n {
	case NotificationTypeWalletRecharge, NotificationTypeBookingPlaced, NotificationTypeBookingPayment:
		return true
	}
	return false
}
