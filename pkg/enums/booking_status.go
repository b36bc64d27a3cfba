package enums

// BookingStatus tracks the lifecycle of a stock booking.
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusProcessing BookingStatus = "processing"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusFailed     BookingStatus = "failed"
	BookingStatusRefunded   BookingStatus = "refunded"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

var validBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusProcessing,
	BookingStatusCompleted,
	BookingStatusFailed,
	BookingStatusRefunded,
	BookingStatusCancelled,
}

// String implements fmt.Stringer.
func (b BookingStatus) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BookingStatus.
func (b BookingStatus) IsValid() bool {
	for _, candidate := range validBookingStatuses {
		if candidate == b {
			return true
		}
	}
	return false
}
