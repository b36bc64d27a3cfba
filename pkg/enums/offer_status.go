package enums

// OfferStatus marks whether a discount offer is live.
type OfferStatus string

const (
	OfferStatusActive   OfferStatus = "active"
	OfferStatusInactive OfferStatus = "inactive"
)

// IsValid reports whether the value is a known OfferStatus.
func (o OfferStatus) IsValid() bool {
	return o == OfferStatusActive || o == OfferStatusInactive
}
