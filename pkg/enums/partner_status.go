package enums

// PartnerStatus collapses the legacy isActive/isDeleted boolean pair into a
// single lifecycle enum. Deleted partners are retained for financial history.
type PartnerStatus string

const (
	PartnerStatusActive    PartnerStatus = "active"
	PartnerStatusSuspended PartnerStatus = "suspended"
	PartnerStatusDeleted   PartnerStatus = "deleted"
)

var validPartnerStatuses = []PartnerStatus{
	PartnerStatusActive,
	PartnerStatusSuspended,
	PartnerStatusDeleted,
}

// String implements fmt.Stringer.
func (p PartnerStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PartnerStatus.
func (p PartnerStatus) IsValid() bool {
	for _, candidate := range validPartnerStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}
