package enums

// StockItemStatus marks catalog availability.
type StockItemStatus string

const (
	StockItemStatusActive   StockItemStatus = "active"
	StockItemStatusInactive StockItemStatus = "inactive"
)

// IsValid reports whether the value is a known StockItemStatus.
func (s StockItemStatus) IsValid() bool {
	return s == StockItemStatusActive || s == StockItemStatusInactive
}
