package ledger

import "errors"

// StockEntry is the mutable per-product stock and cost record. Stock is
// never negative; Reserve enforces that.
type StockEntry struct {
	ID        string  `json:"id"`
	Stock     int     `json:"stock"`
	CostPrice float64 `json:"costPrice"`
}

// ErrNotFound indicates the ledger has no entry for the requested id.
var ErrNotFound = errors.New("ledger: entry not found")

// InsufficientStockError reports a reservation that exceeds availability.
type InsufficientStockError struct {
	ID        string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return "ledger: insufficient stock for " + e.ID
}
