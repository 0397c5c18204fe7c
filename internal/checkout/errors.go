package checkout

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCart indicates a malformed cart. No state was changed.
	ErrInvalidCart = errors.New("checkout: invalid cart")
	// ErrPersistence indicates the durable write failed. The in-memory
	// state was not changed either; the transaction can be retried.
	ErrPersistence = errors.New("checkout: persist transaction")
)

// ProductNotFoundError reports a cart line whose id is missing from the
// catalog, so the line cannot be priced.
type ProductNotFoundError struct {
	ID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("checkout: product not found for id %s", e.ID)
}

// ShortfallItem names one under-stocked line and what is actually left.
type ShortfallItem struct {
	ID        string `json:"id"`
	Available int    `json:"available"`
}

// OutOfStockError rejects a whole cart because at least one line exceeded
// availability. No deduction was applied for any line.
type OutOfStockError struct {
	Items []ShortfallItem
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("checkout: %d cart line(s) out of stock", len(e.Items))
}
