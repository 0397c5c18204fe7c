package journal

// CartLine is one (product id, quantity) line of a customer cart. Sale
// records store the cart exactly as submitted.
type CartLine struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// SaleRecord is one completed checkout transaction. Records are immutable
// once appended and are never deleted.
type SaleRecord struct {
	ID        string     `json:"saleId,omitempty"`
	Timestamp string     `json:"timestamp"`
	Items     []CartLine `json:"items"`
	Profit    float64    `json:"profit"`
}
