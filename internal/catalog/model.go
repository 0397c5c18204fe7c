package catalog

// Product is immutable reference data for a sellable item. The catalog is
// loaded once at startup and never mutated afterwards.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category,omitempty"`
	Image    string  `json:"image,omitempty"`
}
