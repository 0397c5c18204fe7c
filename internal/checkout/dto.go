package checkout

// SaleRequest is the POST /api/sale body.
type SaleRequest struct {
	CartItems []CartItemRequest `json:"cartItems" validate:"required,min=1,dive"`
}

// CartItemRequest is one requested cart line.
type CartItemRequest struct {
	ID       string `json:"id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// SaleResponse is the success body for POST /api/sale.
type SaleResponse struct {
	Message string  `json:"message"`
	Profit  float64 `json:"profit"`
}
