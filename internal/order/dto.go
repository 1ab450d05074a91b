package order

// ItemRequest is one requested line: a product reference and a quantity.
// Name and price come from the catalog, never from the caller.
// swagger:model ItemRequest
type ItemRequest struct {
	ProductID string `json:"product_id" binding:"required" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Quantity  int    `json:"quantity"   binding:"required,gt=0" example:"2"`
}

// CreateOrderRequest is the order creation payload.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	CustomerName  string        `json:"customer_name"  binding:"required" example:"Jane Doe"`
	CustomerEmail string        `json:"customer_email" binding:"required,email" example:"jane@example.com"`
	Items         []ItemRequest `json:"items"          binding:"omitempty,dive"`
}

// UpdateOrderRequest is the order update payload. An empty item list leaves
// the existing items untouched; a non-empty one replaces them entirely.
// swagger:model UpdateOrderRequest
type UpdateOrderRequest struct {
	CustomerName  string        `json:"customer_name"  binding:"required"`
	CustomerEmail string        `json:"customer_email" binding:"required,email"`
	Status        string        `json:"status"`
	Items         []ItemRequest `json:"items"          binding:"omitempty,dive"`
}

// HTTPError represents a standard error in JSON.
// swagger:model
type HTTPError struct {
	// Error message
	// example: order not found
	Error string `json:"error"`
}
