package models

// CheckoutItem is one line of the checkout snapshot sent to the
// notification function. Price is the line price: unit retail price
// multiplied by quantity.
type CheckoutItem struct {
	ProductTitle string  `json:"productTitle"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
}

// CheckoutPayload is the wire contract of the notification function.
type CheckoutPayload struct {
	UserID     string         `json:"userId"`
	CartItems  []CheckoutItem `json:"cartItems"`
	TotalPrice float64        `json:"totalPrice"`
}

// CheckoutResponse is the notification function's success body. Errors
// come back as {"error": message} with a non-2xx status.
type CheckoutResponse struct {
	Success bool   `json:"success"`
	EmailID string `json:"emailId"`
}

// CheckoutResult is what the checkout service reports to the caller.
// Placed is false for the empty-cart no-op.
type CheckoutResult struct {
	Placed  bool    `json:"placed"`
	EmailID string  `json:"email_id,omitempty"`
	Total   float64 `json:"total"`
}
