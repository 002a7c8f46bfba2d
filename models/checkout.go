package models

// CheckoutItem is a single cart line submitted for order placement.
// The unit price comes from the cart/catalog layer and is trusted as-is.
type CheckoutItem struct {
	ProductID string  `json:"product_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	UnitPrice float64 `json:"unit_price" binding:"gte=0"`
}

// PlaceOrderRequest is the payload for POST /checkout.
type PlaceOrderRequest struct {
	Shipping ShippingSnapshot `json:"shipping" binding:"required"`
	Billing  *BillingSnapshot `json:"billing,omitempty"`
	Items    []CheckoutItem   `json:"items" binding:"required,dive"`
}

// PlaceOrderResponse is returned on successful placement.
type PlaceOrderResponse struct {
	OrderID     string  `json:"order_id"`
	OrderNumber string  `json:"order_number"`
	Total       float64 `json:"total"`
}
