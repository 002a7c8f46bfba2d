package models

import (
	"time"
)

// Order status constants. This service only ever creates orders in
// OrderStatusPending; later transitions belong to the fulfillment flow.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusCancelled = "cancelled"
)

// Billing profile types.
const (
	BillingTypeIndividual = "individual"
	BillingTypeCorporate  = "corporate"
)

// ShippingSnapshot is a copy of the shipping address captured at order
// time. It is stored on the order document so later edits to the live
// address record don't change what the order was shipped against.
type ShippingSnapshot struct {
	FullName   string `json:"full_name" bson:"full_name"`
	Phone      string `json:"phone" bson:"phone"`
	Address    string `json:"address" bson:"address"`
	City       string `json:"city" bson:"city"`
	PostalCode string `json:"postal_code" bson:"postal_code"`
	Country    string `json:"country" bson:"country"`
	Note       string `json:"note,omitempty" bson:"note,omitempty"`
}

// BillingSnapshot is a copy of the billing profile captured at order time.
// Corporate profiles carry the invoicing company name and tax number.
type BillingSnapshot struct {
	Type        string `json:"type" bson:"type"`
	CompanyName string `json:"company_name,omitempty" bson:"company_name,omitempty"`
	TaxNumber   string `json:"tax_number,omitempty" bson:"tax_number,omitempty"`
}

// OrderItem is a single purchased line. Quantity and unit price are
// frozen at purchase time and never re-read from the product.
type OrderItem struct {
	ProductID string  `json:"product_id" bson:"product_id"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	UnitPrice float64 `json:"unit_price" bson:"unit_price"`
}

// Order is the document persisted in the orders collection.
type Order struct {
	ID          string           `json:"id" bson:"_id"`
	OrderNumber string           `json:"order_number" bson:"order_number"`
	Items       []OrderItem      `json:"items" bson:"items"`
	Total       float64          `json:"total" bson:"total"`
	Status      string           `json:"status" bson:"status"`
	Shipping    ShippingSnapshot `json:"shipping" bson:"shipping"`
	Billing     *BillingSnapshot `json:"billing,omitempty" bson:"billing,omitempty"`
	CreatedAt   time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" bson:"updated_at"`
}
