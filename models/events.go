package models

import "time"

// Event type constants published to Kafka/SNS.
const (
	EventOrderCreated = "order.created"
)

// OrderCreatedEvent is published after an order is persisted.
type OrderCreatedEvent struct {
	EventType   string      `json:"event_type"`
	OrderID     string      `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	Items       []OrderItem `json:"items"`
	Total       float64     `json:"total"`
	Timestamp   time.Time   `json:"timestamp"`
}
