package domain

import "time"

// OrderStatusPending is the only status an order can currently hold; no
// transition surface exists.
const OrderStatusPending = "pending"

// OrderItem snapshots price and quantity for one product at checkout time.
// Deleting the product later leaves this copy intact.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Subtotal  float64 `json:"subtotal"`
}

// Order is an immutable record of a committed purchase.
type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
}
