package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusServed    OrderStatus = "Served"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusServed, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem captures the product id, display name and unit price at the time
// the order was placed. Later catalog edits do not alter placed orders.
type OrderItem struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	Price     float64 `json:"price"`
}

type Order struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	Items       []OrderItem `json:"items"`
	Total       float64     `json:"total"`
	Status      OrderStatus `json:"status"`
	Date        time.Time   `json:"date"`
	PaymentMode string      `json:"paymentMode"`
}
