package models

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusShipped   OrderStatus = "Shipped"
	StatusDelivered OrderStatus = "Delivered"
	StatusCancelled OrderStatus = "Cancelled"
)

// statusTransitions is the full set of legal status moves. Delivered and
// Cancelled are terminal: a shipped order cannot revert to Pending.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending: {StatusShipped, StatusCancelled},
	StatusShipped: {StatusDelivered},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Order is created exactly once per successful cart commit. Everything but
// Status is immutable afterwards; TotalAmount always equals the sum of its
// line prices.
type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	CustomerID  uint        `gorm:"index;not null" json:"customer_id"`
	TotalAmount int64       `gorm:"not null" json:"total_amount"`
	Status      OrderStatus `gorm:"not null;default:Pending" json:"status"`
	CreatedAt   time.Time   `json:"order_date"`
	Lines       []OrderLine `gorm:"foreignKey:OrderID" json:"lines"`
}

// OrderLine records one unit of one product. Quantity is fixed at 1; a cart
// with two of the same product produces two lines. Price is captured at
// commit time so later catalog price edits never rewrite history.
type OrderLine struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"index;not null" json:"order_id"`
	ProductID uint      `gorm:"index;not null" json:"product_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	Price     int64     `gorm:"not null" json:"price"`
	Product   Product   `json:"product"`
	CreatedAt time.Time `json:"created_at"`
}
