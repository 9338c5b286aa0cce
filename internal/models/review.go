package models

import "time"

// Review is independent of orders: any customer may review any product.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"index;not null" json:"product_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Body      string    `json:"review"`
	CreatedAt time.Time `json:"created_at"`
}
