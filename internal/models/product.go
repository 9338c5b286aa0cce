package models

// Product is a catalog entry. Price is in minor currency units (cents) so
// money arithmetic stays exact. StockQuantity must never go below zero; the
// order engine depletes it only through a guarded decrement, and the check
// constraint backstops that at the store.
type Product struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Name          string `gorm:"not null" json:"name"`
	Description   string `json:"description"`
	Price         int64  `gorm:"not null" json:"price"`
	StockQuantity int64  `gorm:"not null;default:0;check:stock_quantity >= 0" json:"stock_quantity"`
	Category      string `gorm:"index;not null" json:"category"`
}
