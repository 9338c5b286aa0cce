package reports

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Service computes read-only projections over the data the order engine
// writes. Nothing here mutates state.
type Service struct {
	db *gorm.DB
}

func NewService(gdb *gorm.DB) *Service {
	return &Service{db: gdb}
}

type SalesRow struct {
	Day         string `json:"order_date"`
	TotalSales  int64  `json:"total_sales"`
	TotalOrders int64  `json:"total_orders"`
}

// Sales aggregates order totals per calendar day, newest day first.
func (s *Service) Sales(ctx context.Context) ([]SalesRow, error) {
	var rows []SalesRow
	err := s.db.WithContext(ctx).
		Table("orders").
		Select("DATE(created_at) AS day, SUM(total_amount) AS total_sales, COUNT(id) AS total_orders").
		Group("DATE(created_at)").
		Order("day DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sales report: %w", err)
	}
	return rows, nil
}

type InventoryRow struct {
	ProductID     uint   `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Price         int64  `json:"price"`
	StockQuantity int64  `json:"stock_quantity"`
	TotalSold     int64  `json:"total_sold"`
}

// Inventory reports stock on hand and units sold per product, by name.
// Products never ordered appear with zero sold.
func (s *Service) Inventory(ctx context.Context) ([]InventoryRow, error) {
	var rows []InventoryRow
	err := s.db.WithContext(ctx).
		Table("products p").
		Select("p.id AS product_id, p.name, p.description, p.price, p.stock_quantity, COALESCE(SUM(ol.quantity), 0) AS total_sold").
		Joins("LEFT JOIN order_lines ol ON ol.product_id = p.id").
		Group("p.id, p.name, p.description, p.price, p.stock_quantity").
		Order("p.name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("inventory report: %w", err)
	}
	return rows, nil
}
