package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/meshawi/Pharmacy-Management-System/internal/models"
)

var (
	ErrNotFound = errors.New("product not found")

	// ErrReferencedByOrders blocks deletion of a product that appears on any
	// order line; historical orders must keep resolving their products.
	ErrReferencedByOrders = errors.New("product is referenced by existing orders")
)

// Store owns product persistence. Stock is mutated here only through
// DepleteStock, which the order engine calls inside its transaction.
type Store struct {
	db *gorm.DB
}

func NewStore(gdb *gorm.DB) *Store {
	return &Store{db: gdb}
}

func (s *Store) Get(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

// List returns all products, optionally narrowed to one category.
func (s *Store) List(ctx context.Context, category string) ([]models.Product, error) {
	q := s.db.WithContext(ctx).Order("name")
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *Store) Create(ctx context.Context, p *models.Product) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, p *models.Product) error {
	res := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"name":           p.Name,
			"description":    p.Description,
			"price":          p.Price,
			"stock_quantity": p.StockQuantity,
			"category":       p.Category,
		})
	if res.Error != nil {
		return fmt.Errorf("update product %d: %w", p.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete refuses when any order line references the product. The count and
// the delete run in one transaction so a concurrent commit cannot slip a
// reference in between.
func (s *Store) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.OrderLine{}).Where("product_id = ?", id).Count(&refs).Error; err != nil {
			return fmt.Errorf("count order references for product %d: %w", id, err)
		}
		if refs > 0 {
			return ErrReferencedByOrders
		}

		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete product %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// DepleteStock decrements a product's stock by n as a single conditional
// UPDATE. It reports false when stock is short, without touching the row.
// Check-then-write pairs lose updates under concurrent commits, so the guard
// lives in the statement itself; tx must be the order engine's transaction.
func DepleteStock(tx *gorm.DB, productID uint, n int64) (bool, error) {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, n).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", n))
	if res.Error != nil {
		return false, fmt.Errorf("deplete stock for product %d: %w", productID, res.Error)
	}
	return res.RowsAffected == 1, nil
}
