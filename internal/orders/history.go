package orders

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/meshawi/Pharmacy-Management-System/internal/models"
)

// HistoryForCustomer lists one customer's orders newest-first, with lines and
// the referenced product display fields loaded for presentation.
func (e *Engine) HistoryForCustomer(ctx context.Context, customerID uint) ([]models.Order, error) {
	var list []models.Order
	err := e.db.WithContext(ctx).
		Preload("Lines.Product").
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("order history for customer %d: %w", customerID, err)
	}
	return list, nil
}

// Get loads one committed order with its lines.
func (e *Engine) Get(ctx context.Context, orderID uint) (models.Order, error) {
	var order models.Order
	err := e.db.WithContext(ctx).Preload("Lines.Product").First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("get order %d: %w", orderID, err)
	}
	return order, nil
}

// AllOrders is the admin view: every order, newest first.
func (e *Engine) AllOrders(ctx context.Context) ([]models.Order, error) {
	var list []models.Order
	err := e.db.WithContext(ctx).
		Preload("Lines.Product").
		Order("created_at DESC, id DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list all orders: %w", err)
	}
	return list, nil
}

// UpdateStatus moves an order along the transition table. The write
// carries the observed status as a predicate, so a concurrent edit that
// got there first leaves RowsAffected at zero instead of being
// overwritten.
func (e *Engine) UpdateStatus(ctx context.Context, orderID uint, next models.OrderStatus) error {
	if !next.Valid() {
		return ErrInvalidTransition
	}

	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("read order %d: %w", orderID, err)
		}

		if !order.Status.CanTransitionTo(next) {
			return ErrInvalidTransition
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, order.Status).
			Update("status", next)
		if res.Error != nil {
			return fmt.Errorf("update order %d status: %w", orderID, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		return nil
	})
}
