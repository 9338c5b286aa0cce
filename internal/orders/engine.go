package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/meshawi/Pharmacy-Management-System/internal/catalog"
	"github.com/meshawi/Pharmacy-Management-System/internal/models"
)

// Engine owns the only write path that creates orders and depletes stock.
// The two happen in one transaction or not at all.
type Engine struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewEngine wraps the shared gorm handle. timeout bounds each commit; zero
// means no bound.
func NewEngine(gdb *gorm.DB, timeout time.Duration) *Engine {
	return &Engine{db: gdb, timeout: timeout}
}

// ConfirmOrder turns a cart snapshot into a persisted order and returns it,
// lines included, depleting stock
// as it goes. Product state is re-read inside the transaction; the advisory
// check done when the item entered the cart is not trusted. On any failure
// the transaction rolls back whole: no order row, no lines, no stock taken.
// The caller keeps the cart on failure and clears it on success.
//
// Retrying after a failure is safe and revalidates from scratch. A second
// successful submission of the same cart creates a second order; preventing
// that is the submitting layer's job.
func (e *Engine) ConfirmOrder(ctx context.Context, customerID uint, snapshot []uint) (models.Order, error) {
	if len(snapshot) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	var created models.Order
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Capture current unit prices. A product that vanished since it was
		// carted is unavailable, same as one with no stock.
		prices := make(map[uint]int64, len(snapshot))
		var total int64
		for _, pid := range snapshot {
			price, seen := prices[pid]
			if !seen {
				var p models.Product
				if err := tx.First(&p, pid).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return &InsufficientStockError{ProductID: pid}
					}
					return fmt.Errorf("read product %d: %w", pid, err)
				}
				price = p.Price
				prices[pid] = price
			}
			total += price
		}

		order := models.Order{
			CustomerID:  customerID,
			TotalAmount: total,
			Status:      models.StatusPending,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		// One line and one unit of stock per snapshot entry, in snapshot
		// order so lines correspond to what the customer saw.
		for _, pid := range snapshot {
			ok, err := catalog.DepleteStock(tx, pid, 1)
			if err != nil {
				return err
			}
			if !ok {
				return &InsufficientStockError{ProductID: pid}
			}

			line := models.OrderLine{
				OrderID:   order.ID,
				ProductID: pid,
				Quantity:  1,
				Price:     prices[pid],
			}
			if err := tx.Create(&line).Error; err != nil {
				return fmt.Errorf("create order line: %w", err)
			}
			order.Lines = append(order.Lines, line)
		}

		created = order
		return nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return models.Order{}, ErrTransactionTimeout
		}
		return models.Order{}, err
	}

	return created, nil
}
