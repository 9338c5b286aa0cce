package orders

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart rejects a commit with nothing to buy, before any storage
	// work happens.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrTransactionTimeout means the commit could not finish inside its
	// deadline. Everything was rolled back; the customer may retry.
	ErrTransactionTimeout = errors.New("order transaction timed out")

	ErrOrderNotFound = errors.New("order not found")

	ErrInvalidTransition = errors.New("illegal order status transition")
)

// InsufficientStockError names the product that could not be supplied. The
// whole commit was rolled back, so no stock was taken for the other lines
// either.
type InsufficientStockError struct {
	ProductID uint
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d", e.ProductID)
}
