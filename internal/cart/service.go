package cart

import (
	"context"
	"errors"

	"github.com/meshawi/Pharmacy-Management-System/internal/catalog"
	"github.com/meshawi/Pharmacy-Management-System/internal/models"
)

// ErrOutOfStock rejects adding a product whose current stock is below one.
// The check is advisory only; nothing is reserved and the commit re-checks.
var ErrOutOfStock = errors.New("product is out of stock")

type Service struct {
	catalog *catalog.Store
}

func NewService(store *catalog.Store) *Service {
	return &Service{catalog: store}
}

// Add appends one unit of the product after the advisory stock check.
func (s *Service) Add(ctx context.Context, c *Cart, productID uint) error {
	p, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return err
	}
	if p.StockQuantity < 1 {
		return ErrOutOfStock
	}
	c.Add(productID)
	return nil
}

type QuoteLine struct {
	Product   models.Product `json:"product"`
	UnitPrice int64          `json:"unit_price"`
}

type Quote struct {
	Lines []QuoteLine `json:"lines"`
	Total int64       `json:"total_amount"`
}

// Quote prices the cart for display by re-reading each product; the cart
// stores no prices, so the quote always reflects the live catalog. It never
// mutates the cart.
func (s *Service) Quote(ctx context.Context, c *Cart) (Quote, error) {
	q := Quote{Lines: make([]QuoteLine, 0, len(c.Items))}
	for _, id := range c.Snapshot() {
		p, err := s.catalog.Get(ctx, id)
		if err != nil {
			return Quote{}, err
		}
		q.Lines = append(q.Lines, QuoteLine{Product: p, UnitPrice: p.Price})
		q.Total += p.Price
	}
	return q, nil
}
