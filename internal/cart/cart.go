package cart

import "errors"

var ErrNotInCart = errors.New("product not found in cart")

// Cart is the customer's in-progress selection: an ordered sequence of
// product IDs, one entry per unit wanted. It lives in the session cookie and
// is never a source of truth; the order engine revalidates every entry at
// commit time.
type Cart struct {
	Items []uint
}

func (c *Cart) Add(productID uint) {
	c.Items = append(c.Items, productID)
}

// Remove drops one occurrence of productID, keeping the order of the rest.
func (c *Cart) Remove(productID uint) error {
	for i, id := range c.Items {
		if id == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return ErrNotInCart
}

// Snapshot returns a copy of the selection so callers cannot mutate the cart
// through the returned slice.
func (c *Cart) Snapshot() []uint {
	snap := make([]uint, len(c.Items))
	copy(snap, c.Items)
	return snap
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}
