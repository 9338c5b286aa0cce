package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/meshawi/Pharmacy-Management-System/internal/cart"
	"github.com/meshawi/Pharmacy-Management-System/internal/catalog"
)

// GET /api/cart returns the quote: per-line product display fields with the
// live unit price, plus the total. Prices come from the catalog on every
// call; the session stores product ids only.
func (h *Handler) GetCart(c *gin.Context) {
	sess := sessions.Default(c)
	ct := cart.FromSession(sess)

	quote, err := h.Cart.Quote(c.Request.Context(), ct)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			// A carted product was deleted out from under the session;
			// surface the conflict so the client can remove the entry.
			c.JSON(http.StatusConflict, gin.H{"error": "a product in your cart is no longer available"})
			return
		}
		h.storageFailure(c, "quote cart", err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

// POST /api/cart/items/:id
func (h *Handler) AddToCart(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	sess := sessions.Default(c)
	ct := cart.FromSession(sess)

	err := h.Cart.Add(c.Request.Context(), ct, id)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Product not found with ID: %d", id)})
		return
	case errors.Is(err, cart.ErrOutOfStock):
		c.JSON(http.StatusConflict, gin.H{"error": "product is out of stock and cannot be added to the cart"})
		return
	case err != nil:
		h.storageFailure(c, "add to cart", err)
		return
	}

	if err := cart.Save(sess, ct); err != nil {
		h.storageFailure(c, "save cart session", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product added to cart", "items": ct.Items})
}

// DELETE /api/cart/items/:id removes one occurrence of the product.
func (h *Handler) RemoveFromCart(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	sess := sessions.Default(c)
	ct := cart.FromSession(sess)

	if err := ct.Remove(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found in cart"})
		return
	}

	if err := cart.Save(sess, ct); err != nil {
		h.storageFailure(c, "save cart session", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product removed from cart", "items": ct.Items})
}
