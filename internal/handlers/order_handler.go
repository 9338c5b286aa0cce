package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/meshawi/Pharmacy-Management-System/internal/auth"
	"github.com/meshawi/Pharmacy-Management-System/internal/cart"
	"github.com/meshawi/Pharmacy-Management-System/internal/models"
	"github.com/meshawi/Pharmacy-Management-System/internal/notifier"
	"github.com/meshawi/Pharmacy-Management-System/internal/orders"
)

// POST /api/orders commits the session cart. On success the cart is cleared
// and the confirmation email goes out asynchronously; on any failure the
// cart is left untouched so the customer can adjust and retry.
func (h *Handler) ConfirmOrder(c *gin.Context) {
	custID, ok := auth.CurrentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sess := sessions.Default(c)
	ct := cart.FromSession(sess)

	order, err := h.Orders.ConfirmOrder(c.Request.Context(), custID, ct.Snapshot())
	if err != nil {
		var stockErr *orders.InsufficientStockError
		switch {
		case errors.Is(err, orders.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "your cart is empty"})
		case errors.As(err, &stockErr):
			c.JSON(http.StatusConflict, gin.H{
				"error":      fmt.Sprintf("insufficient stock for product %d", stockErr.ProductID),
				"product_id": stockErr.ProductID,
			})
		case errors.Is(err, orders.ErrTransactionTimeout):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "order could not be processed in time, please try again"})
		default:
			h.storageFailure(c, "confirm order", err)
		}
		return
	}

	ct.Clear()
	if err := cart.Save(sess, ct); err != nil {
		// The order is committed; the cart is only advisory state.
		h.Log.Warn("failed to clear cart after commit", "order_id", order.ID, "error", err)
	}

	if user, uerr := h.Users.Get(c.Request.Context(), custID); uerr == nil {
		go func(u models.User, o models.Order) {
			name := u.FirstName + " " + u.LastName
			if err := notifier.SendOrderConfirmation(context.Background(), h.Email, u.Email, name, o.ID, o.TotalAmount); err != nil {
				h.Log.Warn("failed to send order confirmation email", "order_id", o.ID, "error", err)
			}
		}(user, order)
	}

	c.JSON(http.StatusCreated, gin.H{"message": "order confirmed successfully", "order_id": order.ID})
}

// GET /api/orders is the customer's own order history.
func (h *Handler) OrderHistory(c *gin.Context) {
	custID, ok := auth.CurrentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	list, err := h.Orders.HistoryForCustomer(c.Request.Context(), custID)
	if err != nil {
		h.storageFailure(c, "order history", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

// GET /api/admin/orders (Admin)
func (h *Handler) ListAllOrders(c *gin.Context) {
	list, err := h.Orders.AllOrders(c.Request.Context())
	if err != nil {
		h.storageFailure(c, "list all orders", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// PUT /api/admin/orders/:id/status (Admin)
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status required"})
		return
	}

	err := h.Orders.UpdateStatus(c.Request.Context(), id, req.Status)
	switch {
	case errors.Is(err, orders.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Order not found with ID: %d", id)})
	case errors.Is(err, orders.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "illegal order status transition"})
	case err != nil:
		h.storageFailure(c, "update order status", err)
	default:
		c.JSON(http.StatusOK, gin.H{"message": "order status updated successfully"})
	}
}
