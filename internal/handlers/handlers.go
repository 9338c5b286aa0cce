package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	config "github.com/meshawi/Pharmacy-Management-System/configs"
	"github.com/meshawi/Pharmacy-Management-System/internal/auth"
	"github.com/meshawi/Pharmacy-Management-System/internal/cart"
	"github.com/meshawi/Pharmacy-Management-System/internal/catalog"
	"github.com/meshawi/Pharmacy-Management-System/internal/middleware"
	"github.com/meshawi/Pharmacy-Management-System/internal/orders"
	"github.com/meshawi/Pharmacy-Management-System/internal/reports"
	"github.com/meshawi/Pharmacy-Management-System/internal/reviews"
)

// Handler wires the service layer to gin. It translates the error taxonomy
// to HTTP statuses; storage detail is logged, never echoed to clients.
type Handler struct {
	Catalog *catalog.Store
	Cart    *cart.Service
	Orders  *orders.Engine
	Reviews *reviews.Aggregator
	Reports *reports.Service
	Users   *auth.Users
	Email   config.EmailConfig
	Log     *slog.Logger
}

// storageFailure logs the real error with the request id and answers with a
// generic message.
func (h *Handler) storageFailure(c *gin.Context, op string, err error) {
	h.Log.Error("storage failure",
		"op", op,
		"error", err,
		"request_id", c.GetString(middleware.ContextKeyReqID),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong, please try again later"})
}
