package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/admin/reports/sales (Admin)
func (h *Handler) SalesReport(c *gin.Context) {
	rows, err := h.Reports.Sales(c.Request.Context())
	if err != nil {
		h.storageFailure(c, "sales report", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales": rows})
}

// GET /api/admin/reports/inventory (Admin or Pharmacist)
func (h *Handler) InventoryReport(c *gin.Context) {
	rows, err := h.Reports.Inventory(c.Request.Context())
	if err != nil {
		h.storageFailure(c, "inventory report", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inventory": rows})
}
