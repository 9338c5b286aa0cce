package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/meshawi/Pharmacy-Management-System/internal/catalog"
	"github.com/meshawi/Pharmacy-Management-System/internal/models"
)

type ProductRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	Price         int64  `json:"price" binding:"required,gt=0"`
	StockQuantity int64  `json:"stock_quantity" binding:"gte=0"`
	Category      string `json:"category" binding:"required"`
}

// productView is a product plus its rating average; AverageRating is nil
// when the product has no reviews yet.
type productView struct {
	models.Product
	AverageRating *float64 `json:"average_rating"`
}

// GET /api/products
func (h *Handler) ListProducts(c *gin.Context) {
	ctx := c.Request.Context()

	products, err := h.Catalog.List(ctx, c.Query("category"))
	if err != nil {
		h.storageFailure(c, "list products", err)
		return
	}

	categories, err := h.Catalog.ListCategories(ctx)
	if err != nil {
		h.storageFailure(c, "list categories", err)
		return
	}

	views := make([]productView, 0, len(products))
	for _, p := range products {
		v := productView{Product: p}
		if avg, ok, err := h.Reviews.AverageRating(ctx, p.ID); err == nil && ok {
			v.AverageRating = &avg
		}
		views = append(views, v)
	}

	c.JSON(http.StatusOK, gin.H{"products": views, "categories": categories})
}

// GET /api/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	p, err := h.Catalog.Get(c.Request.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Product not found with ID: %d", id)})
		return
	}
	if err != nil {
		h.storageFailure(c, "get product", err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// POST /api/products (Admin)
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := models.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Category:      req.Category,
	}
	if err := h.Catalog.Create(c.Request.Context(), &product); err != nil {
		h.storageFailure(c, "create product", err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// PUT /api/products/:id (Admin)
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := models.Product{
		ID:            id,
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Category:      req.Category,
	}
	err := h.Catalog.Update(c.Request.Context(), &product)
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Product not found with ID: %d", id)})
		return
	}
	if err != nil {
		h.storageFailure(c, "update product", err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// DELETE /api/products/:id (Admin)
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	err := h.Catalog.Delete(c.Request.Context(), id)
	switch {
	case errors.Is(err, catalog.ErrReferencedByOrders):
		c.JSON(http.StatusConflict, gin.H{"error": "cannot delete product because it is referenced in order items"})
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Product not found with ID: %d", id)})
	case err != nil:
		h.storageFailure(c, "delete product", err)
	default:
		c.JSON(http.StatusOK, gin.H{"message": "product deleted successfully"})
	}
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s", param)})
		return 0, false
	}
	return uint(id), true
}
