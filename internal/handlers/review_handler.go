package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meshawi/Pharmacy-Management-System/internal/auth"
	"github.com/meshawi/Pharmacy-Management-System/internal/reviews"
)

type SubmitReviewRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Review string `json:"review"`
}

// POST /api/products/:id/reviews (Customer)
func (h *Handler) SubmitReview(c *gin.Context) {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	productID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating between 1 and 5 is required"})
		return
	}

	err := h.Reviews.Submit(c.Request.Context(), productID, userID, req.Rating, req.Review)
	if errors.Is(err, reviews.ErrInvalidRating) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.storageFailure(c, "submit review", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "review submitted successfully"})
}

// GET /api/products/:id/reviews
func (h *Handler) ListReviews(c *gin.Context) {
	productID, ok := parseID(c, "id")
	if !ok {
		return
	}

	list, err := h.Reviews.ListForProduct(c.Request.Context(), productID)
	if err != nil {
		h.storageFailure(c, "list reviews", err)
		return
	}

	avg, hasRatings, err := h.Reviews.AverageRating(c.Request.Context(), productID)
	if err != nil {
		h.storageFailure(c, "average rating", err)
		return
	}

	resp := gin.H{"reviews": list}
	if hasRatings {
		resp["average_rating"] = avg
	} else {
		resp["average_rating"] = nil
	}
	c.JSON(http.StatusOK, resp)
}
