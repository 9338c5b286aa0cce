package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meshawi/Pharmacy-Management-System/internal/auth"
	"github.com/meshawi/Pharmacy-Management-System/internal/models"
)

// GET /api/admin/users (Admin)
func (h *Handler) ListUsers(c *gin.Context) {
	list, err := h.Users.List(c.Request.Context())
	if err != nil {
		h.storageFailure(c, "list users", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": list})
}

type UpdateUserRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
	Gender      string `json:"gender"`
	Phone       string `json:"phone_number"`
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Role        string `json:"role" binding:"required,oneof=Customer Pharmacist Admin"`
}

// PUT /api/admin/users/:id (Admin)
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := models.User{
		ID:          id,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		Phone:       req.Phone,
		Username:    req.Username,
		Email:       req.Email,
		Role:        req.Role,
	}
	err := h.Users.Update(c.Request.Context(), &user)
	if errors.Is(err, auth.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("User not found with ID: %d", id)})
		return
	}
	if err != nil {
		h.storageFailure(c, "update user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user updated successfully"})
}

// DELETE /api/admin/users/:id (Admin)
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	err := h.Users.Delete(c.Request.Context(), id)
	if errors.Is(err, auth.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("User not found with ID: %d", id)})
		return
	}
	if err != nil {
		h.storageFailure(c, "delete user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user deleted successfully"})
}
