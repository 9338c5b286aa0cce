package models

import "time"

// Roles recognised by the session middleware. New accounts default to
// Customer; Admin promotes via user management.
const (
	RoleCustomer   = "Customer"
	RolePharmacist = "Pharmacist"
	RoleAdmin      = "Admin"
)

type User struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
	Gender      string `json:"gender"`
	Phone       string `json:"phone_number"`
	Username    string `gorm:"uniqueIndex;not null" json:"username"`
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Role        string `gorm:"not null;default:Customer" json:"role"`
	OIDCID      string `gorm:"uniqueIndex" json:"-"` // OpenID Connect subject
	CreatedAt   time.Time `json:"created_at"`
}
