package auth

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/meshawi/Pharmacy-Management-System/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// Users is the admin-facing user management surface.
type Users struct {
	db *gorm.DB
}

func NewUsers(gdb *gorm.DB) *Users {
	return &Users{db: gdb}
}

func (u *Users) List(ctx context.Context) ([]models.User, error) {
	var list []models.User
	if err := u.db.WithContext(ctx).Order("id").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return list, nil
}

func (u *Users) Get(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, nil
}

// Update rewrites profile fields and the role. The OIDC subject is the login
// key and never changes here.
func (u *Users) Update(ctx context.Context, user *models.User) error {
	res := u.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"first_name":    user.FirstName,
			"last_name":     user.LastName,
			"date_of_birth": user.DateOfBirth,
			"gender":        user.Gender,
			"phone":         user.Phone,
			"username":      user.Username,
			"email":         user.Email,
			"role":          user.Role,
		})
	if res.Error != nil {
		return fmt.Errorf("update user %d: %w", user.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (u *Users) Delete(ctx context.Context, id uint) error {
	res := u.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
