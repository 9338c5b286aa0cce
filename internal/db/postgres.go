package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	config "github.com/meshawi/Pharmacy-Management-System/configs"
	"github.com/meshawi/Pharmacy-Management-System/internal/models"
)

// Init opens the postgres connection and runs migrations. Tests use an
// in-memory sqlite handle instead and call Migrate directly.
func Init(cfg config.DBConfig) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}

	if err := Migrate(gdb); err != nil {
		return nil, err
	}

	return gdb, nil
}

func Migrate(gdb *gorm.DB) error {
	err := gdb.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderLine{},
		&models.Review{},
	)
	if err != nil {
		return fmt.Errorf("migrate db: %w", err)
	}
	return nil
}
