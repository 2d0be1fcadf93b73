package repositories

import (
	"roti/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table the store owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Size{},
		&models.ProductSize{},
		&models.Order{},
		&models.OrderItem{},
	)
}
