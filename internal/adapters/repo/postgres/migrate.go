package postgres

import (
	"gorm.io/gorm"

	"github.com/phenrril/procar/internal/domain"
)

// AutoMigrate creates the schema. The unique index on orders.number is the
// storage-level backstop for the advisory number validation in the usecase.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.Customer{}, &domain.Item{}, &orderRow{}); err != nil {
		return err
	}
	return db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_number ON orders(number)").Error
}
