package database

import (
	"kirayo/internal/logger"
	"kirayo/internal/models"
)

// MigrateModels runs GORM AutoMigrate for all models
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	modelsToMigrate := []interface{}{
		&models.User{},
		&models.Category{},
		&models.CategoryRequirement{},
		&models.RentalItem{},
		&models.RenterInputField{},
		&models.Booking{},
		&models.Notification{},
		&models.Complaint{},
		&models.UserRestriction{},
		&models.OwnerRequest{},
		&models.OwnerRequirement{},
	}

	for _, model := range modelsToMigrate {
		if err := db.SQL.AutoMigrate(model); err != nil {
			log.Error("Failed to migrate model", "model", model, "error", err)
			return err
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates additional indexes that GORM doesn't create automatically
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_bookings_item_payment_status ON bookings(rental_item_id, payment_status)",
		"CREATE INDEX IF NOT EXISTS idx_bookings_user_payment_status ON bookings(user_id, payment_status)",
		"CREATE INDEX IF NOT EXISTS idx_notifications_user_read ON notifications(user_id, read)",
		"CREATE INDEX IF NOT EXISTS idx_complaints_defendant_status ON complaints(defendant_id, status)",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			log.Warn("Failed to create index", "sql", indexSQL, "error", err)
			// Continue with other indexes even if one fails
		}
	}

	log.Info("Additional database indexes created")
	return nil
}
