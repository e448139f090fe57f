package db

import (
	"github.com/minkwan/storefront-backend/internal/app/model"
	"github.com/minkwan/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Collection{},
		&model.Product{},
		&model.ProductSpecifications{},
		&model.ProductDetails{},
		&model.DownloadableContent{},
		&model.Cart{},
		&model.CartItem{},
		&model.Status{},
		&model.Order{},
		&model.OrderItem{},
		&model.ContactFormSubmission{},
		&model.Subscription{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(DB); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData(DB)
}

func seedInitialData(database *gorm.DB) error {
	logger.Info("Seeding initial data...")

	if err := SeedStatuses(database); err != nil {
		logger.Error("Failed to seed statuses", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

// SeedStatuses installs the status lookup table. Existing rows are
// never modified; only missing names are inserted, so the routine is
// safe to run on every startup.
func SeedStatuses(database *gorm.DB) error {
	var existing []model.Status
	if err := database.Find(&existing).Error; err != nil {
		return err
	}

	known := make(map[string]bool, len(existing))
	for _, status := range existing {
		known[status.Name] = true
	}

	totalInserted := 0
	for _, status := range model.SeedStatuses() {
		if known[status.Name] {
			continue
		}
		if err := database.Create(&status).Error; err != nil {
			logger.Error("Failed to create status", err, map[string]interface{}{
				"status": status.Name,
			})
			return err
		}
		totalInserted++
	}

	if totalInserted == 0 {
		logger.Info("Statuses already seeded, skipping...", map[string]interface{}{
			"existing_count": len(existing),
		})
		return nil
	}

	logger.Info("Statuses seeded successfully", map[string]interface{}{
		"total_inserted": totalInserted,
	})
	return nil
}
