package db

import (
	"fmt"
	"log"

	"github.com/minkwan/storefront-backend/internal/app/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB() (*gorm.DB, error) {
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	// Run migrations
	err = database.AutoMigrate(
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
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	if err := SeedStatuses(database); err != nil {
		return nil, fmt.Errorf("failed to seed test statuses: %w", err)
	}

	return database, nil
}

// CleanupTestDB cleans up the test database
func CleanupTestDB(database *gorm.DB) {
	sqlDB, err := database.DB()
	if err != nil {
		log.Printf("Failed to get DB instance: %v", err)
		return
	}
	sqlDB.Close()
}

// TruncateAllTables removes all data from tables
func TruncateAllTables(database *gorm.DB) error {
	tables := []string{
		"cart_items", "carts",
		"order_items", "orders",
		"downloadable_contents", "product_details", "product_specifications",
		"products", "collections",
		"contact_form_submissions", "subscriptions",
		"users",
	}
	for _, table := range tables {
		if err := database.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return err
		}
	}
	return nil
}
