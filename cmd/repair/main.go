package main

import (
	"context"
	"fmt"
	"log"

	"github.com/minkwan/storefront-backend/config"
	"github.com/minkwan/storefront-backend/internal/app/repository"
	"github.com/minkwan/storefront-backend/internal/app/service"
	"github.com/minkwan/storefront-backend/internal/db"
	"github.com/minkwan/storefront-backend/internal/scheduler"
)

// Repairs the denormalized collection caches: NULL or malformed JSON
// columns are reset to empty arrays, then both caches are rebuilt from
// the authoritative relations.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	database := db.GetDB()

	for _, column := range []string{"child_collection_ids", "product_ids", "tags", "images"} {
		result := database.Exec(
			fmt.Sprintf("UPDATE collections SET %s = '[]' WHERE %s IS NULL", column, column),
		)
		if result.Error != nil {
			log.Fatalf("Failed to normalize collections.%s: %v", column, result.Error)
		}
		if result.RowsAffected > 0 {
			fmt.Printf("Normalized %d NULL values in collections.%s\n", result.RowsAffected, column)
		}
	}
	for _, column := range []string{"tags", "images"} {
		result := database.Exec(
			fmt.Sprintf("UPDATE products SET %s = '[]' WHERE %s IS NULL", column, column),
		)
		if result.Error != nil {
			log.Fatalf("Failed to normalize products.%s: %v", column, result.Error)
		}
		if result.RowsAffected > 0 {
			fmt.Printf("Normalized %d NULL values in products.%s\n", result.RowsAffected, column)
		}
	}

	collectionRepo := repository.NewCollectionRepository(database)
	collectionService := service.NewCollectionService(collectionRepo)

	scheduler.NewRefreshScheduler(collectionService).RunOnce(context.Background())

	fmt.Println("Repair completed successfully!")
}
