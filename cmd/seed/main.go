package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/minkwan/storefront-backend/config"
	"github.com/minkwan/storefront-backend/internal/app/model"
	"github.com/minkwan/storefront-backend/internal/app/repository"
	"github.com/minkwan/storefront-backend/internal/app/service"
	"github.com/minkwan/storefront-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Expected sheet layout, one product per row:
// Root | Category | Subcategory | Product | Description | Price | Stock | Tags | Published
const expectedColumns = 9

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	collectionRepo := repository.NewCollectionRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	collectionService := service.NewCollectionService(collectionRepo)
	productService := service.NewProductService(productRepo, collectionRepo)

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, err := readCatalogRows(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total product rows to import: %d\n", len(rows))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported, skipped := importCatalog(rows, collectionService, productService)

	// One refresh pass at the end instead of per-row cache writes.
	if _, err := collectionService.RefreshAllParentChildRelationships(context.Background()); err != nil {
		log.Fatal("Failed to refresh collection relationships:", err)
	}
	if _, err := collectionService.RefreshAllProductIDs(context.Background()); err != nil {
		log.Fatal("Failed to refresh product id caches:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("  Products imported: %d\n", imported)
	fmt.Printf("  Rows skipped: %d\n", skipped)
}

type catalogRow struct {
	Root        string
	Category    string
	Subcategory string
	Product     string
	Description string
	Price       string
	Stock       int
	Tags        []string
	Published   bool
}

func readCatalogRows(filePath string) ([]catalogRow, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var result []catalogRow
	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}
		if len(row) < expectedColumns {
			continue
		}

		stock, _ := strconv.Atoi(strings.TrimSpace(row[6]))

		var tags []string
		for _, t := range strings.Split(row[7], ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}

		result = append(result, catalogRow{
			Root:        strings.TrimSpace(row[0]),
			Category:    strings.TrimSpace(row[1]),
			Subcategory: strings.TrimSpace(row[2]),
			Product:     strings.TrimSpace(row[3]),
			Description: strings.TrimSpace(row[4]),
			Price:       strings.TrimSpace(row[5]),
			Stock:       stock,
			Tags:        tags,
			Published:   strings.EqualFold(strings.TrimSpace(row[8]), "true"),
		})
	}

	return result, nil
}

// importCatalog creates the collection chain for each row once, then
// the product under its deepest collection.
func importCatalog(rows []catalogRow, collections service.CollectionService, products service.ProductService) (int, int) {
	created := make(map[string]uint) // "root|category|subcategory" -> collection id
	imported := 0
	skipped := 0

	ensure := func(name string, level int, parentID *uint, key string) (uint, bool) {
		if id, ok := created[key]; ok {
			return id, true
		}
		collection := &model.Collection{
			Name:               name,
			Level:              level,
			ParentCollectionID: parentID,
			Published:          true,
			CreatedBy:          "seed",
			UpdatedBy:          "seed",
		}
		if err := collections.CreateCollection(collection); err != nil {
			fmt.Printf("  Failed to create collection %q: %v\n", name, err)
			return 0, false
		}
		created[key] = collection.ID
		return collection.ID, true
	}

	for _, row := range rows {
		if row.Root == "" || row.Product == "" || row.Price == "" {
			skipped++
			continue
		}

		rootID, ok := ensure(row.Root, model.CollectionLevelRoot, nil, row.Root)
		if !ok {
			skipped++
			continue
		}
		targetID := rootID

		if row.Category != "" {
			categoryKey := row.Root + "|" + row.Category
			categoryID, ok := ensure(row.Category, model.CollectionLevelCategory, &rootID, categoryKey)
			if !ok {
				skipped++
				continue
			}
			targetID = categoryID

			if row.Subcategory != "" {
				subKey := categoryKey + "|" + row.Subcategory
				subID, ok := ensure(row.Subcategory, model.CollectionLevelSubcategory, &categoryID, subKey)
				if !ok {
					skipped++
					continue
				}
				targetID = subID
			}
		}

		price, err := model.MoneyFromString(row.Price)
		if err != nil {
			fmt.Printf("  Invalid price %q for %q, skipping\n", row.Price, row.Product)
			skipped++
			continue
		}

		product := &model.Product{
			Name:         row.Product,
			Description:  row.Description,
			Price:        price,
			Stock:        row.Stock,
			CollectionID: targetID,
			Tags:         model.StringSlice(row.Tags),
			Published:    row.Published,
			CreatedBy:    "seed",
			UpdatedBy:    "seed",
		}
		if err := products.CreateProduct(product); err != nil {
			fmt.Printf("  Failed to create product %q: %v\n", row.Product, err)
			skipped++
			continue
		}
		imported++

		if imported%1000 == 0 {
			fmt.Printf("Processed %d products...\n", imported)
		}
	}

	return imported, skipped
}
