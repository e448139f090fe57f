package repository

import (
	"fmt"
	"time"

	"github.com/minkwan/storefront-backend/internal/app/model"
	"github.com/minkwan/storefront-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductFilter narrows product listings. Price bounds are inclusive
// and may be open at either end.
type ProductFilter struct {
	CollectionID  *uint
	CollectionIDs []uint
	MinPrice      *model.Money
	MaxPrice      *model.Money
	Search        string
	Tag           string
	Published     *bool
	InStock       bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Page          PageRequest
}

var productSortColumns = map[string]string{
	"name":       "name",
	"price":      "price",
	"stock":      "stock",
	"createdat":  "created_at",
	"created_at": "created_at",
	"updatedat":  "updated_at",
	"updated_at": "updated_at",
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindWithFilter(filter ProductFilter) ([]model.Product, int64, error)
	FindByID(id uint) (*model.Product, error)
	FindByIDs(ids []uint) ([]model.Product, error)
	FindByCollection(collectionID uint) ([]model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error
	UpsertSpecifications(spec *model.ProductSpecifications) error
	UpsertDetails(details *model.ProductDetails) error
	UpsertDownloadableContent(content *model.DownloadableContent) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":          product.Name,
		"collection_id": product.CollectionID,
		"price":         product.Price,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name":          product.Name,
			"collection_id": product.CollectionID,
		})
		return err
	}
	return nil
}

func (r *productRepository) baseQuery() *gorm.DB {
	return r.db.Model(&model.Product{}).
		Preload("Specifications").
		Preload("Details").
		Preload("DownloadableContent")
}

func (r *productRepository) FindAll() ([]model.Product, error) {
	var products []model.Product
	if err := r.baseQuery().Order("id ASC").Find(&products).Error; err != nil {
		logger.Error("Failed to find all products", err)
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, int64, error) {
	req := filter.Page.Normalize()

	logger.Debug("Finding products with filter", map[string]interface{}{
		"collection_id": filter.CollectionID,
		"min_price":     filter.MinPrice,
		"max_price":     filter.MaxPrice,
		"search":        filter.Search,
		"tag":           filter.Tag,
		"page":          req.PageNumber,
		"page_size":     req.PageSize,
		"sort_by":       req.SortBy,
	})

	query := r.baseQuery()

	if filter.CollectionID != nil {
		query = query.Where("products.collection_id = ?", *filter.CollectionID)
	}
	if len(filter.CollectionIDs) > 0 {
		query = query.Where("products.collection_id IN ?", filter.CollectionIDs)
	}
	if filter.MinPrice != nil {
		query = query.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}
	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("products.name LIKE ? OR products.description LIKE ?", like, like)
	}
	if filter.Tag != "" {
		query = query.Where("products.tags LIKE ?", fmt.Sprintf("%%%q%%", filter.Tag))
	}
	if filter.Published != nil {
		query = query.Where("products.published = ?", *filter.Published)
	}
	if filter.InStock {
		query = query.Where("products.stock > 0")
	}
	if filter.CreatedAfter != nil {
		query = query.Where("products.created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("products.created_at <= ?", *filter.CreatedBefore)
	}

	query = applySort(query, "products", req, productSortColumns)

	var products []model.Product
	total, err := paginate(query, req, &products)
	if err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return products, total, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.baseQuery().First(&product, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find product by ID", err, map[string]interface{}{
				"product_id": id,
			})
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByIDs(ids []uint) ([]model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []model.Product
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		logger.Error("Failed to find products by IDs", err, map[string]interface{}{
			"count": len(ids),
		})
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindByCollection(collectionID uint) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.Where("collection_id = ?", collectionID).Order("id ASC").Find(&products).Error; err != nil {
		logger.Error("Failed to find products by collection", err, map[string]interface{}{
			"collection_id": collectionID,
		})
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	return nil
}

func (r *productRepository) UpsertSpecifications(spec *model.ProductSpecifications) error {
	return r.upsertDetailRow(spec, []string{"material", "dimensions", "weight", "color"})
}

func (r *productRepository) UpsertDetails(details *model.ProductDetails) error {
	return r.upsertDetailRow(details, []string{"long_text", "care_notes", "shipping_info"})
}

func (r *productRepository) UpsertDownloadableContent(content *model.DownloadableContent) error {
	return r.upsertDetailRow(content, []string{"file_url", "file_name", "file_size"})
}

// upsertDetailRow inserts or replaces a 1:1 detail row keyed on
// product_id.
func (r *productRepository) upsertDetailRow(row interface{}, columns []string) error {
	columns = append(columns, "updated_at")
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(row).Error
	if err != nil {
		logger.Error("Failed to upsert product detail row", err)
	}
	return err
}
