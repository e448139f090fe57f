package repository

import (
	"fmt"

	"github.com/minkwan/storefront-backend/internal/app/model"
	"github.com/minkwan/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// CollectionFilter narrows collection listings. Nil pointers mean the
// dimension is not filtered.
type CollectionFilter struct {
	Level     *int
	ParentID  *uint
	Published *bool
	Search    string
	Tag       string
	Page      PageRequest
}

var collectionSortColumns = map[string]string{
	"name":       "name",
	"level":      "level",
	"createdat":  "created_at",
	"created_at": "created_at",
	"updatedat":  "updated_at",
	"updated_at": "updated_at",
}

type CollectionRepository interface {
	Create(collection *model.Collection) error
	FindAll() ([]model.Collection, error)
	FindWithFilter(filter CollectionFilter) ([]model.Collection, int64, error)
	FindByID(id uint) (*model.Collection, error)
	FindByLevel(level int) ([]model.Collection, error)
	FindByParent(parentID uint) ([]model.Collection, error)
	CountChildren(id uint) (int64, error)
	CountProducts(id uint) (int64, error)
	ProductCounts() (map[uint]int64, error)
	ProductAssignments() (map[uint][]uint, error)
	Update(collection *model.Collection) error
	UpdateCachedIDs(id uint, childIDs model.UintSlice, productIDs model.UintSlice) error
	Delete(id uint) error
}

type collectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) Create(collection *model.Collection) error {
	logger.Debug("Creating collection in database", map[string]interface{}{
		"name":   collection.Name,
		"level":  collection.Level,
		"parent": collection.ParentCollectionID,
	})

	if err := r.db.Create(collection).Error; err != nil {
		logger.Error("Failed to create collection in database", err, map[string]interface{}{
			"name":  collection.Name,
			"level": collection.Level,
		})
		return err
	}
	return nil
}

func (r *collectionRepository) FindAll() ([]model.Collection, error) {
	var collections []model.Collection
	if err := r.db.Order("level ASC").Order("id ASC").Find(&collections).Error; err != nil {
		logger.Error("Failed to find all collections", err)
		return nil, err
	}
	return collections, nil
}

func (r *collectionRepository) FindWithFilter(filter CollectionFilter) ([]model.Collection, int64, error) {
	req := filter.Page.Normalize()

	logger.Debug("Finding collections with filter", map[string]interface{}{
		"level":     filter.Level,
		"parent_id": filter.ParentID,
		"search":    filter.Search,
		"page":      req.PageNumber,
		"page_size": req.PageSize,
	})

	query := r.db.Model(&model.Collection{})

	if filter.Level != nil {
		query = query.Where("collections.level = ?", *filter.Level)
	}
	if filter.ParentID != nil {
		query = query.Where("collections.parent_collection_id = ?", *filter.ParentID)
	}
	if filter.Published != nil {
		query = query.Where("collections.published = ?", *filter.Published)
	}
	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("collections.name LIKE ? OR collections.description LIKE ?", like, like)
	}
	if filter.Tag != "" {
		// Tags are stored as a JSON array; a quoted-substring match
		// avoids a per-dialect JSON function.
		query = query.Where("collections.tags LIKE ?", fmt.Sprintf("%%%q%%", filter.Tag))
	}

	query = applySort(query, "collections", req, collectionSortColumns)

	var collections []model.Collection
	total, err := paginate(query, req, &collections)
	if err != nil {
		logger.Error("Failed to find collections with filter", err)
		return nil, 0, err
	}
	return collections, total, nil
}

func (r *collectionRepository) FindByID(id uint) (*model.Collection, error) {
	var collection model.Collection
	if err := r.db.First(&collection, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find collection by ID", err, map[string]interface{}{
				"collection_id": id,
			})
		}
		return nil, err
	}
	return &collection, nil
}

func (r *collectionRepository) FindByLevel(level int) ([]model.Collection, error) {
	var collections []model.Collection
	if err := r.db.Where("level = ?", level).Order("id ASC").Find(&collections).Error; err != nil {
		logger.Error("Failed to find collections by level", err, map[string]interface{}{
			"level": level,
		})
		return nil, err
	}
	return collections, nil
}

func (r *collectionRepository) FindByParent(parentID uint) ([]model.Collection, error) {
	var collections []model.Collection
	if err := r.db.Where("parent_collection_id = ?", parentID).Order("id ASC").Find(&collections).Error; err != nil {
		logger.Error("Failed to find collections by parent", err, map[string]interface{}{
			"parent_id": parentID,
		})
		return nil, err
	}
	return collections, nil
}

func (r *collectionRepository) CountChildren(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Collection{}).Where("parent_collection_id = ?", id).Count(&count).Error
	return count, err
}

func (r *collectionRepository) CountProducts(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("collection_id = ?", id).Count(&count).Error
	return count, err
}

// ProductCounts returns the number of live products per collection in
// one grouped query.
func (r *collectionRepository) ProductCounts() (map[uint]int64, error) {
	type row struct {
		CollectionID uint
		Count        int64
	}
	var rows []row
	err := r.db.Model(&model.Product{}).
		Select("collection_id, COUNT(*) AS count").
		Group("collection_id").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to count products per collection", err)
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.CollectionID] = r.Count
	}
	return counts, nil
}

// ProductAssignments returns product ids grouped by collection,
// straight from the authoritative collection_id column.
func (r *collectionRepository) ProductAssignments() (map[uint][]uint, error) {
	type row struct {
		ID           uint
		CollectionID uint
	}
	var rows []row
	err := r.db.Model(&model.Product{}).
		Select("id, collection_id").
		Order("id ASC").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to list product assignments", err)
		return nil, err
	}

	assignments := make(map[uint][]uint)
	for _, r := range rows {
		assignments[r.CollectionID] = append(assignments[r.CollectionID], r.ID)
	}
	return assignments, nil
}

func (r *collectionRepository) Update(collection *model.Collection) error {
	logger.Debug("Updating collection in database", map[string]interface{}{
		"collection_id": collection.ID,
	})

	if err := r.db.Save(collection).Error; err != nil {
		logger.Error("Failed to update collection in database", err, map[string]interface{}{
			"collection_id": collection.ID,
		})
		return err
	}
	return nil
}

// UpdateCachedIDs rewrites only the derived id-array columns, leaving
// UpdatedAt and the rest of the row untouched.
func (r *collectionRepository) UpdateCachedIDs(id uint, childIDs model.UintSlice, productIDs model.UintSlice) error {
	return r.db.Model(&model.Collection{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"child_collection_ids": childIDs,
			"product_ids":          productIDs,
		}).Error
}

func (r *collectionRepository) Delete(id uint) error {
	logger.Debug("Deleting collection from database", map[string]interface{}{
		"collection_id": id,
	})

	if err := r.db.Delete(&model.Collection{}, id).Error; err != nil {
		logger.Error("Failed to delete collection from database", err, map[string]interface{}{
			"collection_id": id,
		})
		return err
	}
	return nil
}
