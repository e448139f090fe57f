package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/minkwan/storefront-backend/internal/app/model"
	"github.com/minkwan/storefront-backend/internal/app/repository"
	"github.com/minkwan/storefront-backend/pkg/logger"
	"github.com/minkwan/storefront-backend/pkg/redis"
	"gorm.io/gorm"
)

var (
	ErrCollectionNotFound      = errors.New("collection not found")
	ErrInvalidCollectionLevel  = errors.New("invalid collection level")
	ErrInvalidParentCollection = errors.New("invalid parent collection")
	ErrCollectionHasChildren   = errors.New("collection still has child collections")
	ErrCollectionHasProducts   = errors.New("collection still has products")
)

const hierarchySnapshotTTL = 10 * time.Minute

// HierarchyNode is one collection in the nested storefront tree.
// ProductCount covers only products assigned directly to the node.
type HierarchyNode struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Level        int             `json:"level"`
	Published    bool            `json:"published"`
	ProductCount int64           `json:"product_count"`
	Children     []HierarchyNode `json:"children"`
}

// RefreshResult reports one cache rebuild pass.
type RefreshResult struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
}

type CollectionService interface {
	CreateCollection(collection *model.Collection) error
	GetCollectionByID(id uint) (*model.Collection, error)
	ListCollections(filter repository.CollectionFilter) ([]model.Collection, int64, error)
	UpdateCollection(collection *model.Collection) error
	DeleteCollection(id uint) error
	GetHierarchy(ctx context.Context) ([]HierarchyNode, error)
	RefreshAllParentChildRelationships(ctx context.Context) (RefreshResult, error)
	RefreshAllProductIDs(ctx context.Context) (RefreshResult, error)
}

type collectionService struct {
	collectionRepo repository.CollectionRepository
}

func NewCollectionService(collectionRepo repository.CollectionRepository) CollectionService {
	return &collectionService{collectionRepo: collectionRepo}
}

// validateHierarchy enforces the three-level shape: roots have no
// parent, and every other collection hangs off a parent exactly one
// level up.
func (s *collectionService) validateHierarchy(collection *model.Collection) error {
	if !model.ValidLevel(collection.Level) {
		return ErrInvalidCollectionLevel
	}

	if collection.Level == model.CollectionLevelRoot {
		if collection.ParentCollectionID != nil {
			return ErrInvalidParentCollection
		}
		return nil
	}

	if collection.ParentCollectionID == nil {
		return ErrInvalidParentCollection
	}
	if collection.ID != 0 && *collection.ParentCollectionID == collection.ID {
		return ErrInvalidParentCollection
	}

	parent, err := s.collectionRepo.FindByID(*collection.ParentCollectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidParentCollection
		}
		return err
	}
	if parent.Level != collection.Level-1 {
		return ErrInvalidParentCollection
	}
	return nil
}

func (s *collectionService) CreateCollection(collection *model.Collection) error {
	logger.Info("Creating collection", map[string]interface{}{
		"name":   collection.Name,
		"level":  collection.Level,
		"parent": collection.ParentCollectionID,
	})

	if err := s.validateHierarchy(collection); err != nil {
		logger.Warn("Collection failed hierarchy validation", map[string]interface{}{
			"name":  collection.Name,
			"level": collection.Level,
		})
		return err
	}

	collection.ChildCollectionIDs = model.UintSlice{}
	collection.ProductIDs = model.UintSlice{}

	if err := s.collectionRepo.Create(collection); err != nil {
		return err
	}

	if collection.ParentCollectionID != nil {
		if err := s.refreshParentChildCache(*collection.ParentCollectionID); err != nil {
			logger.Warn("Failed to refresh parent child cache after create", map[string]interface{}{
				"parent_id": *collection.ParentCollectionID,
			})
		}
	}

	s.invalidateHierarchy()
	return nil
}

func (s *collectionService) GetCollectionByID(id uint) (*model.Collection, error) {
	collection, err := s.collectionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollectionNotFound
		}
		return nil, err
	}
	return collection, nil
}

func (s *collectionService) ListCollections(filter repository.CollectionFilter) ([]model.Collection, int64, error) {
	return s.collectionRepo.FindWithFilter(filter)
}

func (s *collectionService) UpdateCollection(collection *model.Collection) error {
	existing, err := s.GetCollectionByID(collection.ID)
	if err != nil {
		return err
	}

	if err := s.validateHierarchy(collection); err != nil {
		return err
	}

	// A level change is only legal while nothing hangs below the node,
	// otherwise the children would no longer sit one level down.
	if collection.Level != existing.Level {
		childCount, err := s.collectionRepo.CountChildren(collection.ID)
		if err != nil {
			return err
		}
		if childCount > 0 {
			return ErrInvalidCollectionLevel
		}
	}

	// The cached arrays are derived; an update never overwrites them
	// with client-supplied values.
	collection.ChildCollectionIDs = existing.ChildCollectionIDs
	collection.ProductIDs = existing.ProductIDs

	if err := s.collectionRepo.Update(collection); err != nil {
		return err
	}

	// Reparenting moves the id between two parents' caches.
	oldParent := existing.ParentCollectionID
	newParent := collection.ParentCollectionID
	if !equalParent(oldParent, newParent) {
		if oldParent != nil {
			s.refreshParentChildCacheLogged(*oldParent)
		}
		if newParent != nil {
			s.refreshParentChildCacheLogged(*newParent)
		}
	}

	s.invalidateHierarchy()
	return nil
}

func equalParent(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s *collectionService) DeleteCollection(id uint) error {
	existing, err := s.GetCollectionByID(id)
	if err != nil {
		return err
	}

	childCount, err := s.collectionRepo.CountChildren(id)
	if err != nil {
		return err
	}
	if childCount > 0 {
		logger.Warn("Refusing to delete collection with children", map[string]interface{}{
			"collection_id": id,
			"children":      childCount,
		})
		return ErrCollectionHasChildren
	}

	productCount, err := s.collectionRepo.CountProducts(id)
	if err != nil {
		return err
	}
	if productCount > 0 {
		logger.Warn("Refusing to delete collection with products", map[string]interface{}{
			"collection_id": id,
			"products":      productCount,
		})
		return ErrCollectionHasProducts
	}

	if err := s.collectionRepo.Delete(id); err != nil {
		return err
	}

	if existing.ParentCollectionID != nil {
		s.refreshParentChildCacheLogged(*existing.ParentCollectionID)
	}

	s.invalidateHierarchy()
	return nil
}

// refreshParentChildCache recomputes one parent's cached child id list
// from the authoritative parent_collection_id column.
func (s *collectionService) refreshParentChildCache(parentID uint) error {
	parent, err := s.collectionRepo.FindByID(parentID)
	if err != nil {
		return err
	}

	children, err := s.collectionRepo.FindByParent(parentID)
	if err != nil {
		return err
	}

	childIDs := make(model.UintSlice, 0, len(children))
	for _, child := range children {
		childIDs = append(childIDs, child.ID)
	}

	return s.collectionRepo.UpdateCachedIDs(parentID, childIDs, parent.ProductIDs)
}

func (s *collectionService) refreshParentChildCacheLogged(parentID uint) {
	if err := s.refreshParentChildCache(parentID); err != nil {
		logger.Warn("Failed to refresh parent child cache", map[string]interface{}{
			"parent_id": parentID,
		})
	}
}

// RefreshAllParentChildRelationships rebuilds every collection's
// cached child id list from the FK column. Rows already in sync are
// left untouched; one bad row does not abort the sweep.
func (s *collectionService) RefreshAllParentChildRelationships(ctx context.Context) (RefreshResult, error) {
	collections, err := s.collectionRepo.FindAll()
	if err != nil {
		return RefreshResult{}, err
	}

	childrenByParent := make(map[uint]model.UintSlice)
	for _, collection := range collections {
		if collection.ParentCollectionID == nil {
			continue
		}
		parentID := *collection.ParentCollectionID
		childrenByParent[parentID] = append(childrenByParent[parentID], collection.ID)
	}

	result := RefreshResult{Scanned: len(collections)}
	for _, collection := range collections {
		expected := childrenByParent[collection.ID]
		if expected == nil {
			expected = model.UintSlice{}
		}
		if collection.ChildCollectionIDs.EqualSet(expected) {
			continue
		}

		if err := s.collectionRepo.UpdateCachedIDs(collection.ID, expected, collection.ProductIDs); err != nil {
			logger.Error("Failed to refresh child id cache", err, map[string]interface{}{
				"collection_id": collection.ID,
			})
			continue
		}
		result.Updated++
	}

	logger.Info("Refreshed parent-child relationship caches", map[string]interface{}{
		"scanned": result.Scanned,
		"updated": result.Updated,
	})
	s.invalidateHierarchy()
	return result, nil
}

// RefreshAllProductIDs rebuilds every collection's cached product id
// list from products.collection_id.
func (s *collectionService) RefreshAllProductIDs(ctx context.Context) (RefreshResult, error) {
	collections, err := s.collectionRepo.FindAll()
	if err != nil {
		return RefreshResult{}, err
	}

	assignments, err := s.collectionRepo.ProductAssignments()
	if err != nil {
		return RefreshResult{}, err
	}

	result := RefreshResult{Scanned: len(collections)}
	for _, collection := range collections {
		expected := model.UintSlice(assignments[collection.ID])
		if expected == nil {
			expected = model.UintSlice{}
		}
		if collection.ProductIDs.EqualSet(expected) {
			continue
		}

		if err := s.collectionRepo.UpdateCachedIDs(collection.ID, collection.ChildCollectionIDs, expected); err != nil {
			logger.Error("Failed to refresh product id cache", err, map[string]interface{}{
				"collection_id": collection.ID,
			})
			continue
		}
		result.Updated++
	}

	logger.Info("Refreshed product id caches", map[string]interface{}{
		"scanned": result.Scanned,
		"updated": result.Updated,
	})
	s.invalidateHierarchy()
	return result, nil
}

// GetHierarchy returns the nested collection tree. The tree is built
// from the parent FK adjacency, never from the cached id arrays, and
// memoized in redis for a few minutes.
func (s *collectionService) GetHierarchy(ctx context.Context) ([]HierarchyNode, error) {
	if payload, err := redis.GetHierarchySnapshot(ctx); err == nil && payload != nil {
		var cached []HierarchyNode
		if err := json.Unmarshal(payload, &cached); err == nil {
			logger.Debug("Hierarchy served from cache")
			return cached, nil
		}
		logger.Warn("Discarding unreadable hierarchy snapshot")
	}

	collections, err := s.collectionRepo.FindAll()
	if err != nil {
		return nil, err
	}

	counts, err := s.collectionRepo.ProductCounts()
	if err != nil {
		return nil, err
	}

	tree := buildHierarchy(collections, counts)

	if payload, err := json.Marshal(tree); err == nil {
		if err := redis.SetHierarchySnapshot(ctx, payload, hierarchySnapshotTTL); err != nil {
			logger.Debug("Failed to cache hierarchy snapshot")
		}
	}
	return tree, nil
}

func buildHierarchy(collections []model.Collection, counts map[uint]int64) []HierarchyNode {
	childrenOf := make(map[uint][]model.Collection)
	var roots []model.Collection
	for _, collection := range collections {
		if collection.ParentCollectionID == nil {
			roots = append(roots, collection)
			continue
		}
		parentID := *collection.ParentCollectionID
		childrenOf[parentID] = append(childrenOf[parentID], collection)
	}

	var build func(collection model.Collection) HierarchyNode
	build = func(collection model.Collection) HierarchyNode {
		node := HierarchyNode{
			ID:           collection.ID,
			Name:         collection.Name,
			Level:        collection.Level,
			Published:    collection.Published,
			ProductCount: counts[collection.ID],
			Children:     []HierarchyNode{},
		}
		for _, child := range childrenOf[collection.ID] {
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	tree := make([]HierarchyNode, 0, len(roots))
	for _, root := range roots {
		tree = append(tree, build(root))
	}
	return tree
}

func (s *collectionService) invalidateHierarchy() {
	if err := redis.InvalidateHierarchySnapshot(context.Background()); err != nil {
		logger.Debug("Failed to invalidate hierarchy snapshot")
	}
}
