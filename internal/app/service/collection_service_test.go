package service

import (
	"context"
	"testing"

	"github.com/minkwan/storefront-backend/internal/app/model"
	"github.com/minkwan/storefront-backend/internal/app/repository"
	"github.com/minkwan/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCollectionServiceTest(t *testing.T) (CollectionService, repository.CollectionRepository, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	collectionRepo := repository.NewCollectionRepository(testDB)
	return NewCollectionService(collectionRepo), collectionRepo, testDB
}

func mustCreateCollection(t *testing.T, svc CollectionService, name string, level int, parentID *uint) *model.Collection {
	collection := &model.Collection{
		Name:               name,
		Level:              level,
		ParentCollectionID: parentID,
		Published:          true,
	}
	require.NoError(t, svc.CreateCollection(collection))
	return collection
}

func TestCollectionService_HierarchyValidation(t *testing.T) {
	svc, _, _ := setupCollectionServiceTest(t)

	// A root with a parent is rejected.
	root := mustCreateCollection(t, svc, "Homeware", model.CollectionLevelRoot, nil)
	err := svc.CreateCollection(&model.Collection{
		Name:               "Bad Root",
		Level:              model.CollectionLevelRoot,
		ParentCollectionID: &root.ID,
	})
	assert.ErrorIs(t, err, ErrInvalidParentCollection)

	// A non-root without a parent is rejected.
	err = svc.CreateCollection(&model.Collection{
		Name:  "Orphan Category",
		Level: model.CollectionLevelCategory,
	})
	assert.ErrorIs(t, err, ErrInvalidParentCollection)

	// A level outside 1..3 is rejected.
	err = svc.CreateCollection(&model.Collection{Name: "Too Deep", Level: 4})
	assert.ErrorIs(t, err, ErrInvalidCollectionLevel)

	// A subcategory must hang off a category, not a root.
	err = svc.CreateCollection(&model.Collection{
		Name:               "Skipped Level",
		Level:              model.CollectionLevelSubcategory,
		ParentCollectionID: &root.ID,
	})
	assert.ErrorIs(t, err, ErrInvalidParentCollection)

	// The correct chain works.
	category := mustCreateCollection(t, svc, "Kitchen", model.CollectionLevelCategory, &root.ID)
	mustCreateCollection(t, svc, "Mugs", model.CollectionLevelSubcategory, &category.ID)
}

func TestCollectionService_CreateUpdatesParentCache(t *testing.T) {
	svc, repo, _ := setupCollectionServiceTest(t)

	root := mustCreateCollection(t, svc, "Homeware", model.CollectionLevelRoot, nil)
	category := mustCreateCollection(t, svc, "Kitchen", model.CollectionLevelCategory, &root.ID)

	reloaded, err := repo.FindByID(root.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.ChildCollectionIDs.EqualSet(model.UintSlice{category.ID}))
}

func TestCollectionService_DeleteGuards(t *testing.T) {
	svc, _, testDB := setupCollectionServiceTest(t)

	root := mustCreateCollection(t, svc, "Homeware", model.CollectionLevelRoot, nil)
	category := mustCreateCollection(t, svc, "Kitchen", model.CollectionLevelCategory, &root.ID)

	// A parent with children cannot be deleted, and nothing is removed.
	err := svc.DeleteCollection(root.ID)
	assert.ErrorIs(t, err, ErrCollectionHasChildren)

	var count int64
	require.NoError(t, testDB.Model(&model.Collection{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	// A collection with products cannot be deleted either.
	require.NoError(t, testDB.Create(&model.Product{
		Name:         "Mug",
		Price:        model.MoneyFromFloat(10),
		CollectionID: category.ID,
	}).Error)

	err = svc.DeleteCollection(category.ID)
	assert.ErrorIs(t, err, ErrCollectionHasProducts)

	require.NoError(t, testDB.Model(&model.Collection{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestCollectionService_DeleteLeaf(t *testing.T) {
	svc, repo, _ := setupCollectionServiceTest(t)

	root := mustCreateCollection(t, svc, "Homeware", model.CollectionLevelRoot, nil)
	category := mustCreateCollection(t, svc, "Kitchen", model.CollectionLevelCategory, &root.ID)

	require.NoError(t, svc.DeleteCollection(category.ID))

	_, err := svc.GetCollectionByID(category.ID)
	assert.ErrorIs(t, err, ErrCollectionNotFound)

	// The parent's cached child list no longer carries the id.
	reloaded, err := repo.FindByID(root.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.ChildCollectionIDs)
}

func TestCollectionService_RefreshAllParentChildRelationships(t *testing.T) {
	svc, repo, testDB := setupCollectionServiceTest(t)

	root := mustCreateCollection(t, svc, "Homeware", model.CollectionLevelRoot, nil)
	category := mustCreateCollection(t, svc, "Kitchen", model.CollectionLevelCategory, &root.ID)

	// Corrupt the cache behind the service's back.
	require.NoError(t, testDB.Exec(
		"UPDATE collections SET child_collection_ids = ? WHERE id = ?", `[999]`, root.ID,
	).Error)

	result, err := svc.RefreshAllParentChildRelationships(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Scanned)
	assert.Equal(t, 1, result.Updated)

	reloaded, err := repo.FindByID(root.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.ChildCollectionIDs.EqualSet(model.UintSlice{category.ID}))

	// A second pass finds everything in sync.
	result, err = svc.RefreshAllParentChildRelationships(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Updated)
}

func TestCollectionService_RefreshAllProductIDs(t *testing.T) {
	svc, repo, testDB := setupCollectionServiceTest(t)

	root := mustCreateCollection(t, svc, "Homeware", model.CollectionLevelRoot, nil)

	first := &model.Product{Name: "Mug", Price: model.MoneyFromFloat(10), CollectionID: root.ID}
	second := &model.Product{Name: "Bowl", Price: model.MoneyFromFloat(12), CollectionID: root.ID}
	require.NoError(t, testDB.Create(first).Error)
	require.NoError(t, testDB.Create(second).Error)

	result, err := svc.RefreshAllProductIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	reloaded, err := repo.FindByID(root.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.ProductIDs.EqualSet(model.UintSlice{first.ID, second.ID}))

	// Reassigning a product is picked up by the next pass.
	category := mustCreateCollection(t, svc, "Kitchen", model.CollectionLevelCategory, &root.ID)
	require.NoError(t, testDB.Model(&model.Product{}).
		Where("id = ?", second.ID).
		Update("collection_id", category.ID).Error)

	result, err = svc.RefreshAllProductIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Updated)

	reloaded, err = repo.FindByID(root.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.ProductIDs.EqualSet(model.UintSlice{first.ID}))
}

func TestCollectionService_GetHierarchy(t *testing.T) {
	svc, _, testDB := setupCollectionServiceTest(t)

	root := mustCreateCollection(t, svc, "Homeware", model.CollectionLevelRoot, nil)
	category := mustCreateCollection(t, svc, "Kitchen", model.CollectionLevelCategory, &root.ID)
	sub := mustCreateCollection(t, svc, "Mugs", model.CollectionLevelSubcategory, &category.ID)

	require.NoError(t, testDB.Create(&model.Product{
		Name:         "Mug",
		Price:        model.MoneyFromFloat(10),
		CollectionID: sub.ID,
	}).Error)

	tree, err := svc.GetHierarchy(context.Background())
	require.NoError(t, err)
	require.Len(t, tree, 1)

	assert.Equal(t, "Homeware", tree[0].Name)
	assert.Zero(t, tree[0].ProductCount)
	require.Len(t, tree[0].Children, 1)

	kitchen := tree[0].Children[0]
	assert.Equal(t, "Kitchen", kitchen.Name)
	require.Len(t, kitchen.Children, 1)

	mugs := kitchen.Children[0]
	assert.Equal(t, "Mugs", mugs.Name)
	assert.Equal(t, int64(1), mugs.ProductCount)
	assert.Empty(t, mugs.Children)
}

func TestCollectionService_UpdateKeepsDerivedCaches(t *testing.T) {
	svc, repo, _ := setupCollectionServiceTest(t)

	root := mustCreateCollection(t, svc, "Homeware", model.CollectionLevelRoot, nil)
	category := mustCreateCollection(t, svc, "Kitchen", model.CollectionLevelCategory, &root.ID)

	// A client-side update that tries to smuggle in cache contents is
	// ignored; the stored caches survive.
	update := &model.Collection{
		ID:                 root.ID,
		Name:               "Home & Living",
		Level:              model.CollectionLevelRoot,
		ChildCollectionIDs: model.UintSlice{42},
		Published:          true,
	}
	require.NoError(t, svc.UpdateCollection(update))

	reloaded, err := repo.FindByID(root.ID)
	require.NoError(t, err)
	assert.Equal(t, "Home & Living", reloaded.Name)
	assert.True(t, reloaded.ChildCollectionIDs.EqualSet(model.UintSlice{category.ID}))
}
