package repository

import (
	"testing"

	"github.com/minkwan/storefront-backend/internal/app/model"
	"github.com/minkwan/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartTest(t *testing.T) (*gorm.DB, CartRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewCartRepository(testDB)
	return testDB, repo
}

func createCartTestProduct(t *testing.T, testDB *gorm.DB, name string, price float64) *model.Product {
	collection := &model.Collection{Name: "Shop", Level: model.CollectionLevelRoot}
	require.NoError(t, testDB.FirstOrCreate(collection, model.Collection{Name: "Shop"}).Error)

	product := &model.Product{
		Name:         name,
		Price:        model.MoneyFromFloat(price),
		Stock:        10,
		CollectionID: collection.ID,
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func TestCartRepository_FindOrCreateByUser(t *testing.T) {
	testDB, repo := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{Email: "shopper@example.com", PasswordHash: "x", Name: "Shopper"}
	require.NoError(t, testDB.Create(user).Error)

	cart, err := repo.FindOrCreateByUser(user.ID)
	require.NoError(t, err)
	require.NotNil(t, cart.UserID)
	assert.Equal(t, user.ID, *cart.UserID)

	// A second call returns the same cart instead of creating another.
	again, err := repo.FindOrCreateByUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestCartRepository_FindOrCreateBySession(t *testing.T) {
	testDB, repo := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cart, err := repo.FindOrCreateBySession("guest-session-1")
	require.NoError(t, err)
	require.NotNil(t, cart.SessionID)
	assert.Equal(t, "guest-session-1", *cart.SessionID)
	assert.Nil(t, cart.UserID)

	again, err := repo.FindOrCreateBySession("guest-session-1")
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)

	other, err := repo.FindOrCreateBySession("guest-session-2")
	require.NoError(t, err)
	assert.NotEqual(t, cart.ID, other.ID)
}

func TestCartRepository_ItemLifecycle(t *testing.T) {
	testDB, repo := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cart, err := repo.FindOrCreateBySession("guest-session-1")
	require.NoError(t, err)
	product := createCartTestProduct(t, testDB, "Mug", 12.00)

	item := &model.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 2}
	require.NoError(t, repo.CreateItem(item))

	found, err := repo.FindItem(cart.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.Quantity)

	found.Quantity = 5
	require.NoError(t, repo.UpdateItem(found))

	byID, err := repo.FindItemByID(found.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, byID.Quantity)
	assert.Equal(t, "Mug", byID.Product.Name)

	require.NoError(t, repo.DeleteItem(found.ID))
	_, err = repo.FindItem(cart.ID, product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCartRepository_DeleteItemsKeepsCart(t *testing.T) {
	testDB, repo := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cart, err := repo.FindOrCreateBySession("guest-session-1")
	require.NoError(t, err)
	product := createCartTestProduct(t, testDB, "Mug", 12.00)

	require.NoError(t, repo.CreateItem(&model.CartItem{
		CartID: cart.ID, ProductID: product.ID, Quantity: 1,
	}))

	require.NoError(t, repo.DeleteItemsByCart(cart.ID))

	reloaded, err := repo.FindBySession("guest-session-1")
	require.NoError(t, err)
	assert.Equal(t, cart.ID, reloaded.ID)
	assert.Empty(t, reloaded.Items)
}

func TestCartRepository_DeleteCart(t *testing.T) {
	testDB, repo := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cart, err := repo.FindOrCreateBySession("guest-session-1")
	require.NoError(t, err)

	require.NoError(t, repo.DeleteCart(cart.ID))

	_, err = repo.FindBySession("guest-session-1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
