package service

import (
	"testing"

	"github.com/minkwan/storefront-backend/internal/app/model"
	"github.com/minkwan/storefront-backend/internal/app/repository"
	"github.com/minkwan/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	created       []uint
	statusChanged []uint
}

func (n *recordingNotifier) NotifyOrderCreated(order *model.Order) {
	n.created = append(n.created, order.ID)
}

func (n *recordingNotifier) NotifyOrderStatusChanged(order *model.Order) {
	n.statusChanged = append(n.statusChanged, order.ID)
}

func setupOrderServiceTest(t *testing.T) (OrderService, CartService, *recordingNotifier, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	statusRepo := repository.NewStatusRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)

	notifier := &recordingNotifier{}
	orderService := NewOrderService(orderRepo, productRepo, statusRepo, cartRepo, nil, notifier, testDB)
	cartService := NewCartService(cartRepo, productRepo)

	return orderService, cartService, notifier, testDB
}

func createOrderTestProduct(t *testing.T, testDB *gorm.DB, name string, price float64, stock int) *model.Product {
	collection := &model.Collection{Name: "Shop", Level: model.CollectionLevelRoot}
	require.NoError(t, testDB.FirstOrCreate(collection, model.Collection{Name: "Shop"}).Error)

	product := &model.Product{
		Name:         name,
		Price:        model.MoneyFromFloat(price),
		Stock:        stock,
		CollectionID: collection.ID,
		Published:    true,
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func shippingInput() CreateOrderInput {
	return CreateOrderInput{
		Email:           "buyer@example.com",
		ShippingName:    "Pat Buyer",
		ShippingAddress: "1 Main St",
		Phone:           "555-0100",
	}
}

func TestOrderService_CreateOrder_FreezesPrices(t *testing.T) {
	orderService, _, notifier, testDB := setupOrderServiceTest(t)

	mug := createOrderTestProduct(t, testDB, "Mug", 20.00, 10)
	coaster := createOrderTestProduct(t, testDB, "Coaster", 15.00, 10)

	input := shippingInput()
	input.Items = []OrderLineInput{
		{ProductID: mug.ID, Quantity: 2},
		{ProductID: coaster.ID, Quantity: 1},
	}

	order, err := orderService.CreateOrder(input)
	require.NoError(t, err)
	assert.NotEmpty(t, order.OrderNumber)
	assert.Equal(t, model.StatusPending, order.Status.Name)
	assert.True(t, order.TotalAmount.Equal(model.MoneyFromFloat(55.00)))
	require.Len(t, order.Items, 2)
	require.Len(t, notifier.created, 1)

	// A later price change leaves the snapshot untouched.
	require.NoError(t, testDB.Model(&model.Product{}).
		Where("id = ?", mug.ID).
		Update("price", model.MoneyFromFloat(99.00)).Error)

	reloaded, err := orderService.GetOrderByID(order.ID, nil)
	require.NoError(t, err)
	assert.True(t, reloaded.Items[0].PriceAtPurchase.Equal(model.MoneyFromFloat(20.00)))
	assert.True(t, reloaded.TotalAmount.Equal(model.MoneyFromFloat(55.00)))
}

func TestOrderService_CreateOrder_DoesNotTouchStock(t *testing.T) {
	orderService, _, _, testDB := setupOrderServiceTest(t)

	mug := createOrderTestProduct(t, testDB, "Mug", 20.00, 10)

	input := shippingInput()
	input.Items = []OrderLineInput{{ProductID: mug.ID, Quantity: 3}}

	_, err := orderService.CreateOrder(input)
	require.NoError(t, err)

	var product model.Product
	require.NoError(t, testDB.First(&product, mug.ID).Error)
	assert.Equal(t, 10, product.Stock)
}

func TestOrderService_CreateOrder_UnknownProductLeavesNothingBehind(t *testing.T) {
	orderService, _, _, testDB := setupOrderServiceTest(t)

	mug := createOrderTestProduct(t, testDB, "Mug", 20.00, 10)

	input := shippingInput()
	input.Items = []OrderLineInput{
		{ProductID: mug.ID, Quantity: 1},
		{ProductID: 9999, Quantity: 1},
	}

	_, err := orderService.CreateOrder(input)
	assert.ErrorIs(t, err, ErrProductNotFound)

	var orders, items int64
	require.NoError(t, testDB.Model(&model.Order{}).Count(&orders).Error)
	require.NoError(t, testDB.Model(&model.OrderItem{}).Count(&items).Error)
	assert.Zero(t, orders)
	assert.Zero(t, items)
}

func TestOrderService_CreateOrder_Validation(t *testing.T) {
	orderService, _, _, testDB := setupOrderServiceTest(t)

	mug := createOrderTestProduct(t, testDB, "Mug", 20.00, 10)

	input := shippingInput()
	input.Items = nil
	_, err := orderService.CreateOrder(input)
	assert.ErrorIs(t, err, ErrEmptyOrder)

	input = shippingInput()
	input.Items = []OrderLineInput{{ProductID: mug.ID, Quantity: 0}}
	_, err = orderService.CreateOrder(input)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	input = shippingInput()
	input.Email = ""
	input.Items = []OrderLineInput{{ProductID: mug.ID, Quantity: 1}}
	_, err = orderService.CreateOrder(input)
	assert.ErrorIs(t, err, ErrShippingRequired)
}

func TestOrderService_CreateOrderFromCart(t *testing.T) {
	orderService, cartService, _, testDB := setupOrderServiceTest(t)

	mug := createOrderTestProduct(t, testDB, "Mug", 10.00, 10)
	owner := guestOwner("sess-1")

	_, err := cartService.AddToCart(owner, mug.ID, 2)
	require.NoError(t, err)

	order, err := orderService.CreateOrderFromCart(owner, shippingInput())
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.Equal(model.MoneyFromFloat(20.00)))

	// The cart is emptied but survives.
	view, err := cartService.GetCart(owner)
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	// An empty cart cannot produce an order.
	_, err = orderService.CreateOrderFromCart(owner, shippingInput())
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestOrderService_GetOrderByID_OwnerScoped(t *testing.T) {
	orderService, _, _, testDB := setupOrderServiceTest(t)

	user := &model.User{Email: "owner@example.com", PasswordHash: "x", Name: "Owner"}
	require.NoError(t, testDB.Create(user).Error)
	stranger := &model.User{Email: "other@example.com", PasswordHash: "x", Name: "Other"}
	require.NoError(t, testDB.Create(stranger).Error)

	mug := createOrderTestProduct(t, testDB, "Mug", 10.00, 10)

	input := shippingInput()
	input.UserID = &user.ID
	input.Items = []OrderLineInput{{ProductID: mug.ID, Quantity: 1}}
	order, err := orderService.CreateOrder(input)
	require.NoError(t, err)

	_, err = orderService.GetOrderByID(order.ID, &user.ID)
	assert.NoError(t, err)

	_, err = orderService.GetOrderByID(order.ID, &stranger.ID)
	assert.ErrorIs(t, err, ErrOrderNotOwned)

	_, err = orderService.GetOrderByID(9999, nil)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	orderService, _, notifier, testDB := setupOrderServiceTest(t)

	mug := createOrderTestProduct(t, testDB, "Mug", 10.00, 10)
	input := shippingInput()
	input.Items = []OrderLineInput{{ProductID: mug.ID, Quantity: 1}}
	order, err := orderService.CreateOrder(input)
	require.NoError(t, err)

	updated, err := orderService.UpdateOrderStatus(order.ID, "Shipped")
	require.NoError(t, err)
	assert.Equal(t, "Shipped", updated.Status.Name)
	require.Len(t, notifier.statusChanged, 1)

	_, err = orderService.UpdateOrderStatus(order.ID, "NotAStatus")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = orderService.UpdateOrderStatus(9999, "Shipped")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
