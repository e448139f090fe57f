package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/minkwan/storefront-backend/internal/app/model"
	"github.com/minkwan/storefront-backend/internal/app/repository"
	"github.com/minkwan/storefront-backend/internal/app/service"
	"github.com/minkwan/storefront-backend/internal/db"
	"github.com/minkwan/storefront-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderControllerTest(t *testing.T) (*OrderController, *gin.Engine, *gorm.DB, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	statusRepo := repository.NewStatusRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	orderService := service.NewOrderService(orderRepo, productRepo, statusRepo, cartRepo, nil, nil, testDB)
	orderController := NewOrderController(orderService)

	user := &model.User{
		Email:        "buyer@example.com",
		PasswordHash: "hash",
		Name:         "Buyer",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	collection := &model.Collection{Name: "Tableware", Level: model.CollectionLevelRoot, Published: true}
	testDB.Create(collection)

	product := &model.Product{
		Name:         "Stoneware Mug",
		Price:        model.MoneyFromFloat(20),
		Stock:        10,
		CollectionID: collection.ID,
		Published:    true,
	}
	testDB.Create(product)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return orderController, router, testDB, user, product
}

func TestOrderController_CreateOrder_FromLines(t *testing.T) {
	controller, router, testDB, user, product := setupOrderControllerTest(t)

	router.POST("/orders", func(c *gin.Context) {
		c.Set(middleware.UserIDKey, user.ID)
		controller.CreateOrder(c)
	})

	jsonBody, _ := json.Marshal(CreateOrderRequest{
		Email:           user.Email,
		ShippingName:    "Buyer",
		ShippingAddress: "1 Main Street",
		Items:           []OrderLineRequest{{ProductID: product.ID, Quantity: 2}},
	})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var order model.Order
	require.NoError(t, testDB.Preload("Items").First(&order).Error)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Stoneware Mug", order.Items[0].ProductName)
	assert.True(t, order.TotalAmount.Equal(model.MoneyFromFloat(40)))
}

func TestOrderController_CreateOrder_GuestCheckout(t *testing.T) {
	controller, router, testDB, _, product := setupOrderControllerTest(t)

	router.POST("/orders", controller.CreateOrder)

	jsonBody, _ := json.Marshal(CreateOrderRequest{
		Email:           "guest@example.com",
		ShippingName:    "Guest",
		ShippingAddress: "2 Side Street",
		Items:           []OrderLineRequest{{ProductID: product.ID, Quantity: 1}},
	})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var order model.Order
	require.NoError(t, testDB.First(&order).Error)
	assert.Nil(t, order.UserID)
	assert.Equal(t, "guest@example.com", order.Email)
}

func TestOrderController_CreateOrder_UnknownProduct(t *testing.T) {
	controller, router, _, user, _ := setupOrderControllerTest(t)

	router.POST("/orders", func(c *gin.Context) {
		c.Set(middleware.UserIDKey, user.ID)
		controller.CreateOrder(c)
	})

	jsonBody, _ := json.Marshal(CreateOrderRequest{
		Email:           user.Email,
		ShippingName:    "Buyer",
		ShippingAddress: "1 Main Street",
		Items:           []OrderLineRequest{{ProductID: 9999, Quantity: 1}},
	})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderController_CreateOrder_MissingShipping(t *testing.T) {
	controller, router, _, user, product := setupOrderControllerTest(t)

	router.POST("/orders", func(c *gin.Context) {
		c.Set(middleware.UserIDKey, user.ID)
		controller.CreateOrder(c)
	})

	jsonBody, _ := json.Marshal(map[string]interface{}{
		"email": user.Email,
		"items": []OrderLineRequest{{ProductID: product.ID, Quantity: 1}},
	})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderController_GetOrderByID_OwnerScoped(t *testing.T) {
	controller, router, testDB, user, product := setupOrderControllerTest(t)

	other := &model.User{Email: "other@example.com", PasswordHash: "hash", Name: "Other", Role: model.RoleUser}
	testDB.Create(other)

	createOrder := func(c *gin.Context) {
		c.Set(middleware.UserIDKey, user.ID)
		controller.CreateOrder(c)
	}
	router.POST("/orders", createOrder)
	router.GET("/orders/:id", func(c *gin.Context) {
		c.Set(middleware.UserIDKey, other.ID)
		c.Set(middleware.UserRoleKey, model.RoleUser)
		controller.GetOrderByID(c)
	})

	jsonBody, _ := json.Marshal(CreateOrderRequest{
		Email:           user.Email,
		ShippingName:    "Buyer",
		ShippingAddress: "1 Main Street",
		Items:           []OrderLineRequest{{ProductID: product.ID, Quantity: 1}},
	})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var order model.Order
	require.NoError(t, testDB.First(&order).Error)

	// Another user must not see the order.
	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderController_UpdateStatus(t *testing.T) {
	controller, router, testDB, user, product := setupOrderControllerTest(t)

	router.POST("/orders", func(c *gin.Context) {
		c.Set(middleware.UserIDKey, user.ID)
		controller.CreateOrder(c)
	})
	router.PUT("/admin/orders/:id/status", controller.UpdateStatus)

	jsonBody, _ := json.Marshal(CreateOrderRequest{
		Email:           user.Email,
		ShippingName:    "Buyer",
		ShippingAddress: "1 Main Street",
		Items:           []OrderLineRequest{{ProductID: product.ID, Quantity: 1}},
	})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var order model.Order
	require.NoError(t, testDB.First(&order).Error)

	statusBody, _ := json.Marshal(UpdateOrderStatusRequest{Status: "Shipped"})
	req = httptest.NewRequest(http.MethodPut, fmt.Sprintf("/admin/orders/%d/status", order.ID), bytes.NewBuffer(statusBody))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	statusBody, _ = json.Marshal(UpdateOrderStatusRequest{Status: "NotAStatus"})
	req = httptest.NewRequest(http.MethodPut, fmt.Sprintf("/admin/orders/%d/status", order.ID), bytes.NewBuffer(statusBody))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderController_ListOrders_FilterByStatus(t *testing.T) {
	controller, router, _, user, product := setupOrderControllerTest(t)

	router.POST("/orders", func(c *gin.Context) {
		c.Set(middleware.UserIDKey, user.ID)
		controller.CreateOrder(c)
	})
	router.GET("/admin/orders", controller.ListOrders)

	jsonBody, _ := json.Marshal(CreateOrderRequest{
		Email:           user.Email,
		ShippingName:    "Buyer",
		ShippingAddress: "1 Main Street",
		Items:           []OrderLineRequest{{ProductID: product.ID, Quantity: 1}},
	})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/orders?status=Pending", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data struct {
			TotalRecords int64 `json:"totalRecords"`
		} `json:"data"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, int64(1), response.Data.TotalRecords)

	req = httptest.NewRequest(http.MethodGet, "/admin/orders?status=Shipped", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	err = json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, int64(0), response.Data.TotalRecords)
}
