package controller

import (
	"bytes"
	"encoding/json"
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

func setupCartControllerTest(t *testing.T) (*CartController, *gin.Engine, *gorm.DB, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := service.NewCartService(cartRepo, productRepo)
	cartController := NewCartController(cartService)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	collection := &model.Collection{
		Name:      "Tableware",
		Level:     model.CollectionLevelRoot,
		Published: true,
	}
	testDB.Create(collection)

	product := &model.Product{
		Name:         "Stoneware Mug",
		Price:        model.MoneyFromFloat(18.50),
		Stock:        10,
		CollectionID: collection.ID,
		Published:    true,
	}
	testDB.Create(product)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return cartController, router, testDB, user, product
}

func setUserIDInContext(c *gin.Context, userID uint) {
	c.Set(middleware.UserIDKey, userID)
}

func setSessionIDInContext(c *gin.Context, sessionID string) {
	c.Set(middleware.SessionIDKey, sessionID)
}

func TestCartController_GetCart_User(t *testing.T) {
	controller, router, _, user, product := setupCartControllerTest(t)

	router.POST("/cart/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddToCart(c)
	})
	router.GET("/cart", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetCart(c)
	})

	jsonBody, _ := json.Marshal(AddToCartRequest{ProductID: product.ID, Quantity: 2})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/cart", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			TotalItems int     `json:"total_items"`
			TotalPrice float64 `json:"total_price"`
		} `json:"data"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.True(t, response.Success)
	assert.Equal(t, 2, response.Data.TotalItems)
	assert.Equal(t, 37.0, response.Data.TotalPrice) // 18.50 * 2
}

func TestCartController_GetCart_Guest(t *testing.T) {
	controller, router, _, _, product := setupCartControllerTest(t)

	const sessionID = "guest-session-1"
	router.POST("/cart/items", func(c *gin.Context) {
		setSessionIDInContext(c, sessionID)
		controller.AddToCart(c)
	})
	router.GET("/cart", func(c *gin.Context) {
		setSessionIDInContext(c, sessionID)
		controller.GetCart(c)
	})

	jsonBody, _ := json.Marshal(AddToCartRequest{ProductID: product.ID, Quantity: 1})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/cart", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCartController_GetCart_NoIdentity(t *testing.T) {
	controller, router, _, _, _ := setupCartControllerTest(t)

	router.GET("/cart", controller.GetCart)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartController_AddToCart_ProductNotFound(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)

	router.POST("/cart/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddToCart(c)
	})

	jsonBody, _ := json.Marshal(AddToCartRequest{ProductID: 9999, Quantity: 2})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartController_AddToCart_InsufficientStock(t *testing.T) {
	controller, router, _, user, product := setupCartControllerTest(t)

	router.POST("/cart/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddToCart(c)
	})

	jsonBody, _ := json.Marshal(AddToCartRequest{ProductID: product.ID, Quantity: 100})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCartController_AddToCart_InvalidRequest(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)

	router.POST("/cart/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddToCart(c)
	})

	tests := []struct {
		name    string
		reqBody map[string]interface{}
	}{
		{name: "Missing product_id", reqBody: map[string]interface{}{"quantity": 2}},
		{name: "Missing quantity", reqBody: map[string]interface{}{"product_id": 1}},
		{name: "Zero quantity", reqBody: map[string]interface{}{"product_id": 1, "quantity": 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jsonBody, _ := json.Marshal(tt.reqBody)
			req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewBuffer(jsonBody))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCartController_UpdateItem_NotFound(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)

	router.PUT("/cart/items/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.UpdateItem(c)
	})

	jsonBody, _ := json.Marshal(UpdateCartItemRequest{Quantity: 5})
	req := httptest.NewRequest(http.MethodPut, "/cart/items/9999", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartController_UpdateItem_InvalidID(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)

	router.PUT("/cart/items/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.UpdateItem(c)
	})

	jsonBody, _ := json.Marshal(UpdateCartItemRequest{Quantity: 5})
	req := httptest.NewRequest(http.MethodPut, "/cart/items/invalid", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartController_ClearCart(t *testing.T) {
	controller, router, testDB, user, product := setupCartControllerTest(t)

	router.POST("/cart/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddToCart(c)
	})
	router.DELETE("/cart", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.ClearCart(c)
	})

	jsonBody, _ := json.Marshal(AddToCartRequest{ProductID: product.ID, Quantity: 2})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/cart", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	testDB.Model(&model.CartItem{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCartController_MergeGuestCart(t *testing.T) {
	controller, router, _, user, product := setupCartControllerTest(t)

	const sessionID = "guest-session-merge"
	router.POST("/cart/items", func(c *gin.Context) {
		setSessionIDInContext(c, sessionID)
		controller.AddToCart(c)
	})
	router.POST("/cart/merge", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		setSessionIDInContext(c, sessionID)
		controller.MergeGuestCart(c)
	})

	jsonBody, _ := json.Marshal(AddToCartRequest{ProductID: product.ID, Quantity: 3})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/cart/merge", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data struct {
			TotalItems int `json:"total_items"`
		} `json:"data"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, 3, response.Data.TotalItems)
}

func TestCartController_MergeGuestCart_Unauthenticated(t *testing.T) {
	controller, router, _, _, _ := setupCartControllerTest(t)

	router.POST("/cart/merge", func(c *gin.Context) {
		setSessionIDInContext(c, "some-session")
		controller.MergeGuestCart(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/cart/merge", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
