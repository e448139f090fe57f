package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

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

func setupAuthControllerTest(t *testing.T) (*AuthController, *gin.Engine, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	authService := service.NewAuthService(userRepo, "test-secret", 15*time.Minute, 168*time.Hour)
	authController := NewAuthController(authService)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return authController, router, testDB
}

func TestAuthController_Register(t *testing.T) {
	controller, router, testDB := setupAuthControllerTest(t)

	router.POST("/auth/register", controller.Register)

	jsonBody, _ := json.Marshal(RegisterRequest{
		Email:    "new@example.com",
		Password: "password123",
		Name:     "New User",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			Tokens struct {
				AccessToken string `json:"access_token"`
			} `json:"tokens"`
		} `json:"data"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.True(t, response.Success)
	assert.NotEmpty(t, response.Data.Tokens.AccessToken)

	var user model.User
	require.NoError(t, testDB.Where("email = ?", "new@example.com").First(&user).Error)
	assert.Equal(t, model.RoleUser, user.Role)
}

func TestAuthController_Register_DuplicateEmail(t *testing.T) {
	controller, router, _ := setupAuthControllerTest(t)

	router.POST("/auth/register", controller.Register)

	jsonBody, _ := json.Marshal(RegisterRequest{
		Email:    "dup@example.com",
		Password: "password123",
		Name:     "First",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthController_Register_WeakPassword(t *testing.T) {
	controller, router, _ := setupAuthControllerTest(t)

	router.POST("/auth/register", controller.Register)

	jsonBody, _ := json.Marshal(RegisterRequest{
		Email:    "weak@example.com",
		Password: "short",
		Name:     "Weak",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Binding failures come back as field-scoped messages.
	var response struct {
		Errors []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Errors, 1)
	assert.Equal(t, "password", response.Errors[0].Field)
	assert.Equal(t, "Must be at least 8 characters", response.Errors[0].Message)
}

func TestAuthController_Login(t *testing.T) {
	controller, router, _ := setupAuthControllerTest(t)

	router.POST("/auth/register", controller.Register)
	router.POST("/auth/login", controller.Login)

	registerBody, _ := json.Marshal(RegisterRequest{
		Email:    "login@example.com",
		Password: "password123",
		Name:     "Login User",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(registerBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	loginBody, _ := json.Marshal(LoginRequest{Email: "login@example.com", Password: "password123"})
	req = httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(loginBody))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	wrongBody, _ := json.Marshal(LoginRequest{Email: "login@example.com", Password: "wrong-password"})
	req = httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(wrongBody))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthController_Me(t *testing.T) {
	controller, router, testDB := setupAuthControllerTest(t)

	user := &model.User{
		Email:        "me@example.com",
		PasswordHash: "hash",
		Name:         "Me",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	router.GET("/auth/me", func(c *gin.Context) {
		c.Set(middleware.UserIDKey, user.ID)
		controller.Me(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data struct {
			Email string `json:"email"`
		} `json:"data"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", response.Data.Email)
}

func TestAuthController_Me_Unauthenticated(t *testing.T) {
	controller, router, _ := setupAuthControllerTest(t)

	router.GET("/auth/me", controller.Me)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthController_UpdateProfile(t *testing.T) {
	controller, router, testDB := setupAuthControllerTest(t)

	user := &model.User{
		Email:        "profile@example.com",
		PasswordHash: "hash",
		Name:         "Before",
		Phone:        "010-1111",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	router.PUT("/auth/me", func(c *gin.Context) {
		c.Set(middleware.UserIDKey, user.ID)
		controller.UpdateProfile(c)
	})

	jsonBody, _ := json.Marshal(UpdateProfileRequest{Name: "After"})
	req := httptest.NewRequest(http.MethodPut, "/auth/me", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var updated model.User
	require.NoError(t, testDB.First(&updated, user.ID).Error)
	assert.Equal(t, "After", updated.Name)
	// Blank phone keeps the stored value.
	assert.Equal(t, "010-1111", updated.Phone)
}

func TestAuthController_ListUsers_FilterByRole(t *testing.T) {
	controller, router, testDB := setupAuthControllerTest(t)

	testDB.Create(&model.User{Email: "a@example.com", PasswordHash: "hash", Name: "A", Role: model.RoleUser})
	testDB.Create(&model.User{Email: "b@example.com", PasswordHash: "hash", Name: "B", Role: model.RoleAdmin})

	router.GET("/admin/users", controller.ListUsers)

	req := httptest.NewRequest(http.MethodGet, "/admin/users?role=admin", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			Items        []model.User `json:"items"`
			TotalRecords int64        `json:"totalRecords"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Equal(t, int64(1), response.Data.TotalRecords)
	require.Len(t, response.Data.Items, 1)
	assert.Equal(t, "b@example.com", response.Data.Items[0].Email)
}

func TestAuthController_ListUsers_UnknownRole(t *testing.T) {
	controller, router, _ := setupAuthControllerTest(t)

	router.GET("/admin/users", controller.ListUsers)

	req := httptest.NewRequest(http.MethodGet, "/admin/users?role=superuser", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthController_UpdateUserRole(t *testing.T) {
	controller, router, testDB := setupAuthControllerTest(t)

	user := &model.User{Email: "promote@example.com", PasswordHash: "hash", Name: "P", Role: model.RoleUser}
	testDB.Create(user)

	router.PUT("/admin/users/:id/role", controller.UpdateUserRole)

	jsonBody, _ := json.Marshal(UpdateUserRoleRequest{Role: "admin"})
	req := httptest.NewRequest(http.MethodPut, "/admin/users/1/role", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var updated model.User
	require.NoError(t, testDB.First(&updated, user.ID).Error)
	assert.Equal(t, model.RoleAdmin, updated.Role)
}

func TestAuthController_DeleteUser_NotFound(t *testing.T) {
	controller, router, _ := setupAuthControllerTest(t)

	router.DELETE("/admin/users/:id", controller.DeleteUser)

	req := httptest.NewRequest(http.MethodDelete, "/admin/users/9999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
