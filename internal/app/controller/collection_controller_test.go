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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCollectionControllerTest(t *testing.T) (*CollectionController, *gin.Engine, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	collectionRepo := repository.NewCollectionRepository(testDB)
	collectionService := service.NewCollectionService(collectionRepo)
	collectionController := NewCollectionController(collectionService)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return collectionController, router, testDB
}

func TestCollectionController_CreateCollection(t *testing.T) {
	controller, router, testDB := setupCollectionControllerTest(t)

	router.POST("/admin/collections", controller.CreateCollection)

	jsonBody, _ := json.Marshal(CreateCollectionRequest{
		Name:      "Tableware",
		Level:     model.CollectionLevelRoot,
		Published: true,
	})
	req := httptest.NewRequest(http.MethodPost, "/admin/collections", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var count int64
	testDB.Model(&model.Collection{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCollectionController_CreateCollection_RootWithParent(t *testing.T) {
	controller, router, _ := setupCollectionControllerTest(t)

	router.POST("/admin/collections", controller.CreateCollection)

	parentID := uint(1)
	jsonBody, _ := json.Marshal(CreateCollectionRequest{
		Name:               "Bad Root",
		Level:              model.CollectionLevelRoot,
		ParentCollectionID: &parentID,
	})
	req := httptest.NewRequest(http.MethodPost, "/admin/collections", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCollectionController_GetCollectionByID_NotFound(t *testing.T) {
	controller, router, _ := setupCollectionControllerTest(t)

	router.GET("/collections/:id", controller.GetCollectionByID)

	req := httptest.NewRequest(http.MethodGet, "/collections/9999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCollectionController_GetCollectionByID_InvalidID(t *testing.T) {
	controller, router, _ := setupCollectionControllerTest(t)

	router.GET("/collections/:id", controller.GetCollectionByID)

	req := httptest.NewRequest(http.MethodGet, "/collections/invalid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCollectionController_ListCollections_Paged(t *testing.T) {
	controller, router, testDB := setupCollectionControllerTest(t)

	for i := 1; i <= 15; i++ {
		testDB.Create(&model.Collection{
			Name:      fmt.Sprintf("Collection %02d", i),
			Level:     model.CollectionLevelRoot,
			Published: true,
		})
	}

	router.GET("/collections", controller.ListCollections)

	req := httptest.NewRequest(http.MethodGet, "/collections?page=2&page_size=10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data struct {
			Items        []json.RawMessage `json:"items"`
			TotalRecords int64             `json:"totalRecords"`
			TotalPages   int               `json:"totalPages"`
		} `json:"data"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Len(t, response.Data.Items, 5)
	assert.Equal(t, int64(15), response.Data.TotalRecords)
	assert.Equal(t, 2, response.Data.TotalPages)
}

func TestCollectionController_GetHierarchy(t *testing.T) {
	controller, router, testDB := setupCollectionControllerTest(t)

	root := &model.Collection{Name: "Tableware", Level: model.CollectionLevelRoot, Published: true}
	testDB.Create(root)
	testDB.Create(&model.Collection{
		Name:               "Mugs",
		Level:              model.CollectionLevelCategory,
		ParentCollectionID: &root.ID,
		Published:          true,
	})

	router.GET("/collections/hierarchy", controller.GetHierarchy)

	req := httptest.NewRequest(http.MethodGet, "/collections/hierarchy", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data []struct {
			Name     string `json:"name"`
			Children []struct {
				Name string `json:"name"`
			} `json:"children"`
		} `json:"data"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	require.Len(t, response.Data, 1)
	assert.Equal(t, "Tableware", response.Data[0].Name)
	require.Len(t, response.Data[0].Children, 1)
	assert.Equal(t, "Mugs", response.Data[0].Children[0].Name)
}

func TestCollectionController_DeleteCollection_WithChildren(t *testing.T) {
	controller, router, testDB := setupCollectionControllerTest(t)

	root := &model.Collection{Name: "Tableware", Level: model.CollectionLevelRoot}
	testDB.Create(root)
	testDB.Create(&model.Collection{
		Name:               "Mugs",
		Level:              model.CollectionLevelCategory,
		ParentCollectionID: &root.ID,
	})

	router.DELETE("/admin/collections/:id", controller.DeleteCollection)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/admin/collections/%d", root.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCollectionController_RefreshCaches(t *testing.T) {
	controller, router, testDB := setupCollectionControllerTest(t)

	root := &model.Collection{Name: "Tableware", Level: model.CollectionLevelRoot}
	testDB.Create(root)
	testDB.Create(&model.Collection{
		Name:               "Mugs",
		Level:              model.CollectionLevelCategory,
		ParentCollectionID: &root.ID,
	})

	router.POST("/admin/collections/refresh", controller.RefreshCaches)

	req := httptest.NewRequest(http.MethodPost, "/admin/collections/refresh", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var refreshed model.Collection
	require.NoError(t, testDB.First(&refreshed, root.ID).Error)
	assert.Len(t, refreshed.ChildCollectionIDs, 1)
}
