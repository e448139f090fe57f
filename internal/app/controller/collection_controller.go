package controller

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/minkwan/storefront-backend/internal/app/model"
	"github.com/minkwan/storefront-backend/internal/app/repository"
	"github.com/minkwan/storefront-backend/internal/app/service"
	apperrors "github.com/minkwan/storefront-backend/internal/errors"
	"github.com/minkwan/storefront-backend/internal/middleware"
)

type CollectionController struct {
	collectionService service.CollectionService
}

func NewCollectionController(collectionService service.CollectionService) *CollectionController {
	return &CollectionController{
		collectionService: collectionService,
	}
}

type CreateCollectionRequest struct {
	Name               string   `json:"name" binding:"required"`
	Description        string   `json:"description"`
	Level              int      `json:"level" binding:"required"`
	ParentCollectionID *uint    `json:"parent_collection_id"`
	Tags               []string `json:"tags"`
	Images             []string `json:"images"`
	Published          bool     `json:"published"`
}

type UpdateCollectionRequest struct {
	Name               string   `json:"name" binding:"required"`
	Description        string   `json:"description"`
	Level              int      `json:"level" binding:"required"`
	ParentCollectionID *uint    `json:"parent_collection_id"`
	Tags               []string `json:"tags"`
	Images             []string `json:"images"`
	Published          bool     `json:"published"`
}

func parseIDParam(c *gin.Context) (uint, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid id parameter")
		return 0, false
	}
	return uint(id), true
}

// respondBindingError turns a form binding failure into field-scoped
// validation messages.
func respondBindingError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	fields := make(map[string]string, len(validationErrs))
	for _, fieldErr := range validationErrs {
		fields[strings.ToLower(fieldErr.Field())] = bindingMessage(fieldErr)
	}
	apperrors.RespondWithValidationErrors(c, fields)
}

func bindingMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return "Must be at least " + fieldErr.Param() + " characters"
	case "max":
		return "Must be at most " + fieldErr.Param() + " characters"
	}
	return "Invalid value"
}

func parsePageRequest(c *gin.Context) repository.PageRequest {
	pageNumber, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	return repository.PageRequest{
		PageNumber:    pageNumber,
		PageSize:      pageSize,
		SortBy:        c.Query("sort_by"),
		SortDirection: repository.SortDirection(c.Query("sort_direction")),
	}
}

// ListCollections returns a filtered page of collections
// GET /api/v1/collections
func (ctrl *CollectionController) ListCollections(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.CollectionFilter{
		Search: c.Query("search"),
		Tag:    c.Query("tag"),
		Page:   parsePageRequest(c),
	}
	if levelStr := c.Query("level"); levelStr != "" {
		level, err := strconv.Atoi(levelStr)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid level filter")
			return
		}
		filter.Level = &level
	}
	if parentStr := c.Query("parent_id"); parentStr != "" {
		parentID, err := strconv.ParseUint(parentStr, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid parent_id filter")
			return
		}
		id := uint(parentID)
		filter.ParentID = &id
	}
	if publishedStr := c.Query("published"); publishedStr != "" {
		published := publishedStr == "true"
		filter.Published = &published
	}

	collections, total, err := ctrl.collectionService.ListCollections(filter)
	if err != nil {
		log.Error("Failed to list collections", err, nil)
		apperrors.InternalError(c, "Failed to fetch collections")
		return
	}

	page := filter.Page.Normalize()
	apperrors.RespondPage(c, "Collections fetched", collections,
		apperrors.NewPageMeta(page.PageNumber, page.PageSize, total))
}

// GetHierarchy returns the nested collection tree
// GET /api/v1/collections/hierarchy
func (ctrl *CollectionController) GetHierarchy(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	tree, err := ctrl.collectionService.GetHierarchy(c.Request.Context())
	if err != nil {
		log.Error("Failed to build collection hierarchy", err, nil)
		apperrors.InternalError(c, "Failed to fetch collection hierarchy")
		return
	}

	apperrors.RespondOK(c, "Collection hierarchy fetched", tree)
}

// GetCollectionByID returns one collection
// GET /api/v1/collections/:id
func (ctrl *CollectionController) GetCollectionByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	collection, err := ctrl.collectionService.GetCollectionByID(id)
	if err != nil {
		if errors.Is(err, service.ErrCollectionNotFound) {
			apperrors.NotFound(c, apperrors.CollectionNotFound, "Collection not found")
			return
		}
		log.Error("Failed to fetch collection", err, map[string]interface{}{
			"collection_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch collection")
		return
	}

	apperrors.RespondOK(c, "Collection fetched", collection)
}

// CreateCollection creates a collection (admin only)
// POST /api/v1/admin/collections
func (ctrl *CollectionController) CreateCollection(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid collection creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	email, _ := c.Get(middleware.UserEmailKey)
	createdBy, _ := email.(string)

	collection := &model.Collection{
		Name:               req.Name,
		Description:        req.Description,
		Level:              req.Level,
		ParentCollectionID: req.ParentCollectionID,
		Tags:               model.StringSlice(req.Tags),
		Images:             model.StringSlice(req.Images),
		Published:          req.Published,
		CreatedBy:          createdBy,
		UpdatedBy:          createdBy,
	}

	if err := ctrl.collectionService.CreateCollection(collection); err != nil {
		ctrl.respondCollectionError(c, err, "Failed to create collection")
		return
	}

	apperrors.RespondCreated(c, "Collection created", collection)
}

// UpdateCollection updates a collection (admin only)
// PUT /api/v1/admin/collections/:id
func (ctrl *CollectionController) UpdateCollection(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid collection update request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	email, _ := c.Get(middleware.UserEmailKey)
	updatedBy, _ := email.(string)

	collection := &model.Collection{
		ID:                 id,
		Name:               req.Name,
		Description:        req.Description,
		Level:              req.Level,
		ParentCollectionID: req.ParentCollectionID,
		Tags:               model.StringSlice(req.Tags),
		Images:             model.StringSlice(req.Images),
		Published:          req.Published,
		UpdatedBy:          updatedBy,
	}

	if err := ctrl.collectionService.UpdateCollection(collection); err != nil {
		ctrl.respondCollectionError(c, err, "Failed to update collection")
		return
	}

	apperrors.RespondOK(c, "Collection updated", collection)
}

// DeleteCollection deletes a collection (admin only)
// DELETE /api/v1/admin/collections/:id
func (ctrl *CollectionController) DeleteCollection(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.collectionService.DeleteCollection(id); err != nil {
		ctrl.respondCollectionError(c, err, "Failed to delete collection")
		return
	}

	apperrors.RespondOK(c, "Collection deleted", nil)
}

// RefreshCaches rebuilds the denormalized id caches (admin only)
// POST /api/v1/admin/collections/refresh
func (ctrl *CollectionController) RefreshCaches(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	relResult, err := ctrl.collectionService.RefreshAllParentChildRelationships(c.Request.Context())
	if err != nil {
		log.Error("Parent-child cache refresh failed", err, nil)
		apperrors.InternalError(c, "Cache refresh failed")
		return
	}

	productResult, err := ctrl.collectionService.RefreshAllProductIDs(c.Request.Context())
	if err != nil {
		log.Error("Product id cache refresh failed", err, nil)
		apperrors.InternalError(c, "Cache refresh failed")
		return
	}

	apperrors.RespondOK(c, "Collection caches refreshed", gin.H{
		"relationships": relResult,
		"product_ids":   productResult,
	})
}

func (ctrl *CollectionController) respondCollectionError(c *gin.Context, err error, fallback string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrCollectionNotFound):
		apperrors.NotFound(c, apperrors.CollectionNotFound, "Collection not found")
	case errors.Is(err, service.ErrInvalidCollectionLevel):
		apperrors.BadRequest(c, apperrors.CollectionInvalidLevel, "Collection level must be between 1 and 3")
	case errors.Is(err, service.ErrInvalidParentCollection):
		apperrors.BadRequest(c, apperrors.CollectionInvalidParent, "Parent collection must sit exactly one level above")
	case errors.Is(err, service.ErrCollectionHasChildren):
		apperrors.Conflict(c, apperrors.CollectionHasChildren, "Collection still has child collections")
	case errors.Is(err, service.ErrCollectionHasProducts):
		apperrors.Conflict(c, apperrors.CollectionHasProducts, "Collection still has products")
	default:
		log.Error(fallback, err, nil)
		apperrors.ParseAndRespond(c, err, fallback)
	}
}
