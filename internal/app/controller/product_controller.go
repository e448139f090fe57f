package controller

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/minkwan/storefront-backend/internal/app/model"
	"github.com/minkwan/storefront-backend/internal/app/repository"
	"github.com/minkwan/storefront-backend/internal/app/service"
	apperrors "github.com/minkwan/storefront-backend/internal/errors"
	"github.com/minkwan/storefront-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type ProductRequest struct {
	Name         string   `json:"name" binding:"required"`
	Description  string   `json:"description"`
	Price        string   `json:"price" binding:"required"`
	Stock        int      `json:"stock"`
	CollectionID uint     `json:"collection_id" binding:"required"`
	Tags         []string `json:"tags"`
	Images       []string `json:"images"`
	Published    bool     `json:"published"`
}

type SpecificationsRequest struct {
	Material   string `json:"material"`
	Dimensions string `json:"dimensions"`
	Weight     string `json:"weight"`
	Color      string `json:"color"`
}

type DetailsRequest struct {
	LongText     string `json:"long_text"`
	CareNotes    string `json:"care_notes"`
	ShippingInfo string `json:"shipping_info"`
}

type DownloadableContentRequest struct {
	FileURL  string `json:"file_url" binding:"required"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
}

// ListProducts returns a filtered page of products
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter, ok := ctrl.parseProductFilter(c)
	if !ok {
		return
	}

	products, total, err := ctrl.productService.ListProducts(filter)
	if err != nil {
		log.Error("Failed to list products", err)
		apperrors.InternalError(c, "Failed to fetch products")
		return
	}

	page := filter.Page.Normalize()
	apperrors.RespondPage(c, "Products fetched", products,
		apperrors.NewPageMeta(page.PageNumber, page.PageSize, total))
}

func (ctrl *ProductController) parseProductFilter(c *gin.Context) (repository.ProductFilter, bool) {
	filter := repository.ProductFilter{
		Search: c.Query("search"),
		Tag:    c.Query("tag"),
		Page:   parsePageRequest(c),
	}

	if collectionStr := c.Query("collection_id"); collectionStr != "" {
		collectionID, err := strconv.ParseUint(collectionStr, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid collection_id filter")
			return filter, false
		}
		id := uint(collectionID)
		filter.CollectionID = &id
	}
	if minStr := c.Query("min_price"); minStr != "" {
		min, err := model.MoneyFromString(minStr)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Invalid min_price filter")
			return filter, false
		}
		filter.MinPrice = &min
	}
	if maxStr := c.Query("max_price"); maxStr != "" {
		max, err := model.MoneyFromString(maxStr)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Invalid max_price filter")
			return filter, false
		}
		filter.MaxPrice = &max
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil &&
		filter.MaxPrice.Decimal.LessThan(filter.MinPrice.Decimal) {
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "max_price must not be below min_price")
		return filter, false
	}
	if publishedStr := c.Query("published"); publishedStr != "" {
		published := publishedStr == "true"
		filter.Published = &published
	}
	if inStockStr := c.Query("in_stock"); inStockStr != "" {
		inStock := inStockStr == "true"
		filter.InStock = inStock
	}

	return filter, true
}

// GetProductByID returns one product with its detail rows
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProductByID(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch product")
		return
	}

	apperrors.RespondOK(c, "Product fetched", product)
}

// CreateProduct creates a product (admin only)
// POST /api/v1/admin/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	product, ok := ctrl.buildProduct(c, 0, req)
	if !ok {
		return
	}

	if err := ctrl.productService.CreateProduct(product); err != nil {
		ctrl.respondProductError(c, err, "Failed to create product")
		return
	}

	apperrors.RespondCreated(c, "Product created", product)
}

// UpdateProduct updates a product (admin only)
// PUT /api/v1/admin/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product update request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	product, ok := ctrl.buildProduct(c, id, req)
	if !ok {
		return
	}

	if err := ctrl.productService.UpdateProduct(product); err != nil {
		ctrl.respondProductError(c, err, "Failed to update product")
		return
	}

	apperrors.RespondOK(c, "Product updated", product)
}

func (ctrl *ProductController) buildProduct(c *gin.Context, id uint, req ProductRequest) (*model.Product, bool) {
	price, err := model.MoneyFromString(req.Price)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid price format")
		return nil, false
	}

	email, _ := c.Get(middleware.UserEmailKey)
	updatedBy, _ := email.(string)

	product := &model.Product{
		ID:           id,
		Name:         req.Name,
		Description:  req.Description,
		Price:        price,
		Stock:        req.Stock,
		CollectionID: req.CollectionID,
		Tags:         model.StringSlice(req.Tags),
		Images:       model.StringSlice(req.Images),
		Published:    req.Published,
		UpdatedBy:    updatedBy,
	}
	if id == 0 {
		product.CreatedBy = updatedBy
	}
	return product, true
}

// DeleteProduct deletes a product (admin only)
// DELETE /api/v1/admin/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(id); err != nil {
		ctrl.respondProductError(c, err, "Failed to delete product")
		return
	}

	apperrors.RespondOK(c, "Product deleted", nil)
}

// SetSpecifications replaces the specification row (admin only)
// PUT /api/v1/admin/products/:id/specifications
func (ctrl *ProductController) SetSpecifications(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req SpecificationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	specs := &model.ProductSpecifications{
		Material:   req.Material,
		Dimensions: req.Dimensions,
		Weight:     req.Weight,
		Color:      req.Color,
	}
	if err := ctrl.productService.SetSpecifications(id, specs); err != nil {
		ctrl.respondProductError(c, err, "Failed to save product specifications")
		return
	}

	apperrors.RespondOK(c, "Product specifications saved", specs)
}

// SetDetails replaces the details row (admin only)
// PUT /api/v1/admin/products/:id/details
func (ctrl *ProductController) SetDetails(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req DetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	details := &model.ProductDetails{
		LongText:     req.LongText,
		CareNotes:    req.CareNotes,
		ShippingInfo: req.ShippingInfo,
	}
	if err := ctrl.productService.SetDetails(id, details); err != nil {
		ctrl.respondProductError(c, err, "Failed to save product details")
		return
	}

	apperrors.RespondOK(c, "Product details saved", details)
}

// SetDownloadableContent replaces the downloadable content row (admin only)
// PUT /api/v1/admin/products/:id/downloadable-content
func (ctrl *ProductController) SetDownloadableContent(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req DownloadableContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	content := &model.DownloadableContent{
		FileURL:  req.FileURL,
		FileName: req.FileName,
		FileSize: req.FileSize,
	}
	if err := ctrl.productService.SetDownloadableContent(id, content); err != nil {
		ctrl.respondProductError(c, err, "Failed to save downloadable content")
		return
	}

	apperrors.RespondOK(c, "Downloadable content saved", content)
}

func (ctrl *ProductController) respondProductError(c *gin.Context, err error, fallback string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	case errors.Is(err, service.ErrCollectionNotFound):
		apperrors.BadRequest(c, apperrors.CollectionNotFound, "Collection does not exist")
	case errors.Is(err, service.ErrInvalidPrice):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Price must be positive")
	default:
		log.Error(fallback, err)
		apperrors.ParseAndRespond(c, err, fallback)
	}
}
