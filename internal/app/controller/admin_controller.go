package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minkwan/storefront-backend/internal/app/repository"
	"github.com/minkwan/storefront-backend/internal/app/service"
	apperrors "github.com/minkwan/storefront-backend/internal/errors"
	"github.com/minkwan/storefront-backend/internal/middleware"
	"github.com/minkwan/storefront-backend/internal/storage"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminController bundles the export and upload endpoints that have no
// domain service of their own.
type AdminController struct {
	exportService service.ExportService
	s3            *storage.S3Storage
}

func NewAdminController(exportService service.ExportService, s3 *storage.S3Storage) *AdminController {
	return &AdminController{
		exportService: exportService,
		s3:            s3,
	}
}

type PresignUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Size        int64  `json:"size" binding:"required"`
	Folder      string `json:"folder"`
}

// ExportProducts streams the full catalog as an xlsx workbook
// GET /api/v1/admin/export/products
func (ctrl *AdminController) ExportProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	buf, err := ctrl.exportService.ExportProducts()
	if err != nil {
		log.Error("Product export failed", err)
		apperrors.InternalError(c, "Export failed")
		return
	}

	filename := fmt.Sprintf("products-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportOrders streams filtered orders as an xlsx workbook
// GET /api/v1/admin/export/orders
func (ctrl *AdminController) ExportOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.OrderFilter{
		Email:      c.Query("email"),
		StatusName: c.Query("status"),
	}
	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Invalid from date, expected RFC3339")
			return
		}
		filter.CreatedAfter = &from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Invalid to date, expected RFC3339")
			return
		}
		filter.CreatedBefore = &to
	}

	buf, err := ctrl.exportService.ExportOrders(filter)
	if err != nil {
		log.Error("Order export failed", err)
		apperrors.InternalError(c, "Export failed")
		return
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// PresignImageUpload returns a presigned S3 PUT URL for an image asset
// POST /api/v1/admin/uploads/images
func (ctrl *AdminController) PresignImageUpload(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid upload request")
		return
	}

	folder := req.Folder
	if folder != storage.FolderCollectionImages {
		folder = storage.FolderProductImages
	}

	result, err := ctrl.s3.PresignImageUpload(req.Filename, req.ContentType, folder, req.Size)
	if err != nil {
		log.Warn("Image upload rejected", map[string]interface{}{
			"filename": req.Filename,
			"error":    err.Error(),
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, err.Error())
		return
	}

	apperrors.RespondOK(c, "Upload URL issued", result)
}

// PresignDownloadableUpload returns a presigned S3 PUT URL for a
// downloadable content file
// POST /api/v1/admin/uploads/downloads
func (ctrl *AdminController) PresignDownloadableUpload(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid upload request")
		return
	}

	result, err := ctrl.s3.PresignDownloadableUpload(req.Filename, req.ContentType, req.Size)
	if err != nil {
		log.Warn("Downloadable upload rejected", map[string]interface{}{
			"filename": req.Filename,
			"error":    err.Error(),
		})
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, err.Error())
		return
	}

	apperrors.RespondOK(c, "Upload URL issued", result)
}
