package controller

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minkwan/storefront-backend/internal/app/model"
	"github.com/minkwan/storefront-backend/internal/app/repository"
	"github.com/minkwan/storefront-backend/internal/app/service"
	apperrors "github.com/minkwan/storefront-backend/internal/errors"
	"github.com/minkwan/storefront-backend/internal/middleware"
	"gorm.io/gorm"
)

type ContactController struct {
	contactService service.ContactService
}

func NewContactController(contactService service.ContactService) *ContactController {
	return &ContactController{
		contactService: contactService,
	}
}

type ContactFormRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	InquiryType string `json:"inquiry_type" binding:"required"`
	Subject     string `json:"subject"`
	Message     string `json:"message" binding:"required"`
}

// SubmitForm stores a contact form submission
// POST /api/v1/contact
func (ctrl *ContactController) SubmitForm(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ContactFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	submission := &model.ContactFormSubmission{
		Name:        req.Name,
		Email:       req.Email,
		InquiryType: model.InquiryType(req.InquiryType),
		Subject:     req.Subject,
		Message:     req.Message,
	}
	if err := ctrl.contactService.SubmitContactForm(submission); err != nil {
		if errors.Is(err, service.ErrInvalidInquiryType) {
			apperrors.BadRequest(c, apperrors.ContactInvalidInquiry, "Unknown inquiry type")
			return
		}
		log.Error("Contact form submission failed", err)
		apperrors.ParseAndRespond(c, err, "create contact submission")
		return
	}

	apperrors.RespondCreated(c, "Contact form submitted", submission)
}

// InquiryTypes lists the accepted inquiry categories
// GET /api/v1/contact/inquiry-types
func (ctrl *ContactController) InquiryTypes(c *gin.Context) {
	apperrors.RespondOK(c, "Inquiry types fetched", ctrl.contactService.InquiryTypes())
}

// ListSubmissions lists stored submissions with filters (admin only)
// GET /api/v1/admin/contact
func (ctrl *ContactController) ListSubmissions(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.ContactFilter{
		Email: c.Query("email"),
		Page:  parsePageRequest(c),
	}
	if typeStr := c.Query("inquiry_type"); typeStr != "" {
		inquiryType := model.InquiryType(typeStr)
		if !model.ValidInquiryType(inquiryType) {
			apperrors.BadRequest(c, apperrors.ContactInvalidInquiry, "Unknown inquiry type filter")
			return
		}
		filter.InquiryType = &inquiryType
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

	submissions, total, err := ctrl.contactService.ListSubmissions(filter)
	if err != nil {
		log.Error("Failed to list contact submissions", err)
		apperrors.InternalError(c, "Failed to fetch contact submissions")
		return
	}

	page := filter.Page.Normalize()
	apperrors.RespondPage(c, "Contact submissions fetched", submissions,
		apperrors.NewPageMeta(page.PageNumber, page.PageSize, total))
}

// GetSubmissionByID returns one submission (admin only)
// GET /api/v1/admin/contact/:id
func (ctrl *ContactController) GetSubmissionByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	submission, err := ctrl.contactService.GetSubmissionByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Submission not found")
			return
		}
		log.Error("Failed to fetch contact submission", err, map[string]interface{}{
			"submission_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch contact submission")
		return
	}

	apperrors.RespondOK(c, "Contact submission fetched", submission)
}
