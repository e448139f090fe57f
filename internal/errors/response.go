package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response body for every endpoint:
// { success, message, data, errors[] }.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []APIError  `json:"errors,omitempty"`
}

// APIError is a single field-scoped or request-scoped error.
type APIError struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// PageMeta is attached to paginated payloads.
type PageMeta struct {
	PageNumber      int   `json:"pageNumber"`
	PageSize        int   `json:"pageSize"`
	TotalRecords    int64 `json:"totalRecords"`
	TotalPages      int   `json:"totalPages"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// NewPageMeta derives pagination metadata from a page request and total.
func NewPageMeta(pageNumber, pageSize int, totalRecords int64) PageMeta {
	totalPages := int((totalRecords + int64(pageSize) - 1) / int64(pageSize))
	return PageMeta{
		PageNumber:      pageNumber,
		PageSize:        pageSize,
		TotalRecords:    totalRecords,
		TotalPages:      totalPages,
		HasNextPage:     pageNumber < totalPages,
		HasPreviousPage: pageNumber > 1 && totalRecords > 0,
	}
}

// PagedData wraps a page of items with its metadata.
type PagedData struct {
	Items interface{} `json:"items"`
	PageMeta
}

// RespondOK writes a success envelope.
func RespondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// RespondCreated writes a success envelope with 201.
func RespondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// RespondPage writes a success envelope carrying a page of items.
func RespondPage(c *gin.Context, message string, items interface{}, meta PageMeta) {
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Message: message,
		Data:    PagedData{Items: items, PageMeta: meta},
	})
}

// RespondWithError writes a failure envelope with a single error.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, Envelope{
		Success: false,
		Message: message,
		Errors:  []APIError{{Code: errorCode, Message: message}},
	})
}

// Shorthand responders for the common failure classes.

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "An internal error occurred. Please try again later"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// RespondWithValidationErrors writes a failure envelope with field-scoped
// validation errors.
func RespondWithValidationErrors(c *gin.Context, fields map[string]string) {
	apiErrors := make([]APIError, 0, len(fields))
	for field, msg := range fields {
		apiErrors = append(apiErrors, APIError{
			Code:    ValidationInvalidInput,
			Field:   field,
			Message: msg,
		})
	}
	c.JSON(http.StatusBadRequest, Envelope{
		Success: false,
		Message: "Validation failed",
		Errors:  apiErrors,
	})
}
