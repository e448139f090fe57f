package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ErrorInfo is a parsed error code/message pair.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps repository-level errors (gorm, postgres constraint
// violations, network faults) onto the error taxonomy so stack traces
// and SQL never leak past the HTTP boundary.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "An internal error occurred"}
	}

	errStr := err.Error()
	errLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	// Unique constraint violation (23505)
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		return parseDuplicateKeyError(errLower)
	}

	// Foreign key constraint violation (23503)
	if strings.Contains(errLower, "foreign key constraint") {
		return parseForeignKeyError(errLower)
	}

	// Not null constraint violation (23502)
	if strings.Contains(errLower, "null value") && strings.Contains(errLower, "not-null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
	}

	// Check constraint violation (23514)
	if strings.Contains(errLower, "check constraint") {
		return ErrorInfo{Code: ValidationInvalidInput, Message: "A field value is out of range"}
	}

	// Network faults from external services
	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Code:    ExternalServiceError,
			Message: "An external service is unavailable. Please try again later",
		}
	}

	return ErrorInfo{Code: InternalServerError, Message: defaultMessage(context)}
}

// ParseAndRespond parses a repository-level error and writes the
// matching failure envelope. Controllers use it as the fallback branch
// after their sentinel checks, so constraint violations that race past
// a service-level lookup still map onto the taxonomy.
func ParseAndRespond(c *gin.Context, err error, context string) {
	info := ParseError(err, context)
	RespondWithError(c, statusForCode(info.Code), info.Code, info.Message)
}

func statusForCode(code string) int {
	switch code {
	case ResourceNotFound, CollectionNotFound, ProductNotFound,
		OrderNotFound, CartNotFound, SubscriptionNotFound:
		return http.StatusNotFound
	case ResourceAlreadyExists, ResourceConflict, AuthEmailAlreadyExists,
		SubscriptionAlreadyExists, CollectionHasProducts, CollectionHasChildren:
		return http.StatusConflict
	case ValidationRequired, ValidationInvalidInput, OrderInvalidStatus:
		return http.StatusBadRequest
	case ExternalServiceError:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "email") {
		if strings.Contains(errLower, "subscriptions") {
			return ErrorInfo{Code: SubscriptionAlreadyExists, Message: "This email is already subscribed"}
		}
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "This email is already in use"}
	}
	if strings.Contains(errLower, "order_number") {
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Order number collision, please retry"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "The record already exists"}
}

func parseForeignKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "still referenced") {
		if strings.Contains(errLower, "collection") {
			return ErrorInfo{Code: CollectionHasProducts, Message: "The collection still has products attached"}
		}
		return ErrorInfo{Code: ResourceConflict, Message: "The record is still referenced and cannot be deleted"}
	}
	if strings.Contains(errLower, "collection_id") {
		return ErrorInfo{Code: CollectionNotFound, Message: "The referenced collection does not exist"}
	}
	if strings.Contains(errLower, "product_id") {
		return ErrorInfo{Code: ProductNotFound, Message: "The referenced product does not exist"}
	}
	if strings.Contains(errLower, "status_id") {
		return ErrorInfo{Code: OrderInvalidStatus, Message: "The referenced status does not exist"}
	}
	return ErrorInfo{Code: ResourceNotFound, Message: "A referenced record does not exist"}
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "collection"):
		return "Collection not found"
	case strings.Contains(contextLower, "product"):
		return "Product not found"
	case strings.Contains(contextLower, "order"):
		return "Order not found"
	case strings.Contains(contextLower, "cart"):
		return "Cart not found"
	case strings.Contains(contextLower, "user"):
		return "User not found"
	case strings.Contains(contextLower, "subscription"):
		return "Subscription not found"
	}
	return "The requested record was not found"
}

func defaultMessage(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "create"):
		return "Creation failed. Please try again later"
	case strings.Contains(contextLower, "update"):
		return "Update failed. Please try again later"
	case strings.Contains(contextLower, "delete"):
		return "Deletion failed. Please try again later"
	}
	return "An internal error occurred. Please try again later"
}
