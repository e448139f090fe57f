package errors

// Error code constants returned in the response envelope.
// Format: CATEGORY_SPECIFIC_DETAIL; the frontend maps these to copy.

const (
	// Authentication
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// Authorization
	AuthzForbidden = "AUTHZ_FORBIDDEN"
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY"

	// Validation
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// Resources
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// Catalog
	CollectionNotFound      = "COLLECTION_NOT_FOUND"
	CollectionInvalidLevel  = "COLLECTION_INVALID_LEVEL"
	CollectionInvalidParent = "COLLECTION_INVALID_PARENT"
	CollectionHasChildren   = "COLLECTION_HAS_CHILDREN"
	CollectionHasProducts   = "COLLECTION_HAS_PRODUCTS"
	ProductNotFound         = "PRODUCT_NOT_FOUND"

	// Cart
	CartNotFound          = "CART_NOT_FOUND"
	CartItemNotFound      = "CART_ITEM_NOT_FOUND"
	CartOwnerAmbiguous    = "CART_OWNER_AMBIGUOUS"
	CartInsufficientStock = "CART_INSUFFICIENT_STOCK"

	// Orders
	OrderNotFound        = "ORDER_NOT_FOUND"
	OrderInvalidQuantity = "ORDER_INVALID_QUANTITY"
	OrderInvalidStatus   = "ORDER_INVALID_STATUS"

	// Contact / subscriptions
	ContactInvalidInquiry     = "CONTACT_INVALID_INQUIRY"
	SubscriptionAlreadyExists = "SUBSCRIPTION_ALREADY_EXISTS"
	SubscriptionNotFound      = "SUBSCRIPTION_NOT_FOUND"

	// External services
	PaymentFailed        = "PAYMENT_FAILED"
	ExternalServiceError = "EXTERNAL_SERVICE_ERROR"

	// Uploads
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// Internal
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
)
