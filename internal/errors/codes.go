package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// The terminal frontend maps these codes to display messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong name/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTooManyAttempts    = "AUTH_TOO_MANY_ATTEMPTS" // address blocked by rate limiter
	AuthAccountInactive    = "AUTH_ACCOUNT_INACTIVE"  // account disabled by admin

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN"
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE"

	// ==================== Product (PRODUCT_) ====================
	ProductNotFound      = "PRODUCT_NOT_FOUND"
	ProductOutOfStock    = "PRODUCT_OUT_OF_STOCK"
	ProductInvalidOption = "PRODUCT_INVALID_OPTION" // option does not belong to product
	OptionNotFound       = "OPTION_NOT_FOUND"

	// ==================== Cart (CART_) ====================
	CartLineNotFound = "CART_LINE_NOT_FOUND"
	CartEmpty        = "CART_EMPTY"

	// ==================== Checkout (CHECKOUT_) ====================
	CheckoutInsufficientPayment = "CHECKOUT_INSUFFICIENT_PAYMENT"
	CheckoutInsufficientStock   = "CHECKOUT_INSUFFICIENT_STOCK"

	// ==================== Order (ORDER_) ====================
	OrderNotFound = "ORDER_NOT_FOUND"

	// ==================== User (USER_) ====================
	UserNotFound      = "USER_NOT_FOUND"
	UserNameExists    = "USER_NAME_EXISTS"
	UserInvalidRole   = "USER_INVALID_ROLE"
	UserSelfDeletion  = "USER_SELF_DELETION" // admins cannot delete their own account

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalSessionError  = "INTERNAL_SESSION_ERROR" // session store unavailable
)
