package envelope

// Error codes carried in Response.ErrorCode.
const (
	CodeBadRequest        = "BAD_REQUEST"
	CodeValidation        = "VALIDATION_ERROR"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeResourceNotFound  = "RESOURCE_NOT_FOUND"
	CodeEndpointNotFound  = "ENDPOINT_NOT_FOUND"
	CodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
	CodeConflict          = "CONFLICT"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeTooManyRequests   = "TOO_MANY_REQUESTS"
	CodeUnavailable       = "SERVICE_UNAVAILABLE"
	CodeUnknown           = "UNKNOWN"
)

// Default messages for the codes above.
var defaultMessages = map[string]string{
	CodeBadRequest:        "Bad request",
	CodeValidation:        "Invalid data",
	CodeUnauthorized:      "Authentication required",
	CodeForbidden:         "Access denied",
	CodeResourceNotFound:  "Resource not found",
	CodeEndpointNotFound:  "Endpoint not found",
	CodeMethodNotAllowed:  "HTTP method not supported",
	CodeConflict:          "Resource already exists",
	CodeInsufficientStock: "Insufficient stock",
	CodeTooManyRequests:   "Too many requests",
	CodeUnavailable:       "Service unavailable",
	CodeUnknown:           "Internal server error",
}

// DefaultMessage returns the stock message for code, or the UNKNOWN message.
func DefaultMessage(code string) string {
	if msg, ok := defaultMessages[code]; ok {
		return msg
	}
	return defaultMessages[CodeUnknown]
}
