package constants

const (
	MsgProductNotFound  = "Product not found"
	MsgDuplicateSKU     = "A product with this SKU already exists"
	MsgInvalidBody      = "Request body is not valid JSON"
	MsgInvalidProductID = "Product ID must be a UUID"
	MsgMissingToken     = "Missing bearer token"
	MsgInvalidToken     = "Invalid or expired token"
	MsgInsufficientRole = "Your role cannot perform this action"
	MsgProductsListed   = "Products fetched"
	MsgProductFetched   = "Product fetched"
	MsgStockReserved    = "Stock reserved"
	MsgHealthy          = "All services healthy"
	MsgDegraded         = "One or more services are down"
)
