package log

const (
	KeyAppName           = "app"
	KeyRequestID         = "requestId"
	KeyTraceID           = "traceId"
	KeySpanID            = "spanId"
	KeyProcess           = "process"
	KeyTag               = "tag"
	KeyRequest           = "request"
	KeyRequestBody       = "requestBody"
	KeyRequestHeader     = "requestHeader"
	KeyRequestHost       = "host"
	KeyRequestIp         = "requesterIP"
	KeyRequestMethod     = "requestMethod"
	KeyRequestURI        = "requestURI"
	KeyRequestURL        = "requestURL"
	KeyConfig            = "config"
	KeyDbURL             = "dbUrl"
	KeyCartID            = "cartId"
	KeyLineID            = "lineId"
	KeyItemID            = "itemId"
	KeyCategoryID        = "categoryId"
	KeyPaymentMethodID   = "paymentMethodId"
	KeyOrderID           = "orderId"
	KeyOrderStatus       = "orderStatus"
	KeyQuantity          = "quantity"
	KeyRequestedQuantity = "requestedQuantity"
	KeyStockQuantity     = "stockQuantity"
	KeyCatalogSize       = "catalogSize"
	KeyCacheKey          = "cacheKey"
	KeyTotalPrice        = "totalPrice"
	KeyTotalItems        = "totalItems"
	KeyServiceType       = "serviceType"
	KeyFilter            = "filter"
)
