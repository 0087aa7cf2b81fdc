package constants

const (
	AppMenuService      = "menu-service"
	AppCatalogRefresher = "catalog-refresher"
	AppCartService      = "cart-service"
	AppOrderService     = "order-service"
	AppMain             = "main raffa"
)
