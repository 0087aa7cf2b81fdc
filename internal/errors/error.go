package errors

import (
	"errors"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrMenuItemNotFound      = errors.New("menu item not found")
	ErrVariationNotFound     = errors.New("variation not found")
	ErrAddOnNotFound         = errors.New("add-on not found")
	ErrCartNotFound          = errors.New("cart not found")
	ErrEmptyCart             = errors.New("cart is empty")
	ErrOutOfStock            = errors.New("menu item is out of stock")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrItemUnavailable       = errors.New("menu item is unavailable")
	ErrRateLimited           = errors.New("rate limit exceeded, please wait 1 minute before placing another order")
	ErrInvalidSchedule       = errors.New("invalid schedule")
	ErrInactivePaymentMethod = errors.New("payment method is not active")
	ErrUpstream              = errors.New("upstream service failed")
	ErrInventoryNotTracked   = errors.New("inventory is not tracked for this menu item")
	ErrCategoryInUse         = errors.New("category still has menu items")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrPaymentMethodNotFound = errors.New("payment method not found")
	ErrOrderNotFound         = errors.New("order not found")
	ErrInvalidQuantity       = errors.New("quantity must be at least 1")
	ErrInvalidPrice          = errors.New("unit price must be positive")
)
