package request

import (
	orderRequest "github.com/Alturino/raffa/order/pkg/request"
)

type AddOn struct {
	ID       string `json:"id"       validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

// AddItem selects a configuration of a menu item. A quantity below one adds a
// single unit.
type AddItem struct {
	ItemID      string  `json:"itemId"      validate:"required,uuid"`
	VariationID string  `json:"variationId" validate:"omitempty,uuid"`
	AddOns      []AddOn `json:"addOns"      validate:"dive"`
	Quantity    int     `json:"quantity"`
}

// UpdateQuantity sets the quantity of a line. Zero or less removes it.
type UpdateQuantity struct {
	Quantity int `json:"quantity"`
}

type Checkout = orderRequest.Customer
