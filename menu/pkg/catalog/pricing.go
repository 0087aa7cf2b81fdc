package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// IsDiscountActive reports whether the discount window of item contains now.
// Both bounds are inclusive and an absent bound is open.
func IsDiscountActive(item Item, now time.Time) bool {
	d := item.Discount
	if d == nil || !d.Active || !d.Price.Valid {
		return false
	}
	if d.Start != nil && now.Before(*d.Start) {
		return false
	}
	if d.End != nil && now.After(*d.End) {
		return false
	}
	return true
}

func ResolveEffectivePrice(item Item, now time.Time) decimal.Decimal {
	if IsDiscountActive(item, now) {
		return item.Discount.Price.Decimal
	}
	return item.BasePrice
}

// ResolveUnitTotalPrice prices one unit of a configured item. A selected
// variation replaces the base or discounted price entirely, add-ons are added
// on top at price times max(1, quantity).
func ResolveUnitTotalPrice(item Item, variation *Variation, addOns []SelectedAddOn, now time.Time) decimal.Decimal {
	price := ResolveEffectivePrice(item, now)
	if variation != nil {
		price = variation.Price
	}
	for _, addOn := range addOns {
		quantity := addOn.Quantity
		if quantity < 1 {
			quantity = 1
		}
		price = price.Add(addOn.Price.Mul(decimal.NewFromInt(int64(quantity))))
	}
	return price
}
