package engine

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Alturino/raffa/menu/pkg/catalog"
)

type Line struct {
	ID             string                  `json:"id"`
	ItemID         string                  `json:"itemId"`
	Name           string                  `json:"name"`
	Quantity       int                     `json:"quantity"`
	Variation      *catalog.Variation      `json:"variation,omitempty"`
	AddOns         []catalog.SelectedAddOn `json:"addOns"`
	UnitTotalPrice decimal.Decimal         `json:"unitTotalPrice"`
}

func (l Line) Total() decimal.Decimal {
	return l.UnitTotalPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LineID derives the identity of a configured item. Add-on order and add-on
// sub-quantities do not change the identity.
func LineID(itemID string, variation *catalog.Variation, addOns []catalog.SelectedAddOn) string {
	variationID := ""
	if variation != nil {
		variationID = variation.ID
	}
	addOnIDs := make([]string, 0, len(addOns))
	for _, addOn := range addOns {
		addOnIDs = append(addOnIDs, addOn.ID)
	}
	slices.Sort(addOnIDs)
	return itemID + ":" + variationID + ":" + strings.Join(addOnIDs, "+")
}
