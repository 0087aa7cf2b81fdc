package engine

import (
	"github.com/shopspring/decimal"
)

const currencyPlaces = 2

type SnapshotAddOn struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type SnapshotLine struct {
	LineID         string          `json:"lineId"`
	ItemID         string          `json:"itemId"`
	Name           string          `json:"name"`
	VariationID    string          `json:"variationId,omitempty"`
	VariationName  string          `json:"variationName,omitempty"`
	AddOns         []SnapshotAddOn `json:"addOns"`
	UnitTotalPrice decimal.Decimal `json:"unitTotalPrice"`
	Quantity       int             `json:"quantity"`
	LineTotal      decimal.Decimal `json:"lineTotal"`
}

// Snapshot is the presentation of a cart handed to checkout. Money is rounded
// to currency precision here and nowhere else.
type Snapshot struct {
	Lines      []SnapshotLine  `json:"lines"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

func (c *Cart) Snapshot() Snapshot {
	lines := make([]SnapshotLine, 0, len(c.lines))
	for _, line := range c.lines {
		snapshotLine := SnapshotLine{
			LineID:         line.ID,
			ItemID:         line.ItemID,
			Name:           line.Name,
			AddOns:         make([]SnapshotAddOn, 0, len(line.AddOns)),
			UnitTotalPrice: line.UnitTotalPrice.Round(currencyPlaces),
			Quantity:       line.Quantity,
			LineTotal:      line.Total().Round(currencyPlaces),
		}
		if line.Variation != nil {
			snapshotLine.VariationID = line.Variation.ID
			snapshotLine.VariationName = line.Variation.Name
		}
		for _, addOn := range line.AddOns {
			snapshotLine.AddOns = append(snapshotLine.AddOns, SnapshotAddOn{
				ID:       addOn.ID,
				Name:     addOn.Name,
				Price:    addOn.Price.Round(currencyPlaces),
				Quantity: addOn.Quantity,
			})
		}
		lines = append(lines, snapshotLine)
	}
	return Snapshot{
		Lines:      lines,
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice().Round(currencyPlaces),
	}
}
