// Package catalog holds the normalized menu item model and the pure pricing
// and inventory rules evaluated against it.
package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Discount struct {
	Price  decimal.NullDecimal `json:"price"`
	Start  *time.Time          `json:"start,omitempty"`
	End    *time.Time          `json:"end,omitempty"`
	Active bool                `json:"active"`
}

type Inventory struct {
	Tracked           bool `json:"tracked"`
	StockQuantity     *int `json:"stockQuantity"`
	LowStockThreshold int  `json:"lowStockThreshold"`
}

type Variation struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type AddOn struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

// SelectedAddOn is an add-on chosen for a cart line together with its own
// repeat count.
type SelectedAddOn struct {
	AddOn
	Quantity int `json:"quantity"`
}

type Item struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	BasePrice   decimal.Decimal `json:"basePrice"`
	Discount    *Discount       `json:"discount,omitempty"`
	Inventory   Inventory       `json:"inventory"`
	Variations  []Variation     `json:"variations"`
	AddOns      []AddOn         `json:"addOns"`
	Available   bool            `json:"available"`
	Popular     bool            `json:"popular"`
	Image       string          `json:"image,omitempty"`
	SortOrder   int             `json:"sortOrder"`
}

func (i Item) FindVariation(id string) (Variation, bool) {
	for _, v := range i.Variations {
		if v.ID == id {
			return v, true
		}
	}
	return Variation{}, false
}

func (i Item) FindAddOn(id string) (AddOn, bool) {
	for _, a := range i.AddOns {
		if a.ID == id {
			return a, true
		}
	}
	return AddOn{}, false
}

// Snapshot is the read-only view of the catalog handed to the cart engine.
type Snapshot map[string]Item

func NewSnapshot(items []Item) Snapshot {
	snapshot := make(Snapshot, len(items))
	for _, item := range items {
		snapshot[item.ID] = item
	}
	return snapshot
}

func (s Snapshot) Find(id string) (Item, bool) {
	item, ok := s[id]
	return item, ok
}
