package catalog

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func ptrTime(t time.Time) *time.Time {
	return &t
}

func TestResolveEffectivePrice(t *testing.T) {
	now := time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC)
	start := now.Add(-time.Hour)
	end := now.Add(time.Hour)

	base := Item{ID: "coffee-1", BasePrice: decimal.NewFromInt(100)}
	withDiscount := func(d Discount) Item {
		item := base
		item.Discount = &d
		return item
	}

	tests := []struct {
		name     string
		item     Item
		now      time.Time
		expected decimal.Decimal
	}{
		{
			name:     "given no discount should return base price",
			item:     base,
			now:      now,
			expected: decimal.NewFromInt(100),
		},
		{
			name: "given active discount without bounds should return discount price",
			item: withDiscount(Discount{
				Price:  decimal.NewNullDecimal(decimal.NewFromInt(80)),
				Active: true,
			}),
			now:      now,
			expected: decimal.NewFromInt(80),
		},
		{
			name: "given inactive discount flag should return base price",
			item: withDiscount(Discount{
				Price: decimal.NewNullDecimal(decimal.NewFromInt(80)),
				Start: ptrTime(start),
				End:   ptrTime(end),
			}),
			now:      now,
			expected: decimal.NewFromInt(100),
		},
		{
			name: "given active discount without price should return base price",
			item: withDiscount(Discount{
				Active: true,
			}),
			now:      now,
			expected: decimal.NewFromInt(100),
		},
		{
			name: "given now equal to start should return discount price",
			item: withDiscount(Discount{
				Price:  decimal.NewNullDecimal(decimal.NewFromInt(80)),
				Start:  ptrTime(now),
				End:    ptrTime(end),
				Active: true,
			}),
			now:      now,
			expected: decimal.NewFromInt(80),
		},
		{
			name: "given now equal to end should return discount price",
			item: withDiscount(Discount{
				Price:  decimal.NewNullDecimal(decimal.NewFromInt(80)),
				Start:  ptrTime(start),
				End:    ptrTime(now),
				Active: true,
			}),
			now:      now,
			expected: decimal.NewFromInt(80),
		},
		{
			name: "given now before start should return base price",
			item: withDiscount(Discount{
				Price:  decimal.NewNullDecimal(decimal.NewFromInt(80)),
				Start:  ptrTime(now.Add(time.Nanosecond)),
				Active: true,
			}),
			now:      now,
			expected: decimal.NewFromInt(100),
		},
		{
			name: "given now after end should return base price",
			item: withDiscount(Discount{
				Price:  decimal.NewNullDecimal(decimal.NewFromInt(80)),
				End:    ptrTime(now.Add(-time.Nanosecond)),
				Active: true,
			}),
			now:      now,
			expected: decimal.NewFromInt(100),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := ResolveEffectivePrice(tt.item, tt.now)
			assert.True(t, tt.expected.Equal(actual), "expected %s got %s", tt.expected, actual)
		})
	}
}

func TestResolveUnitTotalPrice(t *testing.T) {
	now := time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC)
	item := Item{
		ID:        "stick-1",
		BasePrice: decimal.NewFromInt(90),
		Discount: &Discount{
			Price:  decimal.NewNullDecimal(decimal.NewFromInt(70)),
			Active: true,
		},
		Variations: []Variation{
			{ID: "large", Name: "Large", Price: decimal.NewFromInt(120)},
		},
		AddOns: []AddOn{
			{ID: "cheese", Name: "Cheese", Price: decimal.NewFromInt(15), Category: "toppings"},
			{ID: "egg", Name: "Egg", Price: decimal.RequireFromString("12.50"), Category: "toppings"},
		},
	}
	large, _ := item.FindVariation("large")
	cheese, _ := item.FindAddOn("cheese")
	egg, _ := item.FindAddOn("egg")

	tests := []struct {
		name      string
		variation *Variation
		addOns    []SelectedAddOn
		expected  decimal.Decimal
	}{
		{
			name:     "given no selection should return discounted price",
			expected: decimal.NewFromInt(70),
		},
		{
			name:      "given Large variation should ignore discount and return variation price",
			variation: &large,
			expected:  decimal.NewFromInt(120),
		},
		{
			name: "given add-ons should add price times quantity",
			addOns: []SelectedAddOn{
				{AddOn: cheese, Quantity: 2},
				{AddOn: egg, Quantity: 1},
			},
			expected: decimal.RequireFromString("112.50"),
		},
		{
			name:      "given add-on with zero quantity should count it once",
			variation: &large,
			addOns: []SelectedAddOn{
				{AddOn: cheese, Quantity: 0},
			},
			expected: decimal.NewFromInt(135),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := ResolveUnitTotalPrice(item, tt.variation, tt.addOns, now)
			assert.True(t, tt.expected.Equal(actual), "expected %s got %s", tt.expected, actual)
		})
	}
}
