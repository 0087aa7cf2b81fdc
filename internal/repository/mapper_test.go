package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCatalogItems(t *testing.T) {
	fishballID := uuid.New()
	coffeeID := uuid.New()
	largeID := uuid.New()
	sauceID := uuid.New()
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	items := []MenuItem{
		{
			ID:                fishballID,
			Name:              "Fishball",
			BasePrice:         NumericFromDecimal(decimal.NewFromInt(25)),
			Category:          "sticks",
			Available:         true,
			TrackInventory:    true,
			StockQuantity:     pgtype.Int4{Int32: 3, Valid: true},
			LowStockThreshold: 1,
		},
		{
			ID:                coffeeID,
			Name:              "Iced Coffee",
			BasePrice:         NumericFromDecimal(decimal.NewFromInt(100)),
			Category:          "drinks",
			Available:         true,
			DiscountPrice:     NumericFromDecimal(decimal.NewFromInt(90)),
			DiscountStartDate: pgtype.Timestamptz{Time: start, Valid: true},
			DiscountActive:    true,
		},
	}
	variations := []Variation{
		{ID: largeID, MenuItemID: coffeeID, Name: "Large", Price: NumericFromDecimal(decimal.NewFromInt(120))},
	}
	addOns := []AddOn{
		{ID: sauceID, MenuItemID: fishballID, Name: "Sweet Sauce", Price: NumericFromDecimal(decimal.NewFromInt(5)), Category: "sauce"},
	}

	actual := ToCatalogItems(items, variations, addOns)

	require.Len(t, actual, 2)

	fishball := actual[0]
	assert.Equal(t, fishballID.String(), fishball.ID)
	assert.Nil(t, fishball.Discount)
	assert.True(t, fishball.Inventory.Tracked)
	require.NotNil(t, fishball.Inventory.StockQuantity)
	assert.Equal(t, 3, *fishball.Inventory.StockQuantity)
	assert.Empty(t, fishball.Variations)
	require.Len(t, fishball.AddOns, 1)
	assert.Equal(t, sauceID.String(), fishball.AddOns[0].ID)
	assert.True(t, decimal.NewFromInt(5).Equal(fishball.AddOns[0].Price))

	coffee := actual[1]
	require.NotNil(t, coffee.Discount)
	assert.True(t, coffee.Discount.Active)
	assert.True(t, decimal.NewFromInt(90).Equal(coffee.Discount.Price.Decimal))
	require.NotNil(t, coffee.Discount.Start)
	assert.Nil(t, coffee.Discount.End)
	assert.Nil(t, coffee.Inventory.StockQuantity)
	require.Len(t, coffee.Variations, 1)
	assert.Equal(t, "Large", coffee.Variations[0].Name)
	assert.Empty(t, coffee.AddOns)
}
