package service

import (
	"context"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/raffa/cart/pkg/engine"
	"github.com/Alturino/raffa/internal/constants"
	inErrors "github.com/Alturino/raffa/internal/errors"
	"github.com/Alturino/raffa/menu/pkg/catalog"
	"github.com/Alturino/raffa/order/pkg/checkout"
	"github.com/Alturino/raffa/order/pkg/request"
)

const (
	fishballID   = "0b5a6c1e-6f1b-4c9e-9c1e-000000000001"
	kwekKwekID   = "0b5a6c1e-6f1b-4c9e-9c1e-000000000002"
	icedCoffeeID = "0b5a6c1e-6f1b-4c9e-9c1e-000000000003"
	largeID      = "1b5a6c1e-6f1b-4c9e-9c1e-000000000001"
	sweetSauceID = "2b5a6c1e-6f1b-4c9e-9c1e-000000000001"
)

func checkoutCustomer() request.Customer {
	return request.Customer{
		BranchName:          "Makati",
		OwnerRepresentative: "Ana Cruz",
		RecipientName:       "Ben Cruz",
		RecipientContact:    "09171234567",
		ServiceType:         checkout.ServiceTypeDelivery,
		Address:             "12 Rizal St",
		Landmark:            "near the church",
		ScheduledDate:       "2025-03-05",
		ScheduledTime:       "12:30",
		PaymentMethod:       "gcash",
		Notes:               "extra sauce",
	}
}

func buildCart(t *testing.T, c context.Context, env environment) engine.Snapshot {
	snapshot, err := env.provider.Snapshot(c)
	require.NoError(t, err)

	cart := engine.New(snapshot, engine.WithClock(func() time.Time { return monday }))

	fishball, ok := snapshot.Find(fishballID)
	require.True(t, ok)
	sauce, ok := fishball.FindAddOn(sweetSauceID)
	require.True(t, ok)
	cart.AddItem(fishball, nil, []catalog.SelectedAddOn{{AddOn: sauce, Quantity: 1}}, 2)

	coffee, ok := snapshot.Find(icedCoffeeID)
	require.True(t, ok)
	large, ok := coffee.FindVariation(largeID)
	require.True(t, ok)
	cart.AddItem(coffee, &large, nil, 1)

	return cart.Snapshot()
}

func stockOf(t *testing.T, c context.Context, env environment, id string) *int {
	item, err := env.queries.FindMenuItemById(c, uuid.MustParse(id))
	require.NoError(t, err)
	if !item.StockQuantity.Valid {
		return nil
	}
	stock := int(item.StockQuantity.Int32)
	return &stock
}

func TestCheckout(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping checkout integration test in short mode")
	}

	c := context.Background()
	env := setup(t, c)
	defer teardown(t, env)

	t.Run("given available stock should place order and decrement stock", func(t *testing.T) {
		cart := buildCart(t, c, env)
		require.True(t, decimal.RequireFromString("180").Equal(cart.TotalPrice))

		result, err := env.service.Checkout(c, request.Checkout{Customer: checkoutCustomer(), Cart: cart, ClientIP: "10.0.0.1"})
		require.NoError(t, err)

		order := result.Order
		assert.Equal(t, "Branch: Makati | Owner: Ana Cruz | Recipient: Ben Cruz", order.CustomerName)
		assert.Equal(t, "extra sauce | Landmark: near the church", order.Notes)
		assert.Equal(t, "2025-03-05 12:30", order.PickupTime)
		assert.Equal(t, checkout.StatusPending, order.Status)
		assert.True(t, decimal.RequireFromString("180").Equal(order.Total))
		require.Len(t, order.Items, 2)
		assert.Equal(t, "Fishball", order.Items[0].Name)
		assert.Equal(t, 2, order.Items[0].Quantity)
		require.Len(t, order.Items[0].AddOns, 1)
		assert.Equal(t, "Sweet Sauce", order.Items[0].AddOns[0].Name)
		require.NotNil(t, order.Items[1].Variation)
		assert.Equal(t, "Large", order.Items[1].Variation.Name)

		assert.Contains(t, result.Message, "💰 TOTAL: ₱180.00")
		link, err := url.Parse(result.MessengerLink)
		require.NoError(t, err)
		assert.Equal(t, "/61574906107219", link.Path)
		assert.Equal(t, result.Message, link.Query().Get("text"))

		stock := stockOf(t, c, env, fishballID)
		require.NotNil(t, stock)
		assert.Equal(t, 1, *stock)
		assert.Nil(t, stockOf(t, c, env, icedCoffeeID))

		found, err := env.service.FindOrderById(c, order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.ID, found.ID)
		assert.Len(t, found.Items, 2)
	})

	t.Run("given second order from same ip within window should be rate limited", func(t *testing.T) {
		cart := engine.Snapshot{
			Lines: []engine.SnapshotLine{
				{ItemID: kwekKwekID, Name: "Kwek-kwek", UnitTotalPrice: decimal.RequireFromString("40"), Quantity: 1},
			},
			TotalItems: 1,
		}
		_, err := env.service.Checkout(c, request.Checkout{Customer: checkoutCustomer(), Cart: cart, ClientIP: "10.0.0.1"})
		assert.ErrorIs(t, err, inErrors.ErrRateLimited)
	})

	t.Run("given more than stock should reject and release rate limit", func(t *testing.T) {
		cart := engine.Snapshot{
			Lines: []engine.SnapshotLine{
				{ItemID: kwekKwekID, Name: "Kwek-kwek", UnitTotalPrice: decimal.RequireFromString("40"), Quantity: 3},
				{ItemID: fishballID, Name: "Fishball", UnitTotalPrice: decimal.RequireFromString("25"), Quantity: 2},
			},
			TotalItems: 5,
		}
		_, err := env.service.Checkout(c, request.Checkout{Customer: checkoutCustomer(), Cart: cart, ClientIP: "10.0.0.2"})
		require.ErrorIs(t, err, inErrors.ErrInsufficientStock)
		assert.Contains(t, err.Error(), "insufficient stock for Fishball")

		stock := stockOf(t, c, env, fishballID)
		require.NotNil(t, stock)
		assert.Equal(t, 1, *stock)

		exists, err := env.cache.Exists(c, constants.CacheKeyRateLimitPrefix+"10.0.0.2").Result()
		require.NoError(t, err)
		assert.Zero(t, exists)

		orders, err := env.service.ListOrders(c, request.Filter{})
		require.NoError(t, err)
		assert.Len(t, orders, 1)
	})

	t.Run("given inactive payment method should reject", func(t *testing.T) {
		details := checkoutCustomer()
		details.PaymentMethod = "cash"
		_, err := env.service.Checkout(c, request.Checkout{Customer: details, Cart: buildCart(t, c, env), ClientIP: "10.0.0.3"})
		assert.ErrorIs(t, err, inErrors.ErrInactivePaymentMethod)
	})

	t.Run("given last unit ordered should mark item unavailable", func(t *testing.T) {
		cart := engine.Snapshot{
			Lines: []engine.SnapshotLine{
				{ItemID: fishballID, Name: "Fishball", UnitTotalPrice: decimal.RequireFromString("25"), Quantity: 1},
			},
			TotalItems: 1,
		}
		_, err := env.service.Checkout(c, request.Checkout{Customer: checkoutCustomer(), Cart: cart, ClientIP: "10.0.0.4"})
		require.NoError(t, err)

		item, err := env.queries.FindMenuItemById(c, uuid.MustParse(fishballID))
		require.NoError(t, err)
		assert.Equal(t, int32(0), item.StockQuantity.Int32)
		assert.False(t, item.Available)

		customers, err := env.service.ListCustomers(c, request.CustomerFilter{Query: "makati"})
		require.NoError(t, err)
		require.Len(t, customers, 1)
		assert.Equal(t, 2, customers[0].OrderCount)
		assert.True(t, decimal.RequireFromString("205").Equal(customers[0].TotalSpent))
	})
	t.Run("given non positive unit price should reject without placing order", func(t *testing.T) {
		before, err := env.service.ListOrders(c, request.Filter{})
		require.NoError(t, err)

		for i, price := range []string{"0", "-40"} {
			cart := engine.Snapshot{
				Lines: []engine.SnapshotLine{
					{ItemID: kwekKwekID, Name: "Kwek-kwek", UnitTotalPrice: decimal.RequireFromString(price), Quantity: 1},
				},
				TotalItems: 1,
			}
			ip := fmt.Sprintf("10.0.0.%d", 5+i)
			_, err := env.service.Checkout(c, request.Checkout{Customer: checkoutCustomer(), Cart: cart, ClientIP: ip})
			require.ErrorIs(t, err, inErrors.ErrInvalidPrice)
			assert.Contains(t, err.Error(), "Kwek-kwek")
		}

		after, err := env.service.ListOrders(c, request.Filter{})
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})
}
