package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/raffa/cart/pkg/request"
	inErrors "github.com/Alturino/raffa/internal/errors"
	inHttp "github.com/Alturino/raffa/internal/http"
	"github.com/Alturino/raffa/menu/pkg/catalog"
)

func customer() request.Checkout {
	return request.Checkout{
		BranchName:          "Tondo",
		OwnerRepresentative: "Raffa",
		RecipientName:       "Juan",
		RecipientContact:    "09171234567",
		ServiceType:         "pickup",
		ScheduledDate:       "2025-03-12",
		ScheduledTime:       "10:00",
		PaymentMethod:       "gcash",
	}
}

func TestResolveSelection(t *testing.T) {
	items := catalog.NewSnapshot(menuItems())

	testCases := []struct {
		name    string
		param   request.AddItem
		wantErr error
	}{
		{
			name:    "unknown item",
			param:   request.AddItem{ItemID: uuid.NewString()},
			wantErr: inErrors.ErrMenuItemNotFound,
		},
		{
			name:    "unknown variation",
			param:   request.AddItem{ItemID: coffeeID, VariationID: uuid.NewString()},
			wantErr: inErrors.ErrVariationNotFound,
		},
		{
			name:    "unknown add-on",
			param:   request.AddItem{ItemID: fishballID, AddOns: []request.AddOn{{ID: uuid.NewString()}}},
			wantErr: inErrors.ErrAddOnNotFound,
		},
		{
			name:  "sold out tracked item is left to the stock ceiling",
			param: request.AddItem{ItemID: soldOutID},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := resolveSelection(items, tc.param)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}

	t.Run("unavailable untracked item is rejected", func(t *testing.T) {
		hidden := menuItems()[1]
		hidden.Available = false

		_, _, _, err := resolveSelection(catalog.NewSnapshot([]catalog.Item{hidden}), request.AddItem{ItemID: coffeeID})

		assert.ErrorIs(t, err, inErrors.ErrItemUnavailable)
	})

	t.Run("add-on without quantity counts once", func(t *testing.T) {
		item, variation, addOns, err := resolveSelection(items, request.AddItem{
			ItemID: fishballID,
			AddOns: []request.AddOn{{ID: sauceID}},
		})

		require.NoError(t, err)
		assert.Equal(t, "Fishball", item.Name)
		assert.Nil(t, variation)
		require.Len(t, addOns, 1)
		assert.Equal(t, 1, addOns[0].Quantity)
		assert.Equal(t, "Sweet Sauce", addOns[0].Name)
	})
}

func TestCartService(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping cart service integration test")
	}

	c := context.Background()
	env := setup(t, c)
	t.Cleanup(func() { teardown(t, env) })

	svc := env.service

	t.Run("unknown cart is not found", func(t *testing.T) {
		_, err := svc.GetCart(c, uuid.New())
		assert.ErrorIs(t, err, inErrors.ErrCartNotFound)

		_, err = svc.AddItem(c, uuid.New(), request.AddItem{ItemID: fishballID})
		assert.ErrorIs(t, err, inErrors.ErrCartNotFound)
	})

	t.Run("empty cart cannot be checked out", func(t *testing.T) {
		cart, err := svc.CreateCart(c)
		require.NoError(t, err)
		assert.Empty(t, cart.Lines)

		_, err = svc.Checkout(c, cart.ID, customer(), "10.0.0.1")
		assert.ErrorIs(t, err, inErrors.ErrEmptyCart)
		assert.Empty(t, env.orders.received())
	})

	t.Run("quantities are capped at the stock ceiling", func(t *testing.T) {
		cart, err := svc.CreateCart(c)
		require.NoError(t, err)

		added, err := svc.AddItem(c, cart.ID, request.AddItem{
			ItemID:   fishballID,
			AddOns:   []request.AddOn{{ID: sauceID, Quantity: 2}},
			Quantity: 5,
		})
		require.NoError(t, err)
		assert.True(t, added.Result.Clamped)
		assert.Equal(t, 3, added.Result.Quantity)
		assert.Equal(t, 5, added.Result.Requested)

		updated, err := svc.UpdateQuantity(c, cart.ID, added.Result.LineID, 10)
		require.NoError(t, err)
		assert.True(t, updated.Result.Clamped)
		assert.Equal(t, 3, updated.Result.Quantity)

		ttlBefore, err := env.cache.TTL(c, cartKey(cart.ID)).Result()
		require.NoError(t, err)
		missing, err := svc.UpdateQuantity(c, cart.ID, "missing:line:", 1)
		require.NoError(t, err)
		assert.False(t, missing.Result.Found)
		assert.False(t, missing.Result.Clamped)
		require.Len(t, missing.Cart.Lines, 1)
		assert.Equal(t, 3, missing.Cart.Lines[0].Quantity)
		ttlAfter, err := env.cache.TTL(c, cartKey(cart.ID)).Result()
		require.NoError(t, err)
		assert.LessOrEqual(t, ttlAfter, ttlBefore)

		soldOut, err := svc.AddItem(c, cart.ID, request.AddItem{ItemID: soldOutID})
		require.NoError(t, err)
		assert.True(t, soldOut.Result.Clamped)
		assert.Equal(t, 0, soldOut.Result.Quantity)

		found, err := svc.GetCart(c, cart.ID)
		require.NoError(t, err)
		require.Len(t, found.Lines, 1)
		assert.Equal(t, 3, found.TotalItems)
		assert.True(t, decimal.RequireFromString("105.00").Equal(found.TotalPrice))
	})

	t.Run("removing and clearing lines", func(t *testing.T) {
		cart, err := svc.CreateCart(c)
		require.NoError(t, err)

		added, err := svc.AddItem(c, cart.ID, request.AddItem{ItemID: coffeeID, VariationID: largeID, Quantity: 2})
		require.NoError(t, err)
		assert.False(t, added.Result.Clamped)

		unchanged, err := svc.RemoveItem(c, cart.ID, "missing:line:")
		require.NoError(t, err)
		assert.Len(t, unchanged.Lines, 1)

		removed, err := svc.RemoveItem(c, cart.ID, added.Result.LineID)
		require.NoError(t, err)
		assert.Empty(t, removed.Lines)

		_, err = svc.AddItem(c, cart.ID, request.AddItem{ItemID: coffeeID})
		require.NoError(t, err)
		cleared, err := svc.Clear(c, cart.ID)
		require.NoError(t, err)
		assert.Empty(t, cleared.Lines)
		assert.Equal(t, 0, cleared.TotalItems)
	})

	t.Run("rejected checkout keeps the cart", func(t *testing.T) {
		cart, err := svc.CreateCart(c)
		require.NoError(t, err)
		_, err = svc.AddItem(c, cart.ID, request.AddItem{ItemID: coffeeID, VariationID: largeID})
		require.NoError(t, err)

		env.orders.rejectWith(http.StatusTooManyRequests)
		t.Cleanup(func() { env.orders.rejectWith(0) })

		_, err = svc.Checkout(c, cart.ID, customer(), "10.0.0.2")
		var upstream *inHttp.UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
		assert.Equal(t, errRejected.Error(), upstream.Message)

		found, err := svc.GetCart(c, cart.ID)
		require.NoError(t, err)
		assert.Len(t, found.Lines, 1)
	})

	t.Run("accepted checkout forwards the snapshot and empties the cart", func(t *testing.T) {
		env.orders.rejectWith(0)
		before := len(env.orders.received())

		cart, err := svc.CreateCart(c)
		require.NoError(t, err)
		_, err = svc.AddItem(c, cart.ID, request.AddItem{ItemID: coffeeID, VariationID: largeID, Quantity: 2})
		require.NoError(t, err)

		result, err := svc.Checkout(c, cart.ID, customer(), "10.0.0.3")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, result.Order.ID)
		assert.Equal(t, "order message", result.Message)
		assert.True(t, decimal.RequireFromString("240.00").Equal(result.Order.Total))

		received := env.orders.received()
		require.Len(t, received, before+1)
		sent := received[before]
		assert.Equal(t, "10.0.0.3", sent.ClientIP)
		assert.Equal(t, "Juan", sent.RecipientName)
		require.Len(t, sent.Cart.Lines, 1)
		assert.Equal(t, "Large", sent.Cart.Lines[0].VariationName)
		assert.Equal(t, 2, sent.Cart.TotalItems)

		found, err := svc.GetCart(c, cart.ID)
		require.NoError(t, err)
		assert.Empty(t, found.Lines)
	})
}
