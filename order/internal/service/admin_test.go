package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/raffa/cart/pkg/engine"
	inErrors "github.com/Alturino/raffa/internal/errors"
	"github.com/Alturino/raffa/internal/repository"
	"github.com/Alturino/raffa/menu/pkg/catalog"
	"github.com/Alturino/raffa/order/pkg/request"
)

func newMockService(t *testing.T) (pgxmock.PgxPoolIface, OrderService) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	svc := OrderService{
		pool:     mock,
		queries:  repository.New(mock),
		location: time.UTC,
		now:      func() time.Time { return monday },
	}
	return mock, svc
}

func TestDeleteOrderNotFound(t *testing.T) {
	mock, svc := newMockService(t)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectExec("DELETE FROM orders WHERE id").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := svc.DeleteOrder(context.Background(), id)
	assert.ErrorIs(t, err, inErrors.ErrOrderNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatus(t *testing.T) {
	t.Run("given unknown order should return order not found", func(t *testing.T) {
		mock, svc := newMockService(t)
		defer mock.Close()

		id := uuid.New()
		mock.ExpectQuery("UPDATE orders SET status").
			WithArgs(id, "ready").
			WillReturnError(pgx.ErrNoRows)

		_, err := svc.UpdateOrderStatus(context.Background(), id, "ready")
		assert.ErrorIs(t, err, inErrors.ErrOrderNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("given unknown status should not touch the database", func(t *testing.T) {
		mock, svc := newMockService(t)
		defer mock.Close()

		_, err := svc.UpdateOrderStatus(context.Background(), uuid.New(), "lost")
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListOrdersParams(t *testing.T) {
	_, svc := newMockService(t)

	params, err := svc.listOrdersParams(request.Filter{
		Query:  "ana",
		Status: "pending",
		From:   "2025-03-05",
		To:     "2025-03-06",
		Sort:   "oldest",
	})
	require.NoError(t, err)

	assert.Equal(t, "ana", params.Query.String)
	assert.True(t, params.Status.Valid)
	assert.False(t, params.ServiceType.Valid)
	assert.Equal(t, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), params.From.Time)
	assert.Equal(t, time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC), params.To.Time)
	assert.Equal(t, "oldest", params.Sort)

	empty, err := svc.listOrdersParams(request.Filter{})
	require.NoError(t, err)
	assert.False(t, empty.Query.Valid)
	assert.False(t, empty.From.Valid)
	assert.False(t, empty.To.Valid)
}

func TestDecrementStock(t *testing.T) {
	tracked := catalog.Item{ID: uuid.NewString(), Name: "Fishball", Inventory: catalog.Inventory{Tracked: true}}
	untracked := catalog.Item{ID: uuid.NewString(), Name: "Kwek-kwek"}
	trackedID := uuid.MustParse(tracked.ID)

	lines := []verifiedLine{
		{item: tracked, itemID: trackedID, snapshot: engine.SnapshotLine{Quantity: 2}},
		{item: untracked, itemID: uuid.MustParse(untracked.ID), snapshot: engine.SnapshotLine{Quantity: 4}},
		{item: tracked, itemID: trackedID, snapshot: engine.SnapshotLine{Quantity: 1}},
	}

	t.Run("given lines sharing an item should decrement their sum once", func(t *testing.T) {
		mock, svc := newMockService(t)
		defer mock.Close()

		mock.ExpectQuery("UPDATE menu_items").
			WithArgs(trackedID, int32(3)).
			WillReturnRows(pgxmock.NewRows([]string{"id", "stock_quantity", "available"}).AddRow(trackedID, int32(0), false))

		err := decrementStock(context.Background(), svc.queries, lines)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("given guard rejecting the update should return insufficient stock", func(t *testing.T) {
		mock, svc := newMockService(t)
		defer mock.Close()

		mock.ExpectQuery("UPDATE menu_items").
			WithArgs(trackedID, int32(3)).
			WillReturnError(pgx.ErrNoRows)

		err := decrementStock(context.Background(), svc.queries, lines)
		require.ErrorIs(t, err, inErrors.ErrInsufficientStock)
		assert.Equal(t, "insufficient stock for Fishball", err.Error())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
