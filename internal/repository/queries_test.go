package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCategories(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := pgtype.Timestamptz{Time: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), Valid: true}
	mock.ExpectQuery("FROM categories").
		WithArgs(false).
		WillReturnRows(
			pgxmock.NewRows([]string{"id", "name", "icon", "sort_order", "active", "created_at", "updated_at"}).
				AddRow("sticks", "Sticks", "🍢", int32(1), true, now, now).
				AddRow("drinks", "Drinks", "🥤", int32(2), true, now, now),
		)

	actual, err := New(mock).ListCategories(context.Background(), false)

	require.NoError(t, err)
	assert.Len(t, actual, 2)
	assert.Equal(t, "sticks", actual[0].ID)
	assert.Equal(t, int32(2), actual[1].SortOrder)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrementStock(t *testing.T) {
	id := uuid.MustParse("0b5a6c1e-6f1b-4c9e-9c1e-000000000001")

	tests := []struct {
		name        string
		quantity    int32
		rows        *pgxmock.Rows
		expected    DecrementStockRow
		expectedErr error
	}{
		{
			name:     "given enough stock should return remaining stock",
			quantity: 2,
			rows: pgxmock.NewRows([]string{"id", "stock_quantity", "available"}).
				AddRow(id, int32(1), true),
			expected: DecrementStockRow{ID: id, StockQuantity: 1, Available: true},
		},
		{
			name:     "given last unit should return unavailable",
			quantity: 3,
			rows: pgxmock.NewRows([]string{"id", "stock_quantity", "available"}).
				AddRow(id, int32(0), false),
			expected: DecrementStockRow{ID: id, StockQuantity: 0, Available: false},
		},
		{
			name:        "given insufficient stock should return no rows",
			quantity:    4,
			rows:        pgxmock.NewRows([]string{"id", "stock_quantity", "available"}),
			expectedErr: pgx.ErrNoRows,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			mock.ExpectQuery("UPDATE menu_items").
				WithArgs(id, tt.quantity).
				WillReturnRows(tt.rows)

			actual, err := New(mock).DecrementStock(context.Background(), id, tt.quantity)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, actual)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDeleteOrder(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectExec("DELETE FROM orders").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	affected, err := New(mock).DeleteOrder(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNextCategorySortOrder(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("next_sort_order").
		WillReturnRows(pgxmock.NewRows([]string{"next_sort_order"}).AddRow(int32(3)))

	actual, err := New(mock).NextCategorySortOrder(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int32(3), actual)
	assert.NoError(t, mock.ExpectationsWereMet())
}
