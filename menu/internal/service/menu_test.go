package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inErrors "github.com/Alturino/raffa/internal/errors"
	"github.com/Alturino/raffa/internal/repository"
)

func newMockService(t *testing.T) (pgxmock.PgxPoolIface, MenuService) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	queries := repository.New(mock)
	return mock, NewMenuService(mock, queries, nil)
}

func menuItemRows(id uuid.UUID) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "name", "description", "base_price", "category", "popular", "available", "image_url",
		"discount_price", "discount_start_date", "discount_end_date", "discount_active",
		"track_inventory", "stock_quantity", "low_stock_threshold", "sort_order", "created_at", "updated_at",
	}).AddRow(
		id, "Kwek-kwek", "", repository.NumericFromDecimal(decimal.NewFromInt(40)), "sticks", false, true, pgtype.Text{},
		pgtype.Numeric{}, pgtype.Timestamptz{}, pgtype.Timestamptz{}, false,
		false, pgtype.Int4{}, int32(0), int32(2), pgtype.Timestamptz{}, pgtype.Timestamptz{},
	)
}

func TestWriteInventoryErrors(t *testing.T) {
	id := uuid.MustParse("0b5a6c1e-6f1b-4c9e-9c1e-000000000002")

	tests := []struct {
		name        string
		itemExists  bool
		expectedErr error
	}{
		{
			name:        "given untracked item should return inventory not tracked",
			itemExists:  true,
			expectedErr: inErrors.ErrInventoryNotTracked,
		},
		{
			name:        "given missing item should return menu item not found",
			itemExists:  false,
			expectedErr: inErrors.ErrMenuItemNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, svc := newMockService(t)
			defer mock.Close()

			mock.ExpectQuery("UPDATE menu_items").
				WithArgs(id, int32(5)).
				WillReturnError(pgx.ErrNoRows)
			find := mock.ExpectQuery("FROM menu_items").WithArgs(id)
			if tt.itemExists {
				find.WillReturnRows(menuItemRows(id))
			} else {
				find.WillReturnError(pgx.ErrNoRows)
			}

			_, err := svc.AdjustStock(context.Background(), id, 5)

			assert.ErrorIs(t, err, tt.expectedErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDeleteMenuItemNotFound(t *testing.T) {
	mock, svc := newMockService(t)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectExec("DELETE FROM menu_items").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := svc.DeleteMenuItem(context.Background(), id)

	assert.ErrorIs(t, err, inErrors.ErrMenuItemNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCategoryInUse(t *testing.T) {
	mock, svc := newMockService(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM categories").
		WithArgs("sticks").
		WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation})

	err := svc.DeleteCategory(context.Background(), "sticks")

	assert.ErrorIs(t, err, inErrors.ErrCategoryInUse)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReorderMenuItemsRollsBackOnMissingItem(t *testing.T) {
	mock, svc := newMockService(t)
	defer mock.Close()

	first, second := uuid.New(), uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE menu_items SET sort_order").
		WithArgs(first, int32(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE menu_items SET sort_order").
		WithArgs(second, int32(2)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := svc.ReorderMenuItems(context.Background(), []uuid.UUID{first, second})

	assert.ErrorIs(t, err, inErrors.ErrMenuItemNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
