package repository

import (
	"context"

	"github.com/google/uuid"
)

const adjustStock = `-- name: AdjustStock :one
UPDATE menu_items
SET stock_quantity = GREATEST(COALESCE(stock_quantity, 0) + $2, 0),
    available = GREATEST(COALESCE(stock_quantity, 0) + $2, 0) > 0,
    updated_at = NOW()
WHERE id = $1 AND track_inventory
RETURNING ` + menuItemColumns

// AdjustStock applies delta to a tracked item, never going below zero.
func (q *Queries) AdjustStock(ctx context.Context, id uuid.UUID, delta int32) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRow(ctx, adjustStock, id, delta))
}

const setStock = `-- name: SetStock :one
UPDATE menu_items
SET stock_quantity = GREATEST($2::int, 0),
    available = GREATEST($2::int, 0) > 0,
    updated_at = NOW()
WHERE id = $1 AND track_inventory
RETURNING ` + menuItemColumns

func (q *Queries) SetStock(ctx context.Context, id uuid.UUID, stock int32) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRow(ctx, setStock, id, stock))
}

const setLowStockThreshold = `-- name: SetLowStockThreshold :one
UPDATE menu_items
SET low_stock_threshold = GREATEST($2::int, 0),
    updated_at = NOW()
WHERE id = $1 AND track_inventory
RETURNING ` + menuItemColumns

func (q *Queries) SetLowStockThreshold(ctx context.Context, id uuid.UUID, threshold int32) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRow(ctx, setLowStockThreshold, id, threshold))
}

const enableInventoryTracking = `-- name: EnableInventoryTracking :one
UPDATE menu_items
SET track_inventory = TRUE,
    stock_quantity = COALESCE(stock_quantity, 0),
    available = COALESCE(stock_quantity, 0) > low_stock_threshold,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + menuItemColumns

func (q *Queries) EnableInventoryTracking(ctx context.Context, id uuid.UUID) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRow(ctx, enableInventoryTracking, id))
}

const disableInventoryTracking = `-- name: DisableInventoryTracking :one
UPDATE menu_items
SET track_inventory = FALSE,
    stock_quantity = NULL,
    low_stock_threshold = 0,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + menuItemColumns

func (q *Queries) DisableInventoryTracking(ctx context.Context, id uuid.UUID) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRow(ctx, disableInventoryTracking, id))
}

type DecrementStockRow struct {
	ID            uuid.UUID `json:"id"`
	StockQuantity int32     `json:"stock_quantity"`
	Available     bool      `json:"available"`
}

const decrementStock = `-- name: DecrementStock :one
UPDATE menu_items
SET stock_quantity = stock_quantity - $2,
    available = stock_quantity - $2 > 0,
    updated_at = NOW()
WHERE id = $1
    AND track_inventory
    AND stock_quantity IS NOT NULL
    AND stock_quantity >= $2
RETURNING id, stock_quantity, available
`

// DecrementStock returns pgx.ErrNoRows when the item does not hold quantity
// units of stock.
func (q *Queries) DecrementStock(ctx context.Context, id uuid.UUID, quantity int32) (DecrementStockRow, error) {
	row := q.db.QueryRow(ctx, decrementStock, id, quantity)
	var i DecrementStockRow
	err := row.Scan(&i.ID, &i.StockQuantity, &i.Available)
	return i, err
}
