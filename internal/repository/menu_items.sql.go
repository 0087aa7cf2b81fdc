package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const menuItemColumns = `id, name, description, base_price, category, popular, available, image_url,
    discount_price, discount_start_date, discount_end_date, discount_active,
    track_inventory, stock_quantity, low_stock_threshold, sort_order, created_at, updated_at`

func scanMenuItem(row pgx.Row) (MenuItem, error) {
	var i MenuItem
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.BasePrice,
		&i.Category,
		&i.Popular,
		&i.Available,
		&i.ImageUrl,
		&i.DiscountPrice,
		&i.DiscountStartDate,
		&i.DiscountEndDate,
		&i.DiscountActive,
		&i.TrackInventory,
		&i.StockQuantity,
		&i.LowStockThreshold,
		&i.SortOrder,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func collectMenuItems(rows pgx.Rows) ([]MenuItem, error) {
	defer rows.Close()
	items := []MenuItem{}
	for rows.Next() {
		i, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listMenuItems = `-- name: ListMenuItems :many
SELECT m.id, m.name, m.description, m.base_price, m.category, m.popular, m.available, m.image_url,
    m.discount_price, m.discount_start_date, m.discount_end_date, m.discount_active,
    m.track_inventory, m.stock_quantity, m.low_stock_threshold, m.sort_order, m.created_at, m.updated_at
FROM menu_items m
LEFT JOIN categories c ON c.id = m.category
ORDER BY COALESCE(c.sort_order, 0), m.sort_order, m.name
`

func (q *Queries) ListMenuItems(ctx context.Context) ([]MenuItem, error) {
	rows, err := q.db.Query(ctx, listMenuItems)
	if err != nil {
		return nil, err
	}
	return collectMenuItems(rows)
}

const findMenuItemById = `-- name: FindMenuItemById :one
SELECT ` + menuItemColumns + `
FROM menu_items
WHERE id = $1
`

func (q *Queries) FindMenuItemById(ctx context.Context, id uuid.UUID) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRow(ctx, findMenuItemById, id))
}

const findMenuItemsByIdsForUpdate = `-- name: FindMenuItemsByIdsForUpdate :many
SELECT ` + menuItemColumns + `
FROM menu_items
WHERE id = ANY($1::uuid[])
ORDER BY id
FOR UPDATE
`

func (q *Queries) FindMenuItemsByIdsForUpdate(ctx context.Context, ids []uuid.UUID) ([]MenuItem, error) {
	rows, err := q.db.Query(ctx, findMenuItemsByIdsForUpdate, ids)
	if err != nil {
		return nil, err
	}
	return collectMenuItems(rows)
}

const nextMenuItemSortOrder = `-- name: NextMenuItemSortOrder :one
SELECT (COALESCE(MAX(sort_order), 0) + 1)::int AS next_sort_order
FROM menu_items
WHERE category = $1
`

func (q *Queries) NextMenuItemSortOrder(ctx context.Context, category string) (int32, error) {
	row := q.db.QueryRow(ctx, nextMenuItemSortOrder, category)
	var next int32
	err := row.Scan(&next)
	return next, err
}

type InsertMenuItemParams struct {
	Name              string             `json:"name"`
	Description       string             `json:"description"`
	BasePrice         pgtype.Numeric     `json:"base_price"`
	Category          string             `json:"category"`
	Popular           bool               `json:"popular"`
	Available         bool               `json:"available"`
	ImageUrl          pgtype.Text        `json:"image_url"`
	DiscountPrice     pgtype.Numeric     `json:"discount_price"`
	DiscountStartDate pgtype.Timestamptz `json:"discount_start_date"`
	DiscountEndDate   pgtype.Timestamptz `json:"discount_end_date"`
	DiscountActive    bool               `json:"discount_active"`
	TrackInventory    bool               `json:"track_inventory"`
	StockQuantity     pgtype.Int4        `json:"stock_quantity"`
	LowStockThreshold int32              `json:"low_stock_threshold"`
	SortOrder         int32              `json:"sort_order"`
}

const insertMenuItem = `-- name: InsertMenuItem :one
INSERT INTO menu_items (
    name, description, base_price, category, popular, available, image_url,
    discount_price, discount_start_date, discount_end_date, discount_active,
    track_inventory, stock_quantity, low_stock_threshold, sort_order
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
)
RETURNING ` + menuItemColumns

func (q *Queries) InsertMenuItem(ctx context.Context, arg InsertMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, insertMenuItem,
		arg.Name,
		arg.Description,
		arg.BasePrice,
		arg.Category,
		arg.Popular,
		arg.Available,
		arg.ImageUrl,
		arg.DiscountPrice,
		arg.DiscountStartDate,
		arg.DiscountEndDate,
		arg.DiscountActive,
		arg.TrackInventory,
		arg.StockQuantity,
		arg.LowStockThreshold,
		arg.SortOrder,
	)
	return scanMenuItem(row)
}

type UpdateMenuItemParams struct {
	ID                uuid.UUID          `json:"id"`
	Name              string             `json:"name"`
	Description       string             `json:"description"`
	BasePrice         pgtype.Numeric     `json:"base_price"`
	Category          string             `json:"category"`
	Popular           bool               `json:"popular"`
	Available         bool               `json:"available"`
	ImageUrl          pgtype.Text        `json:"image_url"`
	DiscountPrice     pgtype.Numeric     `json:"discount_price"`
	DiscountStartDate pgtype.Timestamptz `json:"discount_start_date"`
	DiscountEndDate   pgtype.Timestamptz `json:"discount_end_date"`
	DiscountActive    bool               `json:"discount_active"`
	TrackInventory    bool               `json:"track_inventory"`
	StockQuantity     pgtype.Int4        `json:"stock_quantity"`
	LowStockThreshold int32              `json:"low_stock_threshold"`
}

const updateMenuItem = `-- name: UpdateMenuItem :one
UPDATE menu_items
SET name = $2,
    description = $3,
    base_price = $4,
    category = $5,
    popular = $6,
    available = $7,
    image_url = $8,
    discount_price = $9,
    discount_start_date = $10,
    discount_end_date = $11,
    discount_active = $12,
    track_inventory = $13,
    stock_quantity = $14,
    low_stock_threshold = $15,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + menuItemColumns

func (q *Queries) UpdateMenuItem(ctx context.Context, arg UpdateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, updateMenuItem,
		arg.ID,
		arg.Name,
		arg.Description,
		arg.BasePrice,
		arg.Category,
		arg.Popular,
		arg.Available,
		arg.ImageUrl,
		arg.DiscountPrice,
		arg.DiscountStartDate,
		arg.DiscountEndDate,
		arg.DiscountActive,
		arg.TrackInventory,
		arg.StockQuantity,
		arg.LowStockThreshold,
	)
	return scanMenuItem(row)
}

const deleteMenuItem = `-- name: DeleteMenuItem :execrows
DELETE FROM menu_items WHERE id = $1
`

func (q *Queries) DeleteMenuItem(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteMenuItem, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const updateMenuItemSortOrder = `-- name: UpdateMenuItemSortOrder :execrows
UPDATE menu_items SET sort_order = $2, updated_at = NOW() WHERE id = $1
`

func (q *Queries) UpdateMenuItemSortOrder(ctx context.Context, id uuid.UUID, sortOrder int32) (int64, error) {
	result, err := q.db.Exec(ctx, updateMenuItemSortOrder, id, sortOrder)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const listVariationsByMenuItemIds = `-- name: ListVariationsByMenuItemIds :many
SELECT id, menu_item_id, name, price, created_at
FROM variations
WHERE menu_item_id = ANY($1::uuid[])
ORDER BY price, name
`

func (q *Queries) ListVariationsByMenuItemIds(ctx context.Context, ids []uuid.UUID) ([]Variation, error) {
	rows, err := q.db.Query(ctx, listVariationsByMenuItemIds, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Variation{}
	for rows.Next() {
		var i Variation
		if err := rows.Scan(&i.ID, &i.MenuItemID, &i.Name, &i.Price, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listAddOnsByMenuItemIds = `-- name: ListAddOnsByMenuItemIds :many
SELECT id, menu_item_id, name, price, category, created_at
FROM add_ons
WHERE menu_item_id = ANY($1::uuid[])
ORDER BY category, name
`

func (q *Queries) ListAddOnsByMenuItemIds(ctx context.Context, ids []uuid.UUID) ([]AddOn, error) {
	rows, err := q.db.Query(ctx, listAddOnsByMenuItemIds, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []AddOn{}
	for rows.Next() {
		var i AddOn
		if err := rows.Scan(&i.ID, &i.MenuItemID, &i.Name, &i.Price, &i.Category, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteVariationsByMenuItemId = `-- name: DeleteVariationsByMenuItemId :exec
DELETE FROM variations WHERE menu_item_id = $1
`

func (q *Queries) DeleteVariationsByMenuItemId(ctx context.Context, menuItemID uuid.UUID) error {
	_, err := q.db.Exec(ctx, deleteVariationsByMenuItemId, menuItemID)
	return err
}

type InsertVariationParams struct {
	MenuItemID uuid.UUID      `json:"menu_item_id"`
	Name       string         `json:"name"`
	Price      pgtype.Numeric `json:"price"`
}

const insertVariation = `-- name: InsertVariation :one
INSERT INTO variations (menu_item_id, name, price)
VALUES ($1, $2, $3)
RETURNING id, menu_item_id, name, price, created_at
`

func (q *Queries) InsertVariation(ctx context.Context, arg InsertVariationParams) (Variation, error) {
	row := q.db.QueryRow(ctx, insertVariation, arg.MenuItemID, arg.Name, arg.Price)
	var i Variation
	err := row.Scan(&i.ID, &i.MenuItemID, &i.Name, &i.Price, &i.CreatedAt)
	return i, err
}

const deleteAddOnsByMenuItemId = `-- name: DeleteAddOnsByMenuItemId :exec
DELETE FROM add_ons WHERE menu_item_id = $1
`

func (q *Queries) DeleteAddOnsByMenuItemId(ctx context.Context, menuItemID uuid.UUID) error {
	_, err := q.db.Exec(ctx, deleteAddOnsByMenuItemId, menuItemID)
	return err
}

type InsertAddOnParams struct {
	MenuItemID uuid.UUID      `json:"menu_item_id"`
	Name       string         `json:"name"`
	Price      pgtype.Numeric `json:"price"`
	Category   string         `json:"category"`
}

const insertAddOn = `-- name: InsertAddOn :one
INSERT INTO add_ons (menu_item_id, name, price, category)
VALUES ($1, $2, $3, $4)
RETURNING id, menu_item_id, name, price, category, created_at
`

func (q *Queries) InsertAddOn(ctx context.Context, arg InsertAddOnParams) (AddOn, error) {
	row := q.db.QueryRow(ctx, insertAddOn, arg.MenuItemID, arg.Name, arg.Price, arg.Category)
	var i AddOn
	err := row.Scan(&i.ID, &i.MenuItemID, &i.Name, &i.Price, &i.Category, &i.CreatedAt)
	return i, err
}
