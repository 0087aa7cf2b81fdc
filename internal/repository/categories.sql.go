package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const categoryColumns = `id, name, icon, sort_order, active, created_at, updated_at`

func scanCategory(row pgx.Row) (Category, error) {
	var i Category
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Icon,
		&i.SortOrder,
		&i.Active,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listCategories = `-- name: ListCategories :many
SELECT ` + categoryColumns + `
FROM categories
WHERE active OR $1::boolean
ORDER BY sort_order, name
`

func (q *Queries) ListCategories(ctx context.Context, includeInactive bool) ([]Category, error) {
	rows, err := q.db.Query(ctx, listCategories, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Category{}
	for rows.Next() {
		i, err := scanCategory(rows)
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

const findCategoryById = `-- name: FindCategoryById :one
SELECT ` + categoryColumns + ` FROM categories WHERE id = $1
`

func (q *Queries) FindCategoryById(ctx context.Context, id string) (Category, error) {
	return scanCategory(q.db.QueryRow(ctx, findCategoryById, id))
}

const nextCategorySortOrder = `-- name: NextCategorySortOrder :one
SELECT (COALESCE(MAX(sort_order), 0) + 1)::int AS next_sort_order FROM categories
`

func (q *Queries) NextCategorySortOrder(ctx context.Context) (int32, error) {
	var next int32
	err := q.db.QueryRow(ctx, nextCategorySortOrder).Scan(&next)
	return next, err
}

type InsertCategoryParams struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	SortOrder int32  `json:"sort_order"`
	Active    bool   `json:"active"`
}

const insertCategory = `-- name: InsertCategory :one
INSERT INTO categories (id, name, icon, sort_order, active)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + categoryColumns

func (q *Queries) InsertCategory(ctx context.Context, arg InsertCategoryParams) (Category, error) {
	return scanCategory(q.db.QueryRow(ctx, insertCategory, arg.ID, arg.Name, arg.Icon, arg.SortOrder, arg.Active))
}

type UpdateCategoryParams struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Active bool   `json:"active"`
}

const updateCategory = `-- name: UpdateCategory :one
UPDATE categories
SET name = $2, icon = $3, active = $4, updated_at = NOW()
WHERE id = $1
RETURNING ` + categoryColumns

func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (Category, error) {
	return scanCategory(q.db.QueryRow(ctx, updateCategory, arg.ID, arg.Name, arg.Icon, arg.Active))
}

const deleteCategory = `-- name: DeleteCategory :execrows
DELETE FROM categories WHERE id = $1
`

func (q *Queries) DeleteCategory(ctx context.Context, id string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteCategory, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const updateCategorySortOrder = `-- name: UpdateCategorySortOrder :execrows
UPDATE categories SET sort_order = $2, updated_at = NOW() WHERE id = $1
`

func (q *Queries) UpdateCategorySortOrder(ctx context.Context, id string, sortOrder int32) (int64, error) {
	result, err := q.db.Exec(ctx, updateCategorySortOrder, id, sortOrder)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
