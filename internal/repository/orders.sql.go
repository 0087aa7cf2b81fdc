package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, customer_name, contact_number, service_type, address, pickup_time, payment_method,
    reference_number, notes, total, status, ip_address, receipt_url, created_at`

func scanOrder(row pgx.Row) (Order, error) {
	var i Order
	err := row.Scan(
		&i.ID,
		&i.CustomerName,
		&i.ContactNumber,
		&i.ServiceType,
		&i.Address,
		&i.PickupTime,
		&i.PaymentMethod,
		&i.ReferenceNumber,
		&i.Notes,
		&i.Total,
		&i.Status,
		&i.IpAddress,
		&i.ReceiptUrl,
		&i.CreatedAt,
	)
	return i, err
}

type InsertOrderParams struct {
	CustomerName    string         `json:"customer_name"`
	ContactNumber   string         `json:"contact_number"`
	ServiceType     string         `json:"service_type"`
	Address         pgtype.Text    `json:"address"`
	PickupTime      pgtype.Text    `json:"pickup_time"`
	PaymentMethod   string         `json:"payment_method"`
	ReferenceNumber pgtype.Text    `json:"reference_number"`
	Notes           pgtype.Text    `json:"notes"`
	Total           pgtype.Numeric `json:"total"`
	IpAddress       pgtype.Text    `json:"ip_address"`
	ReceiptUrl      pgtype.Text    `json:"receipt_url"`
}

const insertOrder = `-- name: InsertOrder :one
INSERT INTO orders (
    customer_name, contact_number, service_type, address, pickup_time, payment_method,
    reference_number, notes, total, ip_address, receipt_url
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + orderColumns

func (q *Queries) InsertOrder(ctx context.Context, arg InsertOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, insertOrder,
		arg.CustomerName,
		arg.ContactNumber,
		arg.ServiceType,
		arg.Address,
		arg.PickupTime,
		arg.PaymentMethod,
		arg.ReferenceNumber,
		arg.Notes,
		arg.Total,
		arg.IpAddress,
		arg.ReceiptUrl,
	)
	return scanOrder(row)
}

type InsertOrderItemParams struct {
	OrderID   uuid.UUID      `json:"order_id"`
	ItemID    uuid.UUID      `json:"item_id"`
	Name      string         `json:"name"`
	Variation []byte         `json:"variation"`
	AddOns    []byte         `json:"add_ons"`
	UnitPrice pgtype.Numeric `json:"unit_price"`
	Quantity  int32          `json:"quantity"`
	Subtotal  pgtype.Numeric `json:"subtotal"`
}

const insertOrderItem = `-- name: InsertOrderItem :one
INSERT INTO order_items (order_id, item_id, name, variation, add_ons, unit_price, quantity, subtotal)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, order_id, item_id, name, variation, add_ons, unit_price, quantity, subtotal, created_at
`

func (q *Queries) InsertOrderItem(ctx context.Context, arg InsertOrderItemParams) (OrderItem, error) {
	row := q.db.QueryRow(ctx, insertOrderItem,
		arg.OrderID,
		arg.ItemID,
		arg.Name,
		arg.Variation,
		arg.AddOns,
		arg.UnitPrice,
		arg.Quantity,
		arg.Subtotal,
	)
	var i OrderItem
	err := row.Scan(
		&i.ID,
		&i.OrderID,
		&i.ItemID,
		&i.Name,
		&i.Variation,
		&i.AddOns,
		&i.UnitPrice,
		&i.Quantity,
		&i.Subtotal,
		&i.CreatedAt,
	)
	return i, err
}

type ListOrdersParams struct {
	Query       pgtype.Text        `json:"query"`
	Status      pgtype.Text        `json:"status"`
	ServiceType pgtype.Text        `json:"service_type"`
	From        pgtype.Timestamptz `json:"from"`
	To          pgtype.Timestamptz `json:"to"`
	Sort        string             `json:"sort"`
}

const listOrders = `-- name: ListOrders :many
SELECT ` + orderColumns + `
FROM orders
WHERE ($1::text IS NULL
        OR customer_name ILIKE '%' || $1 || '%'
        OR contact_number ILIKE '%' || $1 || '%'
        OR id::text ILIKE '%' || $1 || '%')
    AND ($2::text IS NULL OR status = $2)
    AND ($3::text IS NULL OR service_type = $3)
    AND ($4::timestamptz IS NULL OR created_at >= $4)
    AND ($5::timestamptz IS NULL OR created_at < $5)
ORDER BY
    CASE WHEN $6::text = 'oldest' THEN created_at END ASC,
    CASE WHEN $6::text = 'total-desc' THEN total END DESC,
    CASE WHEN $6::text = 'total-asc' THEN total END ASC,
    CASE WHEN $6::text = 'name' THEN customer_name END ASC,
    created_at DESC
`

func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrders,
		arg.Query,
		arg.Status,
		arg.ServiceType,
		arg.From,
		arg.To,
		arg.Sort,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Order{}
	for rows.Next() {
		i, err := scanOrder(rows)
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

const findOrderById = `-- name: FindOrderById :one
SELECT ` + orderColumns + ` FROM orders WHERE id = $1
`

func (q *Queries) FindOrderById(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, findOrderById, id))
}

const listOrderItemsByOrderIds = `-- name: ListOrderItemsByOrderIds :many
SELECT id, order_id, item_id, name, variation, add_ons, unit_price, quantity, subtotal, created_at
FROM order_items
WHERE order_id = ANY($1::uuid[])
ORDER BY created_at, id
`

func (q *Queries) ListOrderItemsByOrderIds(ctx context.Context, ids []uuid.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, listOrderItemsByOrderIds, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []OrderItem{}
	for rows.Next() {
		var i OrderItem
		if err := rows.Scan(
			&i.ID,
			&i.OrderID,
			&i.ItemID,
			&i.Name,
			&i.Variation,
			&i.AddOns,
			&i.UnitPrice,
			&i.Quantity,
			&i.Subtotal,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateOrderStatus = `-- name: UpdateOrderStatus :one
UPDATE orders SET status = $2 WHERE id = $1
RETURNING ` + orderColumns

func (q *Queries) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updateOrderStatus, id, status))
}

const deleteOrder = `-- name: DeleteOrder :execrows
DELETE FROM orders WHERE id = $1
`

func (q *Queries) DeleteOrder(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteOrder, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteAllOrders = `-- name: DeleteAllOrders :execrows
DELETE FROM orders
`

func (q *Queries) DeleteAllOrders(ctx context.Context) (int64, error) {
	result, err := q.db.Exec(ctx, deleteAllOrders)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
