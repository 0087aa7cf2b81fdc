package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const paymentMethodColumns = `id, name, account_number, account_name, qr_code_url, active, sort_order, created_at, updated_at`

func scanPaymentMethod(row pgx.Row) (PaymentMethod, error) {
	var i PaymentMethod
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.AccountNumber,
		&i.AccountName,
		&i.QrCodeUrl,
		&i.Active,
		&i.SortOrder,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listPaymentMethods = `-- name: ListPaymentMethods :many
SELECT ` + paymentMethodColumns + `
FROM payment_methods
WHERE active OR $1::boolean
ORDER BY sort_order, name
`

func (q *Queries) ListPaymentMethods(ctx context.Context, includeInactive bool) ([]PaymentMethod, error) {
	rows, err := q.db.Query(ctx, listPaymentMethods, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []PaymentMethod{}
	for rows.Next() {
		i, err := scanPaymentMethod(rows)
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

const findPaymentMethodById = `-- name: FindPaymentMethodById :one
SELECT ` + paymentMethodColumns + ` FROM payment_methods WHERE id = $1
`

func (q *Queries) FindPaymentMethodById(ctx context.Context, id string) (PaymentMethod, error) {
	return scanPaymentMethod(q.db.QueryRow(ctx, findPaymentMethodById, id))
}

type UpsertPaymentMethodParams struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
	QrCodeUrl     string `json:"qr_code_url"`
	Active        bool   `json:"active"`
	SortOrder     int32  `json:"sort_order"`
}

const upsertPaymentMethod = `-- name: UpsertPaymentMethod :one
INSERT INTO payment_methods (id, name, account_number, account_name, qr_code_url, active, sort_order)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name,
    account_number = EXCLUDED.account_number,
    account_name = EXCLUDED.account_name,
    qr_code_url = EXCLUDED.qr_code_url,
    active = EXCLUDED.active,
    sort_order = EXCLUDED.sort_order,
    updated_at = NOW()
RETURNING ` + paymentMethodColumns

func (q *Queries) UpsertPaymentMethod(ctx context.Context, arg UpsertPaymentMethodParams) (PaymentMethod, error) {
	row := q.db.QueryRow(ctx, upsertPaymentMethod,
		arg.ID,
		arg.Name,
		arg.AccountNumber,
		arg.AccountName,
		arg.QrCodeUrl,
		arg.Active,
		arg.SortOrder,
	)
	return scanPaymentMethod(row)
}

const deletePaymentMethod = `-- name: DeletePaymentMethod :execrows
DELETE FROM payment_methods WHERE id = $1
`

func (q *Queries) DeletePaymentMethod(ctx context.Context, id string) (int64, error) {
	result, err := q.db.Exec(ctx, deletePaymentMethod, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
