package repository

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNumericRoundTrip(t *testing.T) {
	price := decimal.RequireFromString("112.50")

	numeric := NumericFromDecimal(price)

	assert.True(t, numeric.Valid)
	assert.True(t, price.Equal(DecimalFromNumeric(numeric)))
	assert.True(t, decimal.Zero.Equal(DecimalFromNumeric(pgtype.Numeric{})))
	assert.False(t, NullDecimalFromNumeric(pgtype.Numeric{}).Valid)
	assert.False(t, NumericFromNullDecimal(decimal.NullDecimal{}).Valid)
	assert.True(t, price.Equal(NullDecimalFromNumeric(NumericFromNullDecimal(decimal.NewNullDecimal(price))).Decimal))
}

func TestNullableConversions(t *testing.T) {
	stock := 3
	now := time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, pgtype.Int4{Int32: 3, Valid: true}, Int4FromPtr(&stock))
	assert.False(t, Int4FromPtr(nil).Valid)
	assert.Equal(t, 3, *PtrFromInt4(pgtype.Int4{Int32: 3, Valid: true}))
	assert.Nil(t, PtrFromInt4(pgtype.Int4{}))
	assert.Equal(t, now, *PtrFromTimestamptz(TimestamptzFromPtr(&now)))
	assert.Nil(t, PtrFromTimestamptz(TimestamptzFromPtr(nil)))
	assert.False(t, TimestamptzFromTime(time.Time{}).Valid)
	assert.False(t, TextFromString("").Valid)
	assert.Equal(t, "x", TextFromString("x").String)
}
