package customer

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/raffa/order/pkg/response"
)

func orders() []response.Order {
	day := func(d int) time.Time { return time.Date(2025, 3, d, 12, 0, 0, 0, time.UTC) }
	return []response.Order{
		{ID: uuid.New(), CustomerName: "Ana", ContactNumber: "0917", ServiceType: "delivery", Address: "12 Rizal St", Total: decimal.RequireFromString("100"), CreatedAt: day(5)},
		{ID: uuid.New(), CustomerName: "Ben", ContactNumber: "0918", ServiceType: "pickup", Total: decimal.RequireFromString("300"), CreatedAt: day(6)},
		{ID: uuid.New(), CustomerName: "ANA", ContactNumber: "0917", ServiceType: "pickup", Total: decimal.RequireFromString("50.50"), CreatedAt: day(1)},
		{ID: uuid.New(), CustomerName: "Ana", ContactNumber: "0917", ServiceType: "delivery", Address: "12 Rizal St", Total: decimal.RequireFromString("25"), CreatedAt: day(8)},
		{ID: uuid.New(), CustomerName: "Cora", ContactNumber: "0919", ServiceType: "delivery", Address: "5 Mabini Ave", Total: decimal.RequireFromString("10"), CreatedAt: day(7)},
	}
}

func TestAggregate(t *testing.T) {
	source := orders()
	customers := Aggregate(source)

	require.Len(t, customers, 3)
	ana := customers[0]
	assert.Equal(t, "ana-0917", ana.Key)
	assert.Equal(t, "Ana", ana.Name)
	assert.Equal(t, 3, ana.OrderCount)
	assert.True(t, decimal.RequireFromString("175.50").Equal(ana.TotalSpent))
	assert.Equal(t, []string{"12 Rizal St"}, ana.Addresses)
	assert.Equal(t, []string{"delivery", "pickup"}, ana.ServiceTypes)
	assert.Equal(t, source[2].CreatedAt, ana.FirstOrderDate)
	assert.Equal(t, source[3].CreatedAt, ana.LastOrderDate)
	assert.Equal(t, []uuid.UUID{source[0].ID, source[2].ID, source[3].ID}, ana.OrderIDs)
}

func TestSearch(t *testing.T) {
	customers := Aggregate(orders())

	byAddress := Search(customers, "mabini")
	require.Len(t, byAddress, 1)
	assert.Equal(t, "Cora", byAddress[0].Name)

	byContact := Search(customers, "0918")
	require.Len(t, byContact, 1)
	assert.Equal(t, "Ben", byContact[0].Name)

	assert.Len(t, Search(customers, "  "), 3)
}

func TestSort(t *testing.T) {
	names := func(customers []Customer) []string {
		result := []string{}
		for _, customer := range customers {
			result = append(result, customer.Name)
		}
		return result
	}

	tests := []struct {
		name      string
		key       string
		direction string
		expected  []string
	}{
		{name: "default is last order date descending", expected: []string{"Ana", "Cora", "Ben"}},
		{name: "name ascending", key: SortName, direction: DirectionAsc, expected: []string{"Ana", "Ben", "Cora"}},
		{name: "order count descending", key: SortOrderCount, direction: DirectionDesc, expected: []string{"Ana", "Ben", "Cora"}},
		{name: "total spent ascending", key: SortTotalSpent, direction: DirectionAsc, expected: []string{"Cora", "Ana", "Ben"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			customers := Aggregate(orders())
			Sort(customers, test.key, test.direction)
			assert.Equal(t, test.expected, names(customers))
		})
	}
}
