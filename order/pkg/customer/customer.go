// Package customer derives the customer list of the back office from
// placed orders.
package customer

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alturino/raffa/order/pkg/response"
)

const (
	SortName          = "name"
	SortOrderCount    = "orderCount"
	SortTotalSpent    = "totalSpent"
	SortLastOrderDate = "lastOrderDate"

	DirectionAsc  = "asc"
	DirectionDesc = "desc"
)

type Customer struct {
	Key            string          `json:"key"`
	Name           string          `json:"name"`
	ContactNumber  string          `json:"contactNumber"`
	Addresses      []string        `json:"addresses"`
	OrderCount     int             `json:"orderCount"`
	TotalSpent     decimal.Decimal `json:"totalSpent"`
	FirstOrderDate time.Time       `json:"firstOrderDate"`
	LastOrderDate  time.Time       `json:"lastOrderDate"`
	OrderIDs       []uuid.UUID     `json:"orderIds"`
	ServiceTypes   []string        `json:"serviceTypes"`
}

func Key(name string, contactNumber string) string {
	return strings.ToLower(name + "-" + contactNumber)
}

// Aggregate groups orders by customer name and contact number, ignoring
// case. Customers keep the order in which they first appear.
func Aggregate(orders []response.Order) []Customer {
	customers := []Customer{}
	index := map[string]int{}
	for _, order := range orders {
		key := Key(order.CustomerName, order.ContactNumber)
		i, ok := index[key]
		if !ok {
			index[key] = len(customers)
			customers = append(customers, Customer{
				Key:            key,
				Name:           order.CustomerName,
				ContactNumber:  order.ContactNumber,
				Addresses:      []string{},
				TotalSpent:     decimal.Zero,
				FirstOrderDate: order.CreatedAt,
				LastOrderDate:  order.CreatedAt,
				OrderIDs:       []uuid.UUID{},
				ServiceTypes:   []string{},
			})
			i = len(customers) - 1
		}

		customer := &customers[i]
		customer.OrderCount++
		customer.TotalSpent = customer.TotalSpent.Add(order.Total)
		customer.OrderIDs = append(customer.OrderIDs, order.ID)
		if order.Address != "" && !slices.Contains(customer.Addresses, order.Address) {
			customer.Addresses = append(customer.Addresses, order.Address)
		}
		if !slices.Contains(customer.ServiceTypes, order.ServiceType) {
			customer.ServiceTypes = append(customer.ServiceTypes, order.ServiceType)
		}
		if order.CreatedAt.After(customer.LastOrderDate) {
			customer.LastOrderDate = order.CreatedAt
		}
		if order.CreatedAt.Before(customer.FirstOrderDate) {
			customer.FirstOrderDate = order.CreatedAt
		}
	}
	return customers
}

// Search keeps customers whose name, contact number or any address contains
// query, ignoring case.
func Search(customers []Customer, query string) []Customer {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return customers
	}
	found := []Customer{}
	for _, customer := range customers {
		matched := strings.Contains(strings.ToLower(customer.Name), query) ||
			strings.Contains(strings.ToLower(customer.ContactNumber), query) ||
			slices.ContainsFunc(customer.Addresses, func(address string) bool {
				return strings.Contains(strings.ToLower(address), query)
			})
		if matched {
			found = append(found, customer)
		}
	}
	return found
}

// Sort orders customers in place by key. An empty key sorts by last order
// date and an empty direction sorts descending.
func Sort(customers []Customer, key string, direction string) {
	desc := direction != DirectionAsc
	compare := func(a, b Customer) int {
		switch key {
		case SortName:
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		case SortOrderCount:
			return a.OrderCount - b.OrderCount
		case SortTotalSpent:
			return a.TotalSpent.Cmp(b.TotalSpent)
		default:
			return a.LastOrderDate.Compare(b.LastOrderDate)
		}
	}
	sort.SliceStable(customers, func(i, j int) bool {
		cmp := compare(customers[i], customers[j])
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}
