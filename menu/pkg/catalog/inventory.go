package catalog

import (
	"sort"
	"strings"
)

// StockCeiling returns the maximum quantity a cart line of item may hold.
// ok is false when the item has no ceiling.
func StockCeiling(item Item) (ceiling int, ok bool) {
	if !item.Inventory.Tracked || item.Inventory.StockQuantity == nil {
		return 0, false
	}
	ceiling = *item.Inventory.StockQuantity
	if ceiling < 0 {
		ceiling = 0
	}
	return ceiling, true
}

func IsLowStock(item Item) bool {
	if !item.Inventory.Tracked || item.Inventory.StockQuantity == nil {
		return false
	}
	return *item.Inventory.StockQuantity <= item.Inventory.LowStockThreshold
}

// AvailableWhenTracked is the availability an item gets when inventory
// tracking is switched on.
func AvailableWhenTracked(stock int, threshold int) bool {
	return stock > threshold
}

// ClampStock applies delta to stock without going below zero.
func ClampStock(stock int, delta int) int {
	next := stock + delta
	if next < 0 {
		return 0
	}
	return next
}

const (
	InventorySortNone = "none"
	InventorySortAsc  = "asc"
	InventorySortDesc = "desc"
)

// SearchInventory keeps items whose name or category contains query, case
// insensitive, and orders them by name, case insensitive.
func SearchInventory(items []Item, query string, order string) []Item {
	query = strings.ToLower(strings.TrimSpace(query))
	result := make([]Item, 0, len(items))
	for _, item := range items {
		if query != "" &&
			!strings.Contains(strings.ToLower(item.Name), query) &&
			!strings.Contains(strings.ToLower(item.Category), query) {
			continue
		}
		result = append(result, item)
	}
	if order != InventorySortAsc && order != InventorySortDesc {
		return result
	}
	sort.SliceStable(result, func(i, j int) bool {
		a, b := strings.ToLower(result[i].Name), strings.ToLower(result[j].Name)
		if order == InventorySortDesc {
			return a > b
		}
		return a < b
	})
	return result
}
