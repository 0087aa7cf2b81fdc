package response

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Alturino/raffa/menu/pkg/catalog"
)

type MenuItem struct {
	catalog.Item
	EffectivePrice decimal.Decimal `json:"effectivePrice"`
	IsOnDiscount   bool            `json:"isOnDiscount"`
	LowStock       bool            `json:"lowStock"`
}

func NewMenuItem(item catalog.Item, now time.Time) MenuItem {
	return MenuItem{
		Item:           item,
		EffectivePrice: catalog.ResolveEffectivePrice(item, now),
		IsOnDiscount:   catalog.IsDiscountActive(item, now),
		LowStock:       catalog.IsLowStock(item),
	}
}

type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sortOrder"`
	Active    bool   `json:"active"`
}

type PaymentMethod struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
	QrCodeUrl     string `json:"qrCodeUrl"`
	Active        bool   `json:"active"`
	SortOrder     int    `json:"sortOrder"`
}

type InventoryItem struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Category          string `json:"category"`
	Tracked           bool   `json:"tracked"`
	StockQuantity     *int   `json:"stockQuantity"`
	LowStockThreshold int    `json:"lowStockThreshold"`
	Available         bool   `json:"available"`
	LowStock          bool   `json:"lowStock"`
}

func NewInventoryItem(item catalog.Item) InventoryItem {
	return InventoryItem{
		ID:                item.ID,
		Name:              item.Name,
		Category:          item.Category,
		Tracked:           item.Inventory.Tracked,
		StockQuantity:     item.Inventory.StockQuantity,
		LowStockThreshold: item.Inventory.LowStockThreshold,
		Available:         item.Available,
		LowStock:          catalog.IsLowStock(item),
	}
}
