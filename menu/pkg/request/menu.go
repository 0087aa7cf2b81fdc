package request

import (
	"time"

	"github.com/shopspring/decimal"
)

type Variation struct {
	Name  string          `json:"name"  validate:"required"`
	Price decimal.Decimal `json:"price" validate:"price"`
}

type AddOn struct {
	Name     string          `json:"name"     validate:"required"`
	Price    decimal.Decimal `json:"price"    validate:"price"`
	Category string          `json:"category"`
}

type MenuItem struct {
	Name              string              `json:"name"              validate:"required"`
	Description       string              `json:"description"`
	BasePrice         decimal.Decimal     `json:"basePrice"         validate:"price"`
	Category          string              `json:"category"          validate:"required"`
	Popular           bool                `json:"popular"`
	Available         bool                `json:"available"`
	Image             string              `json:"image"             validate:"omitempty,url"`
	DiscountPrice     decimal.NullDecimal `json:"discountPrice"     validate:"omitempty,price"`
	DiscountStartDate *time.Time          `json:"discountStartDate"`
	DiscountEndDate   *time.Time          `json:"discountEndDate"`
	DiscountActive    bool                `json:"discountActive"`
	TrackInventory    bool                `json:"trackInventory"`
	StockQuantity     *int                `json:"stockQuantity"     validate:"omitempty,gte=0"`
	LowStockThreshold int                 `json:"lowStockThreshold" validate:"gte=0"`
	Variations        []Variation         `json:"variations"        validate:"dive"`
	AddOns            []AddOn             `json:"addOns"            validate:"dive"`
}

type Category struct {
	ID     string `json:"id"     validate:"required,lowercase"`
	Name   string `json:"name"   validate:"required"`
	Icon   string `json:"icon"`
	Active bool   `json:"active"`
}

type PaymentMethod struct {
	ID            string `json:"id"            validate:"required"`
	Name          string `json:"name"          validate:"required"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
	QrCodeUrl     string `json:"qrCodeUrl"`
	Active        bool   `json:"active"`
	SortOrder     int    `json:"sortOrder"     validate:"gte=0"`
}

// Reorder lists ids in their new display order.
type Reorder struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

type StockAdjustment struct {
	Delta int `json:"delta" validate:"ne=0"`
}

type Stock struct {
	Quantity int `json:"quantity"`
}

type Threshold struct {
	Threshold int `json:"threshold"`
}

type Tracking struct {
	Enabled bool `json:"enabled"`
}

type InventoryFilter struct {
	Query string `json:"q"`
	Sort  string `json:"sort" validate:"omitempty,oneof=none asc desc"`
}
