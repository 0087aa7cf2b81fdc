package repository

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Category struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Icon      string             `json:"icon"`
	SortOrder int32              `json:"sort_order"`
	Active    bool               `json:"active"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

type MenuItem struct {
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
	SortOrder         int32              `json:"sort_order"`
	CreatedAt         pgtype.Timestamptz `json:"created_at"`
	UpdatedAt         pgtype.Timestamptz `json:"updated_at"`
}

type Variation struct {
	ID         uuid.UUID          `json:"id"`
	MenuItemID uuid.UUID          `json:"menu_item_id"`
	Name       string             `json:"name"`
	Price      pgtype.Numeric     `json:"price"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
}

type AddOn struct {
	ID         uuid.UUID          `json:"id"`
	MenuItemID uuid.UUID          `json:"menu_item_id"`
	Name       string             `json:"name"`
	Price      pgtype.Numeric     `json:"price"`
	Category   string             `json:"category"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
}

type PaymentMethod struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	AccountNumber string             `json:"account_number"`
	AccountName   string             `json:"account_name"`
	QrCodeUrl     string             `json:"qr_code_url"`
	Active        bool               `json:"active"`
	SortOrder     int32              `json:"sort_order"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

type Order struct {
	ID              uuid.UUID          `json:"id"`
	CustomerName    string             `json:"customer_name"`
	ContactNumber   string             `json:"contact_number"`
	ServiceType     string             `json:"service_type"`
	Address         pgtype.Text        `json:"address"`
	PickupTime      pgtype.Text        `json:"pickup_time"`
	PaymentMethod   string             `json:"payment_method"`
	ReferenceNumber pgtype.Text        `json:"reference_number"`
	Notes           pgtype.Text        `json:"notes"`
	Total           pgtype.Numeric     `json:"total"`
	Status          string             `json:"status"`
	IpAddress       pgtype.Text        `json:"ip_address"`
	ReceiptUrl      pgtype.Text        `json:"receipt_url"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
}

type OrderItem struct {
	ID        uuid.UUID          `json:"id"`
	OrderID   uuid.UUID          `json:"order_id"`
	ItemID    uuid.UUID          `json:"item_id"`
	Name      string             `json:"name"`
	Variation []byte             `json:"variation"`
	AddOns    []byte             `json:"add_ons"`
	UnitPrice pgtype.Numeric     `json:"unit_price"`
	Quantity  int32              `json:"quantity"`
	Subtotal  pgtype.Numeric     `json:"subtotal"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}
