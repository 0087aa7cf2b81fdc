package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alturino/raffa/menu/pkg/catalog"
)

type Order struct {
	ID              uuid.UUID       `json:"id"`
	CustomerName    string          `json:"customerName"`
	ContactNumber   string          `json:"contactNumber"`
	ServiceType     string          `json:"serviceType"`
	Address         string          `json:"address,omitempty"`
	PickupTime      string          `json:"pickupTime,omitempty"`
	PaymentMethod   string          `json:"paymentMethod"`
	ReferenceNumber string          `json:"referenceNumber,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	Total           decimal.Decimal `json:"total"`
	Status          string          `json:"status"`
	IpAddress       string          `json:"ipAddress,omitempty"`
	ReceiptURL      string          `json:"receiptUrl,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	Items           []OrderItem     `json:"items"`
}

type OrderItem struct {
	ID        uuid.UUID               `json:"id"`
	ItemID    uuid.UUID               `json:"itemId"`
	Name      string                  `json:"name"`
	Variation *catalog.Variation      `json:"variation,omitempty"`
	AddOns    []catalog.SelectedAddOn `json:"addOns"`
	UnitPrice decimal.Decimal         `json:"unitPrice"`
	Quantity  int                     `json:"quantity"`
	Subtotal  decimal.Decimal         `json:"subtotal"`
}

// Checkout is returned once an order is persisted. The customer finishes
// the order by opening MessengerLink.
type Checkout struct {
	Order         Order  `json:"order"`
	Message       string `json:"message"`
	MessengerLink string `json:"messengerLink"`
}
