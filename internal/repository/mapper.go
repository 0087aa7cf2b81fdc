package repository

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/Alturino/raffa/menu/pkg/catalog"
	menuResponse "github.com/Alturino/raffa/menu/pkg/response"
	orderResponse "github.com/Alturino/raffa/order/pkg/response"
)

func (c Category) Response() menuResponse.Category {
	return menuResponse.Category{
		ID:        c.ID,
		Name:      c.Name,
		Icon:      c.Icon,
		SortOrder: int(c.SortOrder),
		Active:    c.Active,
	}
}

func (p PaymentMethod) Response() menuResponse.PaymentMethod {
	return menuResponse.PaymentMethod{
		ID:            p.ID,
		Name:          p.Name,
		AccountNumber: p.AccountNumber,
		AccountName:   p.AccountName,
		QrCodeUrl:     p.QrCodeUrl,
		Active:        p.Active,
		SortOrder:     int(p.SortOrder),
	}
}

// ToCatalogItem normalizes a stored menu item with its variations and
// add-ons into the shape the pricing and cart rules read.
func ToCatalogItem(item MenuItem, variations []Variation, addOns []AddOn) catalog.Item {
	result := catalog.Item{
		ID:          item.ID.String(),
		Name:        item.Name,
		Description: item.Description,
		Category:    item.Category,
		BasePrice:   DecimalFromNumeric(item.BasePrice),
		Inventory: catalog.Inventory{
			Tracked:           item.TrackInventory,
			StockQuantity:     PtrFromInt4(item.StockQuantity),
			LowStockThreshold: int(item.LowStockThreshold),
		},
		Variations: make([]catalog.Variation, 0, len(variations)),
		AddOns:     make([]catalog.AddOn, 0, len(addOns)),
		Available:  item.Available,
		Popular:    item.Popular,
		Image:      item.ImageUrl.String,
		SortOrder:  int(item.SortOrder),
	}
	if item.DiscountPrice.Valid || item.DiscountActive {
		result.Discount = &catalog.Discount{
			Price:  NullDecimalFromNumeric(item.DiscountPrice),
			Start:  PtrFromTimestamptz(item.DiscountStartDate),
			End:    PtrFromTimestamptz(item.DiscountEndDate),
			Active: item.DiscountActive,
		}
	}
	for _, v := range variations {
		result.Variations = append(result.Variations, catalog.Variation{
			ID:    v.ID.String(),
			Name:  v.Name,
			Price: DecimalFromNumeric(v.Price),
		})
	}
	for _, a := range addOns {
		result.AddOns = append(result.AddOns, catalog.AddOn{
			ID:       a.ID.String(),
			Name:     a.Name,
			Price:    DecimalFromNumeric(a.Price),
			Category: a.Category,
		})
	}
	return result
}

// ToCatalogItems groups variations and add-ons by their owning item and
// keeps the order of items.
func ToCatalogItems(items []MenuItem, variations []Variation, addOns []AddOn) []catalog.Item {
	variationsByItem := make(map[uuid.UUID][]Variation, len(items))
	for _, v := range variations {
		variationsByItem[v.MenuItemID] = append(variationsByItem[v.MenuItemID], v)
	}
	addOnsByItem := make(map[uuid.UUID][]AddOn, len(items))
	for _, a := range addOns {
		addOnsByItem[a.MenuItemID] = append(addOnsByItem[a.MenuItemID], a)
	}

	result := make([]catalog.Item, 0, len(items))
	for _, item := range items {
		result = append(result, ToCatalogItem(item, variationsByItem[item.ID], addOnsByItem[item.ID]))
	}
	return result
}

func MenuItemIds(items []MenuItem) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

func (i OrderItem) Response() (orderResponse.OrderItem, error) {
	item := orderResponse.OrderItem{
		ID:        i.ID,
		ItemID:    i.ItemID,
		Name:      i.Name,
		AddOns:    []catalog.SelectedAddOn{},
		UnitPrice: DecimalFromNumeric(i.UnitPrice),
		Quantity:  int(i.Quantity),
		Subtotal:  DecimalFromNumeric(i.Subtotal),
	}
	if len(i.Variation) > 0 && string(i.Variation) != "null" {
		variation := catalog.Variation{}
		if err := json.Unmarshal(i.Variation, &variation); err != nil {
			return item, fmt.Errorf("failed decoding variation of orderItemId=%s with error=%w", i.ID, err)
		}
		item.Variation = &variation
	}
	if len(i.AddOns) > 0 {
		if err := json.Unmarshal(i.AddOns, &item.AddOns); err != nil {
			return item, fmt.Errorf("failed decoding addOns of orderItemId=%s with error=%w", i.ID, err)
		}
		if item.AddOns == nil {
			item.AddOns = []catalog.SelectedAddOn{}
		}
	}
	return item, nil
}

func (o Order) Response(items []OrderItem) (orderResponse.Order, error) {
	order := orderResponse.Order{
		ID:              o.ID,
		CustomerName:    o.CustomerName,
		ContactNumber:   o.ContactNumber,
		ServiceType:     o.ServiceType,
		Address:         o.Address.String,
		PickupTime:      o.PickupTime.String,
		PaymentMethod:   o.PaymentMethod,
		ReferenceNumber: o.ReferenceNumber.String,
		Notes:           o.Notes.String,
		Total:           DecimalFromNumeric(o.Total),
		Status:          o.Status,
		IpAddress:       o.IpAddress.String,
		ReceiptURL:      o.ReceiptUrl.String,
		CreatedAt:       o.CreatedAt.Time,
		Items:           make([]orderResponse.OrderItem, 0, len(items)),
	}
	for _, i := range items {
		item, err := i.Response()
		if err != nil {
			return order, err
		}
		order.Items = append(order.Items, item)
	}
	return order, nil
}

// ToOrderResponses attaches items to their orders, keeping the order of
// orders.
func ToOrderResponses(orders []Order, items []OrderItem) ([]orderResponse.Order, error) {
	itemsByOrder := map[uuid.UUID][]OrderItem{}
	for _, item := range items {
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}
	responses := make([]orderResponse.Order, 0, len(orders))
	for _, o := range orders {
		order, err := o.Response(itemsByOrder[o.ID])
		if err != nil {
			return nil, err
		}
		responses = append(responses, order)
	}
	return responses, nil
}

func OrderIds(orders []Order) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID)
	}
	return ids
}
