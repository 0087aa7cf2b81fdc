package request

import (
	"github.com/Alturino/raffa/cart/pkg/engine"
	"github.com/Alturino/raffa/order/pkg/checkout"
)

// Customer is the checkout form. The cart service receives it from the
// customer and forwards it together with the cart snapshot.
type Customer struct {
	BranchName          string `json:"branchName"          validate:"required"`
	OwnerRepresentative string `json:"ownerRepresentative" validate:"required"`
	RecipientName       string `json:"recipientName"       validate:"required"`
	RecipientContact    string `json:"recipientContact"    validate:"required"`
	ServiceType         string `json:"serviceType"         validate:"required,servicetype"`
	Address             string `json:"address"             validate:"required_if=ServiceType delivery"`
	Landmark            string `json:"landmark"`
	ScheduledDate       string `json:"scheduledDate"       validate:"required,scheduledate"`
	ScheduledTime       string `json:"scheduledTime"       validate:"required,timeslot"`
	PaymentMethod       string `json:"paymentMethod"       validate:"required"`
	ReferenceNumber     string `json:"referenceNumber"`
	ReceiptURL          string `json:"receiptUrl"          validate:"omitempty,url"`
	Notes               string `json:"notes"`
}

func (c Customer) Details() checkout.Details {
	return checkout.Details{
		BranchName:          c.BranchName,
		OwnerRepresentative: c.OwnerRepresentative,
		RecipientName:       c.RecipientName,
		RecipientContact:    c.RecipientContact,
		ServiceType:         c.ServiceType,
		Address:             c.Address,
		Landmark:            c.Landmark,
		ScheduledDate:       c.ScheduledDate,
		ScheduledTime:       c.ScheduledTime,
		PaymentMethod:       c.PaymentMethod,
		ReferenceNumber:     c.ReferenceNumber,
		ReceiptURL:          c.ReceiptURL,
		Notes:               c.Notes,
	}
}

type Checkout struct {
	Customer
	Cart     engine.Snapshot `json:"cart"`
	ClientIP string          `json:"clientIp"`
}

type Filter struct {
	Query       string `json:"q"`
	Status      string `json:"status"      validate:"omitempty,orderstatus"`
	ServiceType string `json:"serviceType" validate:"omitempty,servicetype"`
	From        string `json:"from"        validate:"omitempty,datetime=2006-01-02"`
	To          string `json:"to"          validate:"omitempty,datetime=2006-01-02"`
	Sort        string `json:"sort"        validate:"omitempty,oneof=newest oldest total-desc total-asc name"`
}

type UpdateStatus struct {
	Status string `json:"status" validate:"required,orderstatus"`
}

type CustomerFilter struct {
	Query     string `json:"q"`
	Sort      string `json:"sort"      validate:"omitempty,oneof=name orderCount totalSpent lastOrderDate"`
	Direction string `json:"direction" validate:"omitempty,oneof=asc desc"`
}
