package checkout

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Alturino/raffa/cart/pkg/engine"
)

const scheduleDisplayLayout = "Monday, January 2, 2006 at 03:04 PM"

// Details is what the customer entered on the checkout form.
type Details struct {
	BranchName          string
	OwnerRepresentative string
	RecipientName       string
	RecipientContact    string
	ServiceType         string
	Address             string
	Landmark            string
	ScheduledDate       string
	ScheduledTime       string
	PaymentMethod       string
	ReferenceNumber     string
	ReceiptURL          string
	Notes               string
}

func CustomerName(d Details) string {
	return fmt.Sprintf("Branch: %s | Owner: %s | Recipient: %s", d.BranchName, d.OwnerRepresentative, d.RecipientName)
}

// MergeNotes appends the landmark to the notes stored with an order.
func MergeNotes(notes string, landmark string) string {
	if landmark == "" {
		return notes
	}
	if notes == "" {
		return "Landmark: " + landmark
	}
	return notes + " | Landmark: " + landmark
}

func PickupTime(d Details) string {
	if d.ScheduledDate == "" || d.ScheduledTime == "" {
		return ""
	}
	return d.ScheduledDate + " " + d.ScheduledTime
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func formatPeso(amount decimal.Decimal) string {
	return "₱" + amount.StringFixed(2)
}

func formatLine(line engine.SnapshotLine) string {
	b := strings.Builder{}
	b.WriteString("• " + line.Name)
	if line.VariationName != "" {
		b.WriteString(" (" + line.VariationName + ")")
	}
	if len(line.AddOns) > 0 {
		names := make([]string, 0, len(line.AddOns))
		for _, addOn := range line.AddOns {
			if addOn.Quantity > 1 {
				names = append(names, fmt.Sprintf("%s x%d", addOn.Name, addOn.Quantity))
				continue
			}
			names = append(names, addOn.Name)
		}
		b.WriteString(" + " + strings.Join(names, ", "))
	}
	fmt.Fprintf(&b, " x%d - %s", line.Quantity, formatPeso(line.LineTotal))
	return b.String()
}

// Message renders the order summary the customer sends to the shop page.
// paymentName is the display name of the chosen payment method.
func Message(d Details, paymentName string, cart engine.Snapshot, loc *time.Location) string {
	lines := []string{
		"🛒 Raffa's ORDER",
		"",
		"🏢 Branch: " + d.BranchName,
		"👤 Owner/Representative: " + d.OwnerRepresentative,
		"📦 Recipient: " + d.RecipientName,
		"📞 Recipient Contact: " + d.RecipientContact,
		"📍 Service: " + capitalize(d.ServiceType),
	}
	if d.ServiceType == ServiceTypeDelivery {
		lines = append(lines, "🏠 Address: "+d.Address)
		if d.Landmark != "" {
			lines = append(lines, "🗺️ Landmark: "+d.Landmark)
		}
	}
	if scheduled, err := time.ParseInLocation(DateLayout+" "+TimeLayout, PickupTime(d), loc); err == nil {
		lines = append(lines, "📅 Scheduled: "+scheduled.Format(scheduleDisplayLayout))
	}

	lines = append(lines, "", "📋 ORDER DETAILS:")
	for _, line := range cart.Lines {
		lines = append(lines, formatLine(line))
	}

	lines = append(lines, "", "💰 TOTAL: "+formatPeso(cart.TotalPrice))
	if d.ServiceType == ServiceTypeDelivery {
		lines = append(lines, "🛵 DELIVERY FEE:")
	}

	if paymentName == "" {
		paymentName = d.PaymentMethod
	}
	lines = append(lines, "", "💳 Payment: "+paymentName)
	if d.ReceiptURL != "" {
		lines = append(lines, "📸 Payment Receipt: "+d.ReceiptURL)
	} else {
		lines = append(lines, "📸 Payment Screenshot: Please attach your payment receipt screenshot")
	}
	if d.Notes != "" {
		lines = append(lines, "", "📝 Notes: "+d.Notes)
	}

	lines = append(lines, "", "Please confirm this order to proceed. Thank you for choosing Raffa's! 🥟")
	return strings.Join(lines, "\n")
}

// MessengerLink returns the m.me link that opens a conversation with pageID
// prefilled with message. Spaces are encoded as %20.
func MessengerLink(baseURL string, pageID string, message string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return strings.TrimSuffix(baseURL, "/") + "/" + pageID + "?text=" + encoded
}
