package checkout

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/raffa/cart/pkg/engine"
)

func deliveryDetails() Details {
	return Details{
		BranchName:          "Makati",
		OwnerRepresentative: "Ana Cruz",
		RecipientName:       "Ben Cruz",
		RecipientContact:    "09171234567",
		ServiceType:         ServiceTypeDelivery,
		Address:             "12 Rizal St",
		Landmark:            "near the church",
		ScheduledDate:       "2025-03-05",
		ScheduledTime:       "12:30",
		PaymentMethod:       "gcash",
		Notes:               "extra sauce",
	}
}

func TestCustomerName(t *testing.T) {
	assert.Equal(t, "Branch: Makati | Owner: Ana Cruz | Recipient: Ben Cruz", CustomerName(deliveryDetails()))
}

func TestMergeNotes(t *testing.T) {
	assert.Equal(t, "extra sauce", MergeNotes("extra sauce", ""))
	assert.Equal(t, "Landmark: gate 2", MergeNotes("", "gate 2"))
	assert.Equal(t, "extra sauce | Landmark: gate 2", MergeNotes("extra sauce", "gate 2"))
}

func TestMessage(t *testing.T) {
	cart := engine.Snapshot{
		Lines: []engine.SnapshotLine{
			{
				Name:           "Iced Coffee",
				VariationName:  "Large",
				UnitTotalPrice: decimal.RequireFromString("120"),
				Quantity:       1,
				LineTotal:      decimal.RequireFromString("120"),
			},
			{
				Name: "Fishball",
				AddOns: []engine.SnapshotAddOn{
					{Name: "Sweet Sauce", Quantity: 2},
					{Name: "Vinegar", Quantity: 1},
				},
				UnitTotalPrice: decimal.RequireFromString("35"),
				Quantity:       2,
				LineTotal:      decimal.RequireFromString("70"),
			},
		},
		TotalItems: 3,
		TotalPrice: decimal.RequireFromString("190"),
	}

	message := Message(deliveryDetails(), "GCash", cart, time.UTC)

	lines := strings.Split(message, "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "🛒 Raffa's ORDER", lines[0])
	assert.Contains(t, lines, "📍 Service: Delivery")
	assert.Contains(t, lines, "🏠 Address: 12 Rizal St")
	assert.Contains(t, lines, "🗺️ Landmark: near the church")
	assert.Contains(t, lines, "📅 Scheduled: Wednesday, March 5, 2025 at 12:30 PM")
	assert.Contains(t, lines, "• Iced Coffee (Large) x1 - ₱120.00")
	assert.Contains(t, lines, "• Fishball + Sweet Sauce x2, Vinegar x2 - ₱70.00")
	assert.Contains(t, lines, "💰 TOTAL: ₱190.00")
	assert.Contains(t, lines, "🛵 DELIVERY FEE:")
	assert.Contains(t, lines, "💳 Payment: GCash")
	assert.Contains(t, lines, "📸 Payment Screenshot: Please attach your payment receipt screenshot")
	assert.Contains(t, lines, "📝 Notes: extra sauce")
}

func TestMessagePickupOmitsAddress(t *testing.T) {
	details := deliveryDetails()
	details.ServiceType = ServiceTypePickup
	details.ReceiptURL = "https://example.com/receipt.png"

	message := Message(details, "", engine.Snapshot{TotalPrice: decimal.Zero}, time.UTC)

	assert.Contains(t, message, "📍 Service: Pickup")
	assert.NotContains(t, message, "🏠 Address")
	assert.NotContains(t, message, "DELIVERY FEE")
	assert.Contains(t, message, "💳 Payment: gcash")
	assert.Contains(t, message, "📸 Payment Receipt: https://example.com/receipt.png")
}

func TestMessengerLink(t *testing.T) {
	link := MessengerLink("https://m.me/", "61574906107219", "a b&c+d")

	assert.Equal(t, "https://m.me/61574906107219?text=a%20b%26c%2Bd", link)
	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "a b&c+d", parsed.Query().Get("text"))
}
