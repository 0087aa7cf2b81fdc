package checkout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inErrors "github.com/Alturino/raffa/internal/errors"
)

func TestMinScheduleDate(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		expected string
	}{
		{name: "sunday moves to wednesday", now: time.Date(2025, 3, 2, 15, 0, 0, 0, time.UTC), expected: "2025-03-05"},
		{name: "tuesday moves to wednesday", now: time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC), expected: "2025-03-05"},
		{name: "thursday stays", now: time.Date(2025, 3, 6, 22, 0, 0, 0, time.UTC), expected: "2025-03-06"},
		{name: "saturday stays", now: time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC), expected: "2025-03-08"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, MinScheduleDate(test.now).Format(DateLayout))
		})
	}
}

func TestTimeSlots(t *testing.T) {
	delivery := TimeSlots(ServiceTypeDelivery)
	require.Len(t, delivery, 19)
	assert.Equal(t, "12:00", delivery[0])
	assert.Equal(t, "12:30", delivery[1])
	assert.Equal(t, "21:00", delivery[len(delivery)-1])

	pickup := TimeSlots(ServiceTypePickup)
	require.Len(t, pickup, 27)
	assert.Equal(t, "08:00", pickup[0])
	assert.Equal(t, "21:00", pickup[len(pickup)-1])
}

func TestIsTimeSlot(t *testing.T) {
	assert.True(t, IsTimeSlot("08:00"))
	assert.True(t, IsTimeSlot("13:30"))
	assert.True(t, IsTimeSlot("21:00"))
	assert.False(t, IsTimeSlot("21:30"))
	assert.False(t, IsTimeSlot("07:30"))
	assert.False(t, IsTimeSlot("12:15"))
	assert.False(t, IsTimeSlot("noon"))
}

func TestValidateSchedule(t *testing.T) {
	// Monday
	now := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name        string
		serviceType string
		date        string
		slot        string
		valid       bool
	}{
		{name: "delivery wednesday noon", serviceType: ServiceTypeDelivery, date: "2025-03-05", slot: "12:00", valid: true},
		{name: "delivery last slot", serviceType: ServiceTypeDelivery, date: "2025-03-08", slot: "21:00", valid: true},
		{name: "pickup morning", serviceType: ServiceTypePickup, date: "2025-03-06", slot: "08:00", valid: true},
		{name: "delivery before noon", serviceType: ServiceTypeDelivery, date: "2025-03-05", slot: "11:30", valid: false},
		{name: "sunday", serviceType: ServiceTypePickup, date: "2025-03-09", slot: "10:00", valid: false},
		{name: "past wednesday", serviceType: ServiceTypePickup, date: "2025-02-26", slot: "10:00", valid: false},
		{name: "off grid", serviceType: ServiceTypePickup, date: "2025-03-05", slot: "10:10", valid: false},
		{name: "not a date", serviceType: ServiceTypePickup, date: "05/03/2025", slot: "10:00", valid: false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := ValidateSchedule(test.serviceType, test.date, test.slot, now)
			if test.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, inErrors.ErrInvalidSchedule)
		})
	}
}
