// Package checkout holds the ordering rules of the messenger checkout:
// allowed schedule days and time slots, how customer details are folded
// into an order and the prefilled message handed to the customer.
package checkout

import (
	"fmt"
	"slices"
	"time"

	inErrors "github.com/Alturino/raffa/internal/errors"
)

const (
	ServiceTypeDelivery = "delivery"
	ServiceTypePickup   = "pickup"

	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	slotStep      = 30 * time.Minute
	lastSlot      = 21 * time.Hour
	firstDelivery = 12 * time.Hour
	firstPickup   = 8 * time.Hour
	earliestOfDay = firstPickup
)

var scheduleDays = []time.Weekday{time.Wednesday, time.Thursday, time.Friday, time.Saturday}

func IsServiceType(serviceType string) bool {
	return serviceType == ServiceTypeDelivery || serviceType == ServiceTypePickup
}

func IsScheduleDay(day time.Weekday) bool {
	return slices.Contains(scheduleDays, day)
}

// MinScheduleDate returns the first schedulable day on or after now.
func MinScheduleDate(now time.Time) time.Time {
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for !IsScheduleDay(date.Weekday()) {
		date = date.AddDate(0, 0, 1)
	}
	return date
}

func firstSlot(serviceType string) time.Duration {
	if serviceType == ServiceTypeDelivery {
		return firstDelivery
	}
	return firstPickup
}

// TimeSlots lists the selectable slots for serviceType, last slot included.
func TimeSlots(serviceType string) []string {
	slots := []string{}
	for offset := firstSlot(serviceType); offset <= lastSlot; offset += slotStep {
		slots = append(slots, formatOffset(offset))
	}
	return slots
}

func formatOffset(offset time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(offset.Hours()), int(offset.Minutes())%60)
}

func parseSlot(slot string) (time.Duration, error) {
	t, err := time.Parse(TimeLayout, slot)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// IsTimeSlot reports whether slot is an HH:MM value on the 30 minute grid
// within the opening hours of any service type.
func IsTimeSlot(slot string) bool {
	offset, err := parseSlot(slot)
	if err != nil {
		return false
	}
	return offset%slotStep == 0 && offset >= earliestOfDay && offset <= lastSlot
}

// ValidateSchedule checks date and slot against the rules of serviceType.
// now must already be in the business time zone.
func ValidateSchedule(serviceType string, date string, slot string, now time.Time) error {
	day, err := time.ParseInLocation(DateLayout, date, now.Location())
	if err != nil {
		return fmt.Errorf("%w: scheduledDate=%s is not a date", inErrors.ErrInvalidSchedule, date)
	}
	if !IsScheduleDay(day.Weekday()) {
		return fmt.Errorf("%w: orders are only scheduled Wednesday to Saturday", inErrors.ErrInvalidSchedule)
	}
	if day.Before(MinScheduleDate(now)) {
		return fmt.Errorf("%w: scheduledDate=%s is in the past", inErrors.ErrInvalidSchedule, date)
	}
	offset, err := parseSlot(slot)
	if err != nil || offset%slotStep != 0 {
		return fmt.Errorf("%w: scheduledTime=%s is not a time slot", inErrors.ErrInvalidSchedule, slot)
	}
	if offset < firstSlot(serviceType) || offset > lastSlot {
		return fmt.Errorf(
			"%w: %s is only available from %s to %s",
			inErrors.ErrInvalidSchedule,
			serviceType,
			formatOffset(firstSlot(serviceType)),
			formatOffset(lastSlot),
		)
	}
	return nil
}
