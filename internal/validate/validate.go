package validate

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Alturino/raffa/order/pkg/checkout"
)

// New returns a validator that understands decimal fields and the price,
// servicetype, orderstatus, scheduledate and timeslot tags. Field names in
// errors follow the json tags.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(DecimalValue, decimal.Decimal{}, decimal.NullDecimal{})
	validations := map[string]validator.Func{
		"price":        ValidatePrice,
		"servicetype":  ValidateServiceType,
		"orderstatus":  ValidateOrderStatus,
		"scheduledate": ValidateScheduleDate,
		"timeslot":     ValidateTimeSlot,
	}
	for tag, fn := range validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	return v
}

func ValidateServiceType(fl validator.FieldLevel) bool {
	return checkout.IsServiceType(fl.Field().String())
}

func ValidateOrderStatus(fl validator.FieldLevel) bool {
	return checkout.IsOrderStatus(fl.Field().String())
}

// ValidateScheduleDate accepts YYYY-MM-DD dates falling on Wednesday to
// Saturday.
func ValidateScheduleDate(fl validator.FieldLevel) bool {
	date, err := time.Parse(checkout.DateLayout, fl.Field().String())
	if err != nil {
		return false
	}
	return checkout.IsScheduleDay(date.Weekday())
}

func ValidateTimeSlot(fl validator.FieldLevel) bool {
	return checkout.IsTimeSlot(fl.Field().String())
}

// ValidatePrice accepts non-negative decimals.
func ValidatePrice(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return false
	}
	return !d.IsNegative()
}

// DecimalValue exposes decimals to the validator as strings. An invalid
// NullDecimal becomes nil so omitempty and required behave as expected.
func DecimalValue(v reflect.Value) interface{} {
	switch n := v.Interface().(type) {
	case decimal.Decimal:
		return n.String()
	case decimal.NullDecimal:
		if !n.Valid {
			return nil
		}
		return n.Decimal.String()
	}
	return nil
}
