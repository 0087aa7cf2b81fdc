package otel

import (
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	inErrors "github.com/Alturino/raffa/internal/errors"
)

// rejections are failures caused by the request itself. They are answered
// with a 4xx and do not mark the span as failed.
var rejections = []error{
	inErrors.ErrEmptyCart,
	inErrors.ErrRateLimited,
	inErrors.ErrInsufficientStock,
	inErrors.ErrItemUnavailable,
	inErrors.ErrInvalidSchedule,
	inErrors.ErrInvalidQuantity,
	inErrors.ErrInvalidPrice,
	inErrors.ErrInactivePaymentMethod,
	inErrors.ErrCartNotFound,
	inErrors.ErrOrderNotFound,
	inErrors.ErrMenuItemNotFound,
	inErrors.ErrVariationNotFound,
	inErrors.ErrAddOnNotFound,
	inErrors.ErrPaymentMethodNotFound,
	inErrors.ErrCategoryNotFound,
	inErrors.ErrCategoryInUse,
	inErrors.ErrInventoryNotTracked,
}

func isRejection(err error) bool {
	for _, rejection := range rejections {
		if errors.Is(err, rejection) {
			return true
		}
	}
	return false
}

func RecordError(err error, span trace.Span) {
	if err == nil {
		return
	}
	if isRejection(err) {
		span.AddEvent("rejected", trace.WithAttributes(attribute.String("reason", err.Error())))
		return
	}
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err, trace.WithStackTrace(true))
}
