package controller

import (
	"errors"
	"net/http"
	"strconv"

	inErrors "github.com/Alturino/raffa/internal/errors"
)

func statusCode(err error) int {
	switch {
	case errors.Is(err, inErrors.ErrMenuItemNotFound),
		errors.Is(err, inErrors.ErrCategoryNotFound),
		errors.Is(err, inErrors.ErrPaymentMethodNotFound):
		return http.StatusNotFound
	case errors.Is(err, inErrors.ErrCategoryInUse),
		errors.Is(err, inErrors.ErrInventoryNotTracked):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func queryBool(r *http.Request, key string) bool {
	value, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && value
}
