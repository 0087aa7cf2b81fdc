package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inErrors "github.com/Alturino/raffa/internal/errors"
	inHttp "github.com/Alturino/raffa/internal/http"
	"github.com/Alturino/raffa/internal/log"
	"github.com/Alturino/raffa/internal/middleware"
	"github.com/Alturino/raffa/internal/otel"
	"github.com/Alturino/raffa/internal/validate"
	"github.com/Alturino/raffa/order/internal/service"
	"github.com/Alturino/raffa/order/pkg/request"
)

type OrderController struct {
	service  *service.OrderService
	validate *validator.Validate
}

func AttachOrderController(mux *mux.Router, service *service.OrderService) {
	controller := OrderController{service: service, validate: validate.New()}

	router := mux.PathPrefix("/orders").Subrouter()
	router.Use(middleware.Logging, middleware.RecoverPanic)

	router.HandleFunc("/checkout", controller.Checkout).Methods(http.MethodPost)
	router.HandleFunc("", controller.ListOrders).Methods(http.MethodGet)
	router.HandleFunc("", controller.DeleteAllOrders).Methods(http.MethodDelete)
	router.HandleFunc("/{orderId}", controller.FindOrderById).Methods(http.MethodGet)
	router.HandleFunc("/{orderId}/status", controller.UpdateOrderStatus).Methods(http.MethodPatch)
	router.HandleFunc("/{orderId}", controller.DeleteOrder).Methods(http.MethodDelete)

	customerRouter := mux.PathPrefix("/customers").Subrouter()
	customerRouter.Use(middleware.Logging, middleware.RecoverPanic)
	customerRouter.HandleFunc("", controller.ListCustomers).Methods(http.MethodGet)
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, inErrors.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, inErrors.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, inErrors.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, inErrors.ErrEmptyCart),
		errors.Is(err, inErrors.ErrInvalidSchedule),
		errors.Is(err, inErrors.ErrInvalidQuantity),
		errors.Is(err, inErrors.ErrInvalidPrice),
		errors.Is(err, inErrors.ErrInactivePaymentMethod),
		errors.Is(err, inErrors.ErrPaymentMethodNotFound),
		errors.Is(err, inErrors.ErrItemUnavailable),
		errors.Is(err, inErrors.ErrMenuItemNotFound),
		errors.Is(err, inErrors.ErrVariationNotFound),
		errors.Is(err, inErrors.ErrAddOnNotFound):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (ctrl OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "OrderController Checkout").Logger()
	c = logger.WithContext(c)

	body, ok := inHttp.DecodeBody(c, w, r, span, ctrl.validate, func(body *request.Checkout) {
		if body.ClientIP == "" {
			body.ClientIP = inHttp.ClientIP(r)
		}
	})
	if !ok {
		return
	}

	logger = logger.With().
		Str(log.KeyRequestIp, body.ClientIP).
		Str(log.KeyServiceType, body.ServiceType).
		Str(log.KeyProcess, "placing order").
		Logger()
	logger.Trace().Msg("placing order")
	c = logger.WithContext(c)
	result, err := ctrl.service.Checkout(c, body)
	if err != nil {
		err = fmt.Errorf("failed placing order with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, statusCode(err), err)
		return
	}
	logger.Info().Str(log.KeyOrderID, result.Order.ID.String()).Msg("placed order")

	inHttp.WriteSuccess(c, w, http.StatusCreated, "successfully placed order", map[string]interface{}{
		"order":         result.Order,
		"message":       result.Message,
		"messengerLink": result.MessengerLink,
	})
}

func (ctrl OrderController) ListOrders(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController ListOrders")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "OrderController ListOrders").Logger()

	query := r.URL.Query()
	filter := request.Filter{
		Query:       query.Get("q"),
		Status:      query.Get("status"),
		ServiceType: query.Get("serviceType"),
		From:        query.Get("from"),
		To:          query.Get("to"),
		Sort:        query.Get("sort"),
	}
	logger = logger.With().Any(log.KeyFilter, filter).Str(log.KeyProcess, "validating filter").Logger()
	if err := ctrl.validate.StructCtx(c, filter); err != nil {
		err = fmt.Errorf("failed validating filter with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err)
		return
	}

	logger = logger.With().Str(log.KeyProcess, "listing orders").Logger()
	logger.Trace().Msg("listing orders")
	c = logger.WithContext(c)
	orders, err := ctrl.service.ListOrders(c, filter)
	if err != nil {
		err = fmt.Errorf("failed listing orders with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("listed orders")

	inHttp.WriteSuccess(c, w, http.StatusOK, "successfully listed orders", map[string]interface{}{
		"orders": orders,
	})
}

func (ctrl OrderController) FindOrderById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController FindOrderById")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "OrderController FindOrderById").Logger()
	c = logger.WithContext(c)

	id, ok := inHttp.PathUUID(c, w, r, span, "orderId")
	if !ok {
		return
	}

	logger = logger.With().Str(log.KeyOrderID, id.String()).Str(log.KeyProcess, "finding order").Logger()
	logger.Trace().Msg("finding order")
	c = logger.WithContext(c)
	order, err := ctrl.service.FindOrderById(c, id)
	if err != nil {
		err = fmt.Errorf("failed finding order with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("found order")

	inHttp.WriteSuccess(c, w, http.StatusOK, "successfully found order", map[string]interface{}{
		"order": order,
	})
}

func (ctrl OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController UpdateOrderStatus")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "OrderController UpdateOrderStatus").Logger()
	c = logger.WithContext(c)

	id, ok := inHttp.PathUUID(c, w, r, span, "orderId")
	if !ok {
		return
	}
	body, ok := inHttp.DecodeBody[request.UpdateStatus](c, w, r, span, ctrl.validate)
	if !ok {
		return
	}

	logger = logger.With().
		Str(log.KeyOrderID, id.String()).
		Str(log.KeyOrderStatus, body.Status).
		Str(log.KeyProcess, "updating order status").
		Logger()
	logger.Trace().Msg("updating order status")
	c = logger.WithContext(c)
	order, err := ctrl.service.UpdateOrderStatus(c, id, body.Status)
	if err != nil {
		err = fmt.Errorf("failed updating order status with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("updated order status")

	inHttp.WriteSuccess(c, w, http.StatusOK, "successfully updated order status", map[string]interface{}{
		"order": order,
	})
}

func (ctrl OrderController) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController DeleteOrder")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "OrderController DeleteOrder").Logger()
	c = logger.WithContext(c)

	id, ok := inHttp.PathUUID(c, w, r, span, "orderId")
	if !ok {
		return
	}

	logger = logger.With().Str(log.KeyOrderID, id.String()).Str(log.KeyProcess, "deleting order").Logger()
	logger.Trace().Msg("deleting order")
	c = logger.WithContext(c)
	if err := ctrl.service.DeleteOrder(c, id); err != nil {
		err = fmt.Errorf("failed deleting order with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("deleted order")

	inHttp.WriteSuccess(c, w, http.StatusOK, "successfully deleted order", map[string]interface{}{
		"orderId": id,
	})
}

func (ctrl OrderController) DeleteAllOrders(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController DeleteAllOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController DeleteAllOrders").
		Str(log.KeyProcess, "deleting all orders").
		Logger()

	logger.Trace().Msg("deleting all orders")
	c = logger.WithContext(c)
	deleted, err := ctrl.service.DeleteAllOrders(c)
	if err != nil {
		err = fmt.Errorf("failed deleting all orders with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("deleted all orders")

	inHttp.WriteSuccess(c, w, http.StatusOK, "successfully deleted all orders", map[string]interface{}{
		"deleted": deleted,
	})
}

func (ctrl OrderController) ListCustomers(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController ListCustomers")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "OrderController ListCustomers").Logger()

	query := r.URL.Query()
	filter := request.CustomerFilter{
		Query:     query.Get("q"),
		Sort:      query.Get("sort"),
		Direction: query.Get("direction"),
	}
	logger = logger.With().Any(log.KeyFilter, filter).Str(log.KeyProcess, "validating filter").Logger()
	if err := ctrl.validate.StructCtx(c, filter); err != nil {
		err = fmt.Errorf("failed validating filter with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err)
		return
	}

	logger = logger.With().Str(log.KeyProcess, "listing customers").Logger()
	logger.Trace().Msg("listing customers")
	c = logger.WithContext(c)
	customers, err := ctrl.service.ListCustomers(c, filter)
	if err != nil {
		err = fmt.Errorf("failed listing customers with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("listed customers")

	inHttp.WriteSuccess(c, w, http.StatusOK, "successfully listed customers", map[string]interface{}{
		"customers": customers,
	})
}
