package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/raffa/cart/internal/service"
	"github.com/Alturino/raffa/cart/pkg/request"
	inErrors "github.com/Alturino/raffa/internal/errors"
	inHttp "github.com/Alturino/raffa/internal/http"
	"github.com/Alturino/raffa/internal/log"
	"github.com/Alturino/raffa/internal/middleware"
	"github.com/Alturino/raffa/internal/otel"
	"github.com/Alturino/raffa/internal/validate"
)

type CartController struct {
	service  *service.CartService
	validate *validator.Validate
}

func AttachCartController(mux *mux.Router, service *service.CartService) {
	controller := CartController{service: service, validate: validate.New()}

	router := mux.PathPrefix("/carts").Subrouter()
	router.Use(middleware.Logging, middleware.RecoverPanic)

	router.HandleFunc("", controller.CreateCart).Methods(http.MethodPost)
	router.HandleFunc("/{cartId}", controller.GetCart).Methods(http.MethodGet)
	router.HandleFunc("/{cartId}", controller.Clear).Methods(http.MethodDelete)
	router.HandleFunc("/{cartId}/items", controller.AddItem).Methods(http.MethodPost)
	router.HandleFunc("/{cartId}/items/{lineId}", controller.UpdateQuantity).Methods(http.MethodPut)
	router.HandleFunc("/{cartId}/items/{lineId}", controller.RemoveItem).Methods(http.MethodDelete)
	router.HandleFunc("/{cartId}/checkout", controller.Checkout).Methods(http.MethodPost)
}

// failure maps err to the status and message written to the client. Errors
// returned by the order service are passed through unchanged.
func failure(err error) (int, error) {
	var upstream *inHttp.UpstreamError
	switch {
	case errors.Is(err, inErrors.ErrCartNotFound):
		return http.StatusNotFound, err
	case errors.Is(err, inErrors.ErrEmptyCart),
		errors.Is(err, inErrors.ErrItemUnavailable),
		errors.Is(err, inErrors.ErrMenuItemNotFound),
		errors.Is(err, inErrors.ErrVariationNotFound),
		errors.Is(err, inErrors.ErrAddOnNotFound):
		return http.StatusUnprocessableEntity, err
	case errors.Is(err, inErrors.ErrUpstream):
		return http.StatusBadGateway, err
	case errors.As(err, &upstream):
		return upstream.StatusCode, errors.New(upstream.Message)
	default:
		return http.StatusInternalServerError, err
	}
}

func (ctrl CartController) CreateCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController CreateCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController CreateCart").
		Str(log.KeyProcess, "creating cart").
		Logger()

	logger.Trace().Msg("creating cart")
	c = logger.WithContext(c)
	cart, err := ctrl.service.CreateCart(c)
	if err != nil {
		err = fmt.Errorf("failed creating cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode, err := failure(err)
		inHttp.WriteFailed(c, w, statusCode, err)
		return
	}
	logger.Info().Str(log.KeyCartID, cart.ID.String()).Msg("created cart")

	inHttp.WriteSuccess(c, w, http.StatusCreated, "successfully created cart", map[string]interface{}{
		"cart": cart,
	})
}

func (ctrl CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController GetCart")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "CartController GetCart").Logger()
	c = logger.WithContext(c)

	id, ok := inHttp.PathUUID(c, w, r, span, "cartId")
	if !ok {
		return
	}

	logger = logger.With().Str(log.KeyCartID, id.String()).Str(log.KeyProcess, "finding cart").Logger()
	logger.Trace().Msg("finding cart")
	c = logger.WithContext(c)
	cart, err := ctrl.service.GetCart(c, id)
	if err != nil {
		err = fmt.Errorf("failed finding cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode, err := failure(err)
		inHttp.WriteFailed(c, w, statusCode, err)
		return
	}
	logger.Info().Msg("found cart")

	inHttp.WriteSuccess(c, w, http.StatusOK, "successfully found cart", map[string]interface{}{
		"cart": cart,
	})
}

func (ctrl CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "CartController AddItem").Logger()
	c = logger.WithContext(c)

	id, ok := inHttp.PathUUID(c, w, r, span, "cartId")
	if !ok {
		return
	}
	body, ok := inHttp.DecodeBody[request.AddItem](c, w, r, span, ctrl.validate)
	if !ok {
		return
	}

	logger = logger.With().
		Str(log.KeyCartID, id.String()).
		Str(log.KeyItemID, body.ItemID).
		Str(log.KeyProcess, "adding item").
		Logger()
	logger.Trace().Msg("adding item")
	c = logger.WithContext(c)
	mutation, err := ctrl.service.AddItem(c, id, body)
	if err != nil {
		err = fmt.Errorf("failed adding item with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode, err := failure(err)
		inHttp.WriteFailed(c, w, statusCode, err)
		return
	}
	logger.Info().Str(log.KeyLineID, mutation.Result.LineID).Msg("added item")

	inHttp.WriteSuccess(c, w, http.StatusOK, "successfully added item", map[string]interface{}{
		"cart":   mutation.Cart,
		"result": mutation.Result,
	})
}

func (ctrl CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController UpdateQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "CartController UpdateQuantity").Logger()
	c = logger.WithContext(c)

	id, ok := inHttp.PathUUID(c, w, r, span, "cartId")
	if !ok {
		return
	}
	body, ok := inHttp.DecodeBody[request.UpdateQuantity](c, w, r, span, ctrl.validate)
	if !ok {
		return
	}
	lineID := mux.Vars(r)["lineId"]

	logger = logger.With().
		Str(log.KeyCartID, id.String()).
		Str(log.KeyLineID, lineID).
		Int(log.KeyRequestedQuantity, body.Quantity).
		Str(log.KeyProcess, "updating quantity").
		Logger()
	logger.Trace().Msg("updating quantity")
	c = logger.WithContext(c)
	mutation, err := ctrl.service.UpdateQuantity(c, id, lineID, body.Quantity)
	if err != nil {
		err = fmt.Errorf("failed updating quantity with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode, err := failure(err)
		inHttp.WriteFailed(c, w, statusCode, err)
		return
	}
	logger.Info().Int(log.KeyQuantity, mutation.Result.Quantity).Msg("updated quantity")

	inHttp.WriteSuccess(c, w, http.StatusOK, "successfully updated quantity", map[string]interface{}{
		"cart":   mutation.Cart,
		"result": mutation.Result,
	})
}

func (ctrl CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "CartController RemoveItem").Logger()
	c = logger.WithContext(c)

	id, ok := inHttp.PathUUID(c, w, r, span, "cartId")
	if !ok {
		return
	}
	lineID := mux.Vars(r)["lineId"]

	logger = logger.With().
		Str(log.KeyCartID, id.String()).
		Str(log.KeyLineID, lineID).
		Str(log.KeyProcess, "removing item").
		Logger()
	logger.Trace().Msg("removing item")
	c = logger.WithContext(c)
	cart, err := ctrl.service.RemoveItem(c, id, lineID)
	if err != nil {
		err = fmt.Errorf("failed removing item with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode, err := failure(err)
		inHttp.WriteFailed(c, w, statusCode, err)
		return
	}
	logger.Info().Msg("removed item")

	inHttp.WriteSuccess(c, w, http.StatusOK, "successfully removed item", map[string]interface{}{
		"cart": cart,
	})
}

func (ctrl CartController) Clear(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController Clear")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "CartController Clear").Logger()
	c = logger.WithContext(c)

	id, ok := inHttp.PathUUID(c, w, r, span, "cartId")
	if !ok {
		return
	}

	logger = logger.With().Str(log.KeyCartID, id.String()).Str(log.KeyProcess, "clearing cart").Logger()
	logger.Trace().Msg("clearing cart")
	c = logger.WithContext(c)
	cart, err := ctrl.service.Clear(c, id)
	if err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode, err := failure(err)
		inHttp.WriteFailed(c, w, statusCode, err)
		return
	}
	logger.Info().Msg("cleared cart")

	inHttp.WriteSuccess(c, w, http.StatusOK, "successfully cleared cart", map[string]interface{}{
		"cart": cart,
	})
}

func (ctrl CartController) Checkout(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "CartController Checkout").Logger()
	c = logger.WithContext(c)

	id, ok := inHttp.PathUUID(c, w, r, span, "cartId")
	if !ok {
		return
	}
	body, ok := inHttp.DecodeBody[request.Checkout](c, w, r, span, ctrl.validate)
	if !ok {
		return
	}
	clientIP := inHttp.ClientIP(r)

	logger = logger.With().
		Str(log.KeyCartID, id.String()).
		Str(log.KeyRequestIp, clientIP).
		Str(log.KeyServiceType, body.ServiceType).
		Str(log.KeyProcess, "checking out cart").
		Logger()
	logger.Trace().Msg("checking out cart")
	c = logger.WithContext(c)
	result, err := ctrl.service.Checkout(c, id, body, clientIP)
	if err != nil {
		err = fmt.Errorf("failed checking out cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode, err := failure(err)
		inHttp.WriteFailed(c, w, statusCode, err)
		return
	}
	logger.Info().Str(log.KeyOrderID, result.Order.ID.String()).Msg("checked out cart")

	inHttp.WriteSuccess(c, w, http.StatusCreated, "successfully checked out cart", map[string]interface{}{
		"order":         result.Order,
		"message":       result.Message,
		"messengerLink": result.MessengerLink,
	})
}
