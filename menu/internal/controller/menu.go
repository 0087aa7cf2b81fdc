package controller

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inHttp "github.com/Alturino/raffa/internal/http"
	"github.com/Alturino/raffa/internal/log"
	"github.com/Alturino/raffa/internal/middleware"
	"github.com/Alturino/raffa/internal/otel"
	"github.com/Alturino/raffa/internal/validate"
	"github.com/Alturino/raffa/menu/internal/service"
	"github.com/Alturino/raffa/menu/pkg/request"
)

type MenuController struct {
	service  *service.MenuService
	validate *validator.Validate
}

func AttachMenuController(mux *mux.Router, service *service.MenuService) {
	controller := MenuController{service: service, validate: validate.New()}

	router := mux.PathPrefix("/menu").Subrouter()
	router.Use(middleware.Logging, middleware.RecoverPanic)

	router.HandleFunc("/catalog", controller.Catalog).Methods(http.MethodGet)

	router.HandleFunc("/items", controller.ListMenuItems).Methods(http.MethodGet)
	router.HandleFunc("/items", controller.InsertMenuItem).Methods(http.MethodPost)
	router.HandleFunc("/items/reorder", controller.ReorderMenuItems).Methods(http.MethodPost)
	router.HandleFunc("/items/{itemId}", controller.FindMenuItemById).Methods(http.MethodGet)
	router.HandleFunc("/items/{itemId}", controller.UpdateMenuItem).Methods(http.MethodPut)
	router.HandleFunc("/items/{itemId}", controller.DeleteMenuItem).Methods(http.MethodDelete)

	router.HandleFunc("/categories", controller.ListCategories).Methods(http.MethodGet)
	router.HandleFunc("/categories", controller.InsertCategory).Methods(http.MethodPost)
	router.HandleFunc("/categories/reorder", controller.ReorderCategories).Methods(http.MethodPost)
	router.HandleFunc("/categories/{categoryId}", controller.UpdateCategory).Methods(http.MethodPut)
	router.HandleFunc("/categories/{categoryId}", controller.DeleteCategory).Methods(http.MethodDelete)

	router.HandleFunc("/payment-methods", controller.ListPaymentMethods).Methods(http.MethodGet)
	router.HandleFunc("/payment-methods", controller.SavePaymentMethod).Methods(http.MethodPost)
	router.HandleFunc("/payment-methods/{paymentMethodId}", controller.SavePaymentMethod).Methods(http.MethodPut)
	router.HandleFunc("/payment-methods/{paymentMethodId}", controller.DeletePaymentMethod).Methods(http.MethodDelete)

	router.HandleFunc("/inventory", controller.ListInventory).Methods(http.MethodGet)
	router.HandleFunc("/inventory/{itemId}/adjust", controller.AdjustStock).Methods(http.MethodPost)
	router.HandleFunc("/inventory/{itemId}/stock", controller.SetStock).Methods(http.MethodPut)
	router.HandleFunc("/inventory/{itemId}/threshold", controller.SetLowStockThreshold).Methods(http.MethodPut)
	router.HandleFunc("/inventory/{itemId}/tracking", controller.SetTracking).Methods(http.MethodPut)
}

func (ctrl MenuController) Catalog(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "MenuController Catalog")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "MenuController Catalog").Logger()

	logger = logger.With().Str(log.KeyProcess, "finding catalog").Logger()
	logger.Trace().Msg("finding catalog")
	c = logger.WithContext(c)
	items, err := ctrl.service.Catalog(c)
	if err != nil {
		err = fmt.Errorf("failed finding catalog with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("found catalog")

	inHttp.WriteSuccess(c, w, http.StatusOK, "successfully found catalog", map[string]interface{}{
		"items": items,
	})
}

func (ctrl MenuController) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "MenuController ListMenuItems")
	defer span.End()

	category := r.URL.Query().Get("category")
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "MenuController ListMenuItems").
		Str(log.KeyCategoryID, category).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "listing menu items").Logger()
	logger.Trace().Msg("listing menu items")
	c = logger.WithContext(c)
	items, err := ctrl.service.ListMenuItems(c, category, queryBool(r, "all"))
	if err != nil {
		err = fmt.Errorf("failed listing menu items with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("listed menu items")

	inHttp.WriteSuccess(c, w, http.StatusOK, "successfully listed menu items", map[string]interface{}{
		"items": items,
	})
}

func (ctrl MenuController) FindMenuItemById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "MenuController FindMenuItemById")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "MenuController FindMenuItemById").Logger()
	c = logger.WithContext(c)

	id, ok := inHttp.PathUUID(c, w, r, span, "itemId")
	if !ok {
		return
	}

	logger = logger.With().Str(log.KeyItemID, id.String()).Str(log.KeyProcess, "finding menu item").Logger()
	logger.Trace().Msg("finding menu item")
	c = logger.WithContext(c)
	item, err := ctrl.service.FindMenuItemById(c, id)
	if err != nil {
		err = fmt.Errorf("failed finding menu item with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("found menu item")

	inHttp.WriteSuccess(c, w, http.StatusOK, "successfully found menu item", map[string]interface{}{
		"item": item,
	})
}

func (ctrl MenuController) InsertMenuItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "MenuController InsertMenuItem")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "MenuController InsertMenuItem").Logger()
	c = logger.WithContext(c)

	body, ok := inHttp.DecodeBody[request.MenuItem](c, w, r, span, ctrl.validate)
	if !ok {
		return
	}

	logger = logger.With().Str(log.KeyProcess, "inserting menu item").Logger()
	logger.Trace().Msg("inserting menu item")
	c = logger.WithContext(c)
	item, err := ctrl.service.InsertMenuItem(c, body)
	if err != nil {
		err = fmt.Errorf("failed inserting menu item with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("inserted menu item")

	inHttp.WriteSuccess(c, w, http.StatusCreated, "successfully inserted menu item", map[string]interface{}{
		"item": item,
	})
}

func (ctrl MenuController) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "MenuController UpdateMenuItem")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "MenuController UpdateMenuItem").Logger()
	c = logger.WithContext(c)

	id, ok := inHttp.PathUUID(c, w, r, span, "itemId")
	if !ok {
		return
	}
	body, ok := inHttp.DecodeBody[request.MenuItem](c, w, r, span, ctrl.validate)
	if !ok {
		return
	}

	logger = logger.With().Str(log.KeyItemID, id.String()).Str(log.KeyProcess, "updating menu item").Logger()
	logger.Trace().Msg("updating menu item")
	c = logger.WithContext(c)
	item, err := ctrl.service.UpdateMenuItem(c, id, body)
	if err != nil {
		err = fmt.Errorf("failed updating menu item with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("updated menu item")

	inHttp.WriteSuccess(c, w, http.StatusOK, "successfully updated menu item", map[string]interface{}{
		"item": item,
	})
}

func (ctrl MenuController) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "MenuController DeleteMenuItem")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "MenuController DeleteMenuItem").Logger()
	c = logger.WithContext(c)

	id, ok := inHttp.PathUUID(c, w, r, span, "itemId")
	if !ok {
		return
	}

	logger = logger.With().Str(log.KeyItemID, id.String()).Str(log.KeyProcess, "deleting menu item").Logger()
	logger.Trace().Msg("deleting menu item")
	c = logger.WithContext(c)
	if err := ctrl.service.DeleteMenuItem(c, id); err != nil {
		err = fmt.Errorf("failed deleting menu item with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("deleted menu item")

	inHttp.WriteSuccess(c, w, http.StatusOK, "successfully deleted menu item", map[string]interface{}{
		"itemId": id,
	})
}

func (ctrl MenuController) ReorderMenuItems(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "MenuController ReorderMenuItems")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "MenuController ReorderMenuItems").Logger()
	c = logger.WithContext(c)

	body, ok := inHttp.DecodeBody[request.Reorder](c, w, r, span, ctrl.validate)
	if !ok {
		return
	}

	logger = logger.With().Str(log.KeyProcess, "parsing menu item ids").Logger()
	ids := make([]uuid.UUID, 0, len(body.IDs))
	for _, raw := range body.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			err = fmt.Errorf("failed parsing menu item id=%s with error=%w", raw, err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			inHttp.WriteFailed(c, w, http.StatusBadRequest, err)
			return
		}
		ids = append(ids, id)
	}

	logger = logger.With().Str(log.KeyProcess, "reordering menu items").Logger()
	logger.Trace().Msg("reordering menu items")
	c = logger.WithContext(c)
	if err := ctrl.service.ReorderMenuItems(c, ids); err != nil {
		err = fmt.Errorf("failed reordering menu items with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("reordered menu items")

	inHttp.WriteSuccess(c, w, http.StatusOK, "successfully reordered menu items", map[string]interface{}{
		"ids": ids,
	})
}
