package controller

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inHttp "github.com/Alturino/raffa/internal/http"
	"github.com/Alturino/raffa/internal/log"
	"github.com/Alturino/raffa/internal/otel"
	"github.com/Alturino/raffa/menu/pkg/request"
)

func (ctrl MenuController) ListCategories(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "MenuController ListCategories")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "MenuController ListCategories").
		Str(log.KeyProcess, "listing categories").
		Logger()

	logger.Trace().Msg("listing categories")
	c = logger.WithContext(c)
	categories, err := ctrl.service.ListCategories(c, queryBool(r, "all"))
	if err != nil {
		err = fmt.Errorf("failed listing categories with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("listed categories")

	inHttp.WriteSuccess(c, w, http.StatusOK, "successfully listed categories", map[string]interface{}{
		"categories": categories,
	})
}

func (ctrl MenuController) InsertCategory(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "MenuController InsertCategory")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "MenuController InsertCategory").Logger()
	c = logger.WithContext(c)

	body, ok := inHttp.DecodeBody[request.Category](c, w, r, span, ctrl.validate)
	if !ok {
		return
	}

	logger = logger.With().Str(log.KeyCategoryID, body.ID).Str(log.KeyProcess, "inserting category").Logger()
	logger.Trace().Msg("inserting category")
	c = logger.WithContext(c)
	category, err := ctrl.service.InsertCategory(c, body)
	if err != nil {
		err = fmt.Errorf("failed inserting category with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("inserted category")

	inHttp.WriteSuccess(c, w, http.StatusCreated, "successfully inserted category", map[string]interface{}{
		"category": category,
	})
}

func (ctrl MenuController) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "MenuController UpdateCategory")
	defer span.End()

	id := mux.Vars(r)["categoryId"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "MenuController UpdateCategory").
		Str(log.KeyCategoryID, id).
		Logger()
	c = logger.WithContext(c)

	body, ok := inHttp.DecodeBody(c, w, r, span, ctrl.validate, func(body *request.Category) {
		body.ID = id
	})
	if !ok {
		return
	}

	logger = logger.With().Str(log.KeyProcess, "updating category").Logger()
	logger.Trace().Msg("updating category")
	c = logger.WithContext(c)
	category, err := ctrl.service.UpdateCategory(c, id, body)
	if err != nil {
		err = fmt.Errorf("failed updating category with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("updated category")

	inHttp.WriteSuccess(c, w, http.StatusOK, "successfully updated category", map[string]interface{}{
		"category": category,
	})
}

func (ctrl MenuController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "MenuController DeleteCategory")
	defer span.End()

	id := mux.Vars(r)["categoryId"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "MenuController DeleteCategory").
		Str(log.KeyCategoryID, id).
		Str(log.KeyProcess, "deleting category").
		Logger()

	logger.Trace().Msg("deleting category")
	c = logger.WithContext(c)
	if err := ctrl.service.DeleteCategory(c, id); err != nil {
		err = fmt.Errorf("failed deleting category with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("deleted category")

	inHttp.WriteSuccess(c, w, http.StatusOK, "successfully deleted category", map[string]interface{}{
		"categoryId": id,
	})
}

func (ctrl MenuController) ReorderCategories(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "MenuController ReorderCategories")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "MenuController ReorderCategories").Logger()
	c = logger.WithContext(c)

	body, ok := inHttp.DecodeBody[request.Reorder](c, w, r, span, ctrl.validate)
	if !ok {
		return
	}

	logger = logger.With().Str(log.KeyProcess, "reordering categories").Logger()
	logger.Trace().Msg("reordering categories")
	c = logger.WithContext(c)
	if err := ctrl.service.ReorderCategories(c, body.IDs); err != nil {
		err = fmt.Errorf("failed reordering categories with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("reordered categories")

	inHttp.WriteSuccess(c, w, http.StatusOK, "successfully reordered categories", map[string]interface{}{
		"ids": body.IDs,
	})
}

func (ctrl MenuController) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "MenuController ListPaymentMethods")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "MenuController ListPaymentMethods").
		Str(log.KeyProcess, "listing payment methods").
		Logger()

	logger.Trace().Msg("listing payment methods")
	c = logger.WithContext(c)
	methods, err := ctrl.service.ListPaymentMethods(c, queryBool(r, "all"))
	if err != nil {
		err = fmt.Errorf("failed listing payment methods with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("listed payment methods")

	inHttp.WriteSuccess(c, w, http.StatusOK, "successfully listed payment methods", map[string]interface{}{
		"paymentMethods": methods,
	})
}

// SavePaymentMethod serves both create and update. On update the path id
// wins over the body id.
func (ctrl MenuController) SavePaymentMethod(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "MenuController SavePaymentMethod")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "MenuController SavePaymentMethod").Logger()
	c = logger.WithContext(c)

	pathID, hasPathID := mux.Vars(r)["paymentMethodId"]
	body, ok := inHttp.DecodeBody(c, w, r, span, ctrl.validate, func(body *request.PaymentMethod) {
		if hasPathID {
			body.ID = pathID
		}
	})
	if !ok {
		return
	}
	ctrl.savePaymentMethod(w, r.WithContext(c), body)
}

func (ctrl MenuController) savePaymentMethod(w http.ResponseWriter, r *http.Request, body request.PaymentMethod) {
	c, span := otel.Tracer.Start(r.Context(), "MenuController savePaymentMethod")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyPaymentMethodID, body.ID).
		Str(log.KeyProcess, "saving payment method").
		Logger()

	logger.Trace().Msg("saving payment method")
	c = logger.WithContext(c)
	method, err := ctrl.service.SavePaymentMethod(c, body)
	if err != nil {
		err = fmt.Errorf("failed saving payment method with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("saved payment method")

	inHttp.WriteSuccess(c, w, http.StatusOK, "successfully saved payment method", map[string]interface{}{
		"paymentMethod": method,
	})
}

func (ctrl MenuController) DeletePaymentMethod(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "MenuController DeletePaymentMethod")
	defer span.End()

	id := mux.Vars(r)["paymentMethodId"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "MenuController DeletePaymentMethod").
		Str(log.KeyPaymentMethodID, id).
		Str(log.KeyProcess, "deleting payment method").
		Logger()

	logger.Trace().Msg("deleting payment method")
	c = logger.WithContext(c)
	if err := ctrl.service.DeletePaymentMethod(c, id); err != nil {
		err = fmt.Errorf("failed deleting payment method with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("deleted payment method")

	inHttp.WriteSuccess(c, w, http.StatusOK, "successfully deleted payment method", map[string]interface{}{
		"paymentMethodId": id,
	})
}
