package controller

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	inHttp "github.com/Alturino/raffa/internal/http"
	"github.com/Alturino/raffa/internal/log"
	"github.com/Alturino/raffa/internal/otel"
	"github.com/Alturino/raffa/menu/pkg/request"
	"github.com/Alturino/raffa/menu/pkg/response"
)

func (ctrl MenuController) ListInventory(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "MenuController ListInventory")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "MenuController ListInventory").Logger()

	filter := request.InventoryFilter{
		Query: r.URL.Query().Get("q"),
		Sort:  r.URL.Query().Get("sort"),
	}
	logger = logger.With().Any(log.KeyFilter, filter).Str(log.KeyProcess, "validating filter").Logger()
	if err := ctrl.validate.StructCtx(c, filter); err != nil {
		err = fmt.Errorf("failed validating filter with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err)
		return
	}

	logger = logger.With().Str(log.KeyProcess, "listing inventory").Logger()
	logger.Trace().Msg("listing inventory")
	c = logger.WithContext(c)
	items, err := ctrl.service.ListInventory(c, filter)
	if err != nil {
		err = fmt.Errorf("failed listing inventory with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("listed inventory")

	inHttp.WriteSuccess(c, w, http.StatusOK, "successfully listed inventory", map[string]interface{}{
		"items": items,
	})
}

func (ctrl MenuController) AdjustStock(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "MenuController AdjustStock")
	defer span.End()

	body, ok := inHttp.DecodeBody[request.StockAdjustment](c, w, r, span, ctrl.validate)
	if !ok {
		return
	}
	ctrl.writeInventory(c, w, r, span, "MenuController AdjustStock", func(c context.Context, id uuid.UUID) (response.InventoryItem, error) {
		return ctrl.service.AdjustStock(c, id, body.Delta)
	})
}

func (ctrl MenuController) SetStock(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "MenuController SetStock")
	defer span.End()

	body, ok := inHttp.DecodeBody[request.Stock](c, w, r, span, ctrl.validate)
	if !ok {
		return
	}
	ctrl.writeInventory(c, w, r, span, "MenuController SetStock", func(c context.Context, id uuid.UUID) (response.InventoryItem, error) {
		return ctrl.service.SetStock(c, id, body.Quantity)
	})
}

func (ctrl MenuController) SetLowStockThreshold(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "MenuController SetLowStockThreshold")
	defer span.End()

	body, ok := inHttp.DecodeBody[request.Threshold](c, w, r, span, ctrl.validate)
	if !ok {
		return
	}
	ctrl.writeInventory(c, w, r, span, "MenuController SetLowStockThreshold", func(c context.Context, id uuid.UUID) (response.InventoryItem, error) {
		return ctrl.service.SetLowStockThreshold(c, id, body.Threshold)
	})
}

func (ctrl MenuController) SetTracking(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "MenuController SetTracking")
	defer span.End()

	body, ok := inHttp.DecodeBody[request.Tracking](c, w, r, span, ctrl.validate)
	if !ok {
		return
	}
	ctrl.writeInventory(c, w, r, span, "MenuController SetTracking", func(c context.Context, id uuid.UUID) (response.InventoryItem, error) {
		return ctrl.service.SetTracking(c, id, body.Enabled)
	})
}

func (ctrl MenuController) writeInventory(
	c context.Context,
	w http.ResponseWriter,
	r *http.Request,
	span trace.Span,
	tag string,
	write func(context.Context, uuid.UUID) (response.InventoryItem, error),
) {
	logger := zerolog.Ctx(c).With().Str(log.KeyTag, tag).Logger()
	c = logger.WithContext(c)

	id, ok := inHttp.PathUUID(c, w, r, span, "itemId")
	if !ok {
		return
	}

	logger = logger.With().Str(log.KeyItemID, id.String()).Str(log.KeyProcess, "updating inventory").Logger()
	logger.Trace().Msg("updating inventory")
	c = logger.WithContext(c)
	item, err := write(c, id)
	if err != nil {
		err = fmt.Errorf("failed updating inventory with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, statusCode(err), err)
		return
	}
	logger.Info().Msg("updated inventory")

	inHttp.WriteSuccess(c, w, http.StatusOK, "successfully updated inventory", map[string]interface{}{
		"item": item,
	})
}
