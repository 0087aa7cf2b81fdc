package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	inErrors "github.com/Alturino/raffa/internal/errors"
	"github.com/Alturino/raffa/internal/log"
	"github.com/Alturino/raffa/internal/otel"
	"github.com/Alturino/raffa/internal/repository"
	"github.com/Alturino/raffa/menu/pkg/catalog"
	"github.com/Alturino/raffa/menu/pkg/request"
	"github.com/Alturino/raffa/menu/pkg/response"
)

// ListInventory reads straight from the database so admins never see a
// cached stock figure.
func (svc MenuService) ListInventory(
	c context.Context,
	filter request.InventoryFilter,
) ([]response.InventoryItem, error) {
	c, span := otel.Tracer.Start(c, "MenuService ListInventory")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "MenuService ListInventory").
		Any(log.KeyFilter, filter).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "loading catalog").Logger()
	logger.Trace().Msg("loading catalog")
	c = logger.WithContext(c)
	items, err := svc.provider.Load(c)
	if err != nil {
		err = fmt.Errorf("failed loading catalog with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Msg("loaded catalog")

	items = catalog.SearchInventory(items, filter.Query, filter.Sort)
	result := make([]response.InventoryItem, 0, len(items))
	for _, item := range items {
		result = append(result, response.NewInventoryItem(item))
	}
	logger.Info().Int(log.KeyCatalogSize, len(result)).Msg("listed inventory")

	return result, nil
}

func (svc MenuService) AdjustStock(c context.Context, id uuid.UUID, delta int) (response.InventoryItem, error) {
	return svc.writeInventory(c, "MenuService AdjustStock", id, func(c context.Context) (repository.MenuItem, error) {
		return svc.queries.AdjustStock(c, id, int32(delta))
	})
}

// SetStock overwrites the stock of a tracked item. Negative values become 0.
func (svc MenuService) SetStock(c context.Context, id uuid.UUID, quantity int) (response.InventoryItem, error) {
	return svc.writeInventory(c, "MenuService SetStock", id, func(c context.Context) (repository.MenuItem, error) {
		return svc.queries.SetStock(c, id, int32(quantity))
	})
}

func (svc MenuService) SetLowStockThreshold(
	c context.Context,
	id uuid.UUID,
	threshold int,
) (response.InventoryItem, error) {
	return svc.writeInventory(c, "MenuService SetLowStockThreshold", id, func(c context.Context) (repository.MenuItem, error) {
		return svc.queries.SetLowStockThreshold(c, id, int32(threshold))
	})
}

// SetTracking switches inventory tracking on or off. Switching it off clears
// the stock figure and leaves availability alone.
func (svc MenuService) SetTracking(c context.Context, id uuid.UUID, enabled bool) (response.InventoryItem, error) {
	return svc.writeInventory(c, "MenuService SetTracking", id, func(c context.Context) (repository.MenuItem, error) {
		if enabled {
			return svc.queries.EnableInventoryTracking(c, id)
		}
		return svc.queries.DisableInventoryTracking(c, id)
	})
}

func (svc MenuService) writeInventory(
	c context.Context,
	tag string,
	id uuid.UUID,
	write func(context.Context) (repository.MenuItem, error),
) (response.InventoryItem, error) {
	c, span := otel.Tracer.Start(c, tag)
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, tag).
		Str(log.KeyItemID, id.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "updating inventory in database").Logger()
	logger.Trace().Msg("updating inventory in database")
	updated, err := write(c)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = svc.untrackedOrMissing(c, id)
		} else {
			err = fmt.Errorf("failed updating inventory with error=%w", err)
		}
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.InventoryItem{}, err
	}
	item := repository.ToCatalogItem(updated, nil, nil)
	logger.Info().
		Bool("tracked", item.Inventory.Tracked).
		Interface(log.KeyStockQuantity, item.Inventory.StockQuantity).
		Msg("updated inventory in database")

	c = logger.WithContext(c)
	svc.invalidate(c)

	return response.NewInventoryItem(item), nil
}

// untrackedOrMissing tells apart the two reasons a tracked-only update
// matched no row.
func (svc MenuService) untrackedOrMissing(c context.Context, id uuid.UUID) error {
	_, err := svc.queries.FindMenuItemById(c, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return inErrors.ErrMenuItemNotFound
	}
	if err != nil {
		return fmt.Errorf("failed finding menu item with error=%w", err)
	}
	return inErrors.ErrInventoryNotTracked
}
