package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	inErrors "github.com/Alturino/raffa/internal/errors"
	"github.com/Alturino/raffa/internal/log"
	"github.com/Alturino/raffa/internal/otel"
	"github.com/Alturino/raffa/internal/repository"
	"github.com/Alturino/raffa/menu/pkg/catalog"
	"github.com/Alturino/raffa/menu/pkg/provider"
	"github.com/Alturino/raffa/menu/pkg/request"
	"github.com/Alturino/raffa/menu/pkg/response"
)

const pgForeignKeyViolation = "23503"

type MenuService struct {
	pool     repository.Pool
	queries  *repository.Queries
	provider *provider.CatalogProvider
	now      func() time.Time
}

func NewMenuService(
	pool repository.Pool,
	queries *repository.Queries,
	provider *provider.CatalogProvider,
) MenuService {
	return MenuService{pool: pool, queries: queries, provider: provider, now: time.Now}
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

// invalidate drops the cached catalog after a write. A failure only means the
// next read is served stale until the ttl or the refresher catches up.
func (svc MenuService) invalidate(c context.Context) {
	logger := zerolog.Ctx(c)
	if err := svc.provider.Invalidate(c); err != nil {
		logger.Warn().Err(err).Msg("failed invalidating catalog cache")
	}
}

// Catalog returns the normalized snapshot consumed by the cart service.
func (svc MenuService) Catalog(c context.Context) ([]catalog.Item, error) {
	c, span := otel.Tracer.Start(c, "MenuService Catalog")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "MenuService Catalog").Logger()

	logger = logger.With().Str(log.KeyProcess, "finding catalog").Logger()
	logger.Trace().Msg("finding catalog")
	c = logger.WithContext(c)
	items, err := svc.provider.Items(c)
	if err != nil {
		err = fmt.Errorf("failed finding catalog with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Int(log.KeyCatalogSize, len(items)).Msg("found catalog")

	return items, nil
}

// ListMenuItems returns the menu in display order. Unavailable items are left
// out unless includeUnavailable is set and category narrows the result when
// not empty.
func (svc MenuService) ListMenuItems(
	c context.Context,
	category string,
	includeUnavailable bool,
) ([]response.MenuItem, error) {
	c, span := otel.Tracer.Start(c, "MenuService ListMenuItems")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "MenuService ListMenuItems").
		Str(log.KeyCategoryID, category).
		Logger()

	c = logger.WithContext(c)
	items, err := svc.Catalog(c)
	if err != nil {
		otel.RecordError(err, span)
		return nil, err
	}

	now := svc.now()
	result := make([]response.MenuItem, 0, len(items))
	for _, item := range items {
		if !includeUnavailable && !item.Available {
			continue
		}
		if category != "" && item.Category != category {
			continue
		}
		result = append(result, response.NewMenuItem(item, now))
	}
	logger.Info().Int(log.KeyCatalogSize, len(result)).Msg("listed menu items")

	return result, nil
}

func (svc MenuService) FindMenuItemById(c context.Context, id uuid.UUID) (response.MenuItem, error) {
	c, span := otel.Tracer.Start(c, "MenuService FindMenuItemById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "MenuService FindMenuItemById").
		Str(log.KeyItemID, id.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding menu item").Logger()
	logger.Trace().Msg("finding menu item")
	c = logger.WithContext(c)
	snapshot, err := svc.provider.Snapshot(c)
	if err != nil {
		err = fmt.Errorf("failed finding menu item with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.MenuItem{}, err
	}
	item, ok := snapshot.Find(id.String())
	if !ok {
		err = inErrors.ErrMenuItemNotFound
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.MenuItem{}, err
	}
	logger.Info().Msg("found menu item")

	return response.NewMenuItem(item, svc.now()), nil
}

func (svc MenuService) InsertMenuItem(c context.Context, param request.MenuItem) (response.MenuItem, error) {
	c, span := otel.Tracer.Start(c, "MenuService InsertMenuItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "MenuService InsertMenuItem").
		Str(log.KeyCategoryID, param.Category).
		Logger()

	var item catalog.Item
	logger = logger.With().Str(log.KeyProcess, "inserting menu item to database").Logger()
	logger.Trace().Msg("inserting menu item to database")
	c = logger.WithContext(c)
	err := repository.RunInTx(c, svc.pool, svc.queries, func(q *repository.Queries) error {
		sortOrder, err := q.NextMenuItemSortOrder(c, param.Category)
		if err != nil {
			return fmt.Errorf("failed finding next sort order with error=%w", err)
		}
		inserted, err := q.InsertMenuItem(c, insertMenuItemParams(param, sortOrder))
		if err != nil {
			if isForeignKeyViolation(err) {
				return inErrors.ErrCategoryNotFound
			}
			return fmt.Errorf("failed inserting menu item with error=%w", err)
		}
		variations, addOns, err := replaceOptions(c, q, inserted.ID, param)
		if err != nil {
			return err
		}
		item = repository.ToCatalogItem(inserted, variations, addOns)
		return nil
	})
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.MenuItem{}, err
	}
	logger = logger.With().Str(log.KeyItemID, item.ID).Logger()
	logger.Info().Msg("inserted menu item to database")

	c = logger.WithContext(c)
	svc.invalidate(c)

	return response.NewMenuItem(item, svc.now()), nil
}

// UpdateMenuItem overwrites the item and replaces its variations and add-ons.
func (svc MenuService) UpdateMenuItem(
	c context.Context,
	id uuid.UUID,
	param request.MenuItem,
) (response.MenuItem, error) {
	c, span := otel.Tracer.Start(c, "MenuService UpdateMenuItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "MenuService UpdateMenuItem").
		Str(log.KeyItemID, id.String()).
		Logger()

	var item catalog.Item
	logger = logger.With().Str(log.KeyProcess, "updating menu item in database").Logger()
	logger.Trace().Msg("updating menu item in database")
	c = logger.WithContext(c)
	err := repository.RunInTx(c, svc.pool, svc.queries, func(q *repository.Queries) error {
		updated, err := q.UpdateMenuItem(c, updateMenuItemParams(id, param))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return inErrors.ErrMenuItemNotFound
			}
			if isForeignKeyViolation(err) {
				return inErrors.ErrCategoryNotFound
			}
			return fmt.Errorf("failed updating menu item with error=%w", err)
		}
		if err = q.DeleteVariationsByMenuItemId(c, id); err != nil {
			return fmt.Errorf("failed deleting variations with error=%w", err)
		}
		if err = q.DeleteAddOnsByMenuItemId(c, id); err != nil {
			return fmt.Errorf("failed deleting add-ons with error=%w", err)
		}
		variations, addOns, err := replaceOptions(c, q, id, param)
		if err != nil {
			return err
		}
		item = repository.ToCatalogItem(updated, variations, addOns)
		return nil
	})
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.MenuItem{}, err
	}
	logger.Info().Msg("updated menu item in database")

	c = logger.WithContext(c)
	svc.invalidate(c)

	return response.NewMenuItem(item, svc.now()), nil
}

func (svc MenuService) DeleteMenuItem(c context.Context, id uuid.UUID) error {
	c, span := otel.Tracer.Start(c, "MenuService DeleteMenuItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "MenuService DeleteMenuItem").
		Str(log.KeyItemID, id.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "deleting menu item from database").Logger()
	logger.Trace().Msg("deleting menu item from database")
	affected, err := svc.queries.DeleteMenuItem(c, id)
	if err != nil {
		err = fmt.Errorf("failed deleting menu item with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if affected == 0 {
		err = inErrors.ErrMenuItemNotFound
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("deleted menu item from database")

	c = logger.WithContext(c)
	svc.invalidate(c)
	return nil
}

// ReorderMenuItems assigns sort order index+1 following ids.
func (svc MenuService) ReorderMenuItems(c context.Context, ids []uuid.UUID) error {
	c, span := otel.Tracer.Start(c, "MenuService ReorderMenuItems")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "MenuService ReorderMenuItems").Logger()

	logger = logger.With().Str(log.KeyProcess, "updating menu item sort order").Logger()
	logger.Trace().Msg("updating menu item sort order")
	c = logger.WithContext(c)
	err := repository.RunInTx(c, svc.pool, svc.queries, func(q *repository.Queries) error {
		for i, id := range ids {
			affected, err := q.UpdateMenuItemSortOrder(c, id, int32(i+1))
			if err != nil {
				return fmt.Errorf("failed updating sort order of menu item=%s with error=%w", id, err)
			}
			if affected == 0 {
				return fmt.Errorf("menu item=%s with error=%w", id, inErrors.ErrMenuItemNotFound)
			}
		}
		return nil
	})
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Int(log.KeyCatalogSize, len(ids)).Msg("updated menu item sort order")

	c = logger.WithContext(c)
	svc.invalidate(c)
	return nil
}

func replaceOptions(
	c context.Context,
	q *repository.Queries,
	menuItemID uuid.UUID,
	param request.MenuItem,
) ([]repository.Variation, []repository.AddOn, error) {
	variations := make([]repository.Variation, 0, len(param.Variations))
	for _, v := range param.Variations {
		inserted, err := q.InsertVariation(c, repository.InsertVariationParams{
			MenuItemID: menuItemID,
			Name:       v.Name,
			Price:      repository.NumericFromDecimal(v.Price),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed inserting variation with error=%w", err)
		}
		variations = append(variations, inserted)
	}
	addOns := make([]repository.AddOn, 0, len(param.AddOns))
	for _, a := range param.AddOns {
		inserted, err := q.InsertAddOn(c, repository.InsertAddOnParams{
			MenuItemID: menuItemID,
			Name:       a.Name,
			Price:      repository.NumericFromDecimal(a.Price),
			Category:   a.Category,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed inserting add-on with error=%w", err)
		}
		addOns = append(addOns, inserted)
	}
	return variations, addOns, nil
}

// stockFields keeps the stock columns consistent with the tracking flag.
func stockFields(param request.MenuItem) (stock *int, threshold int32) {
	if !param.TrackInventory {
		return nil, 0
	}
	if param.StockQuantity == nil {
		zero := 0
		return &zero, int32(param.LowStockThreshold)
	}
	return param.StockQuantity, int32(param.LowStockThreshold)
}

func insertMenuItemParams(param request.MenuItem, sortOrder int32) repository.InsertMenuItemParams {
	stock, threshold := stockFields(param)
	return repository.InsertMenuItemParams{
		Name:              param.Name,
		Description:       param.Description,
		BasePrice:         repository.NumericFromDecimal(param.BasePrice),
		Category:          param.Category,
		Popular:           param.Popular,
		Available:         param.Available,
		ImageUrl:          repository.TextFromString(param.Image),
		DiscountPrice:     repository.NumericFromNullDecimal(param.DiscountPrice),
		DiscountStartDate: repository.TimestamptzFromPtr(param.DiscountStartDate),
		DiscountEndDate:   repository.TimestamptzFromPtr(param.DiscountEndDate),
		DiscountActive:    param.DiscountActive,
		TrackInventory:    param.TrackInventory,
		StockQuantity:     repository.Int4FromPtr(stock),
		LowStockThreshold: threshold,
		SortOrder:         sortOrder,
	}
}

func updateMenuItemParams(id uuid.UUID, param request.MenuItem) repository.UpdateMenuItemParams {
	stock, threshold := stockFields(param)
	return repository.UpdateMenuItemParams{
		ID:                id,
		Name:              param.Name,
		Description:       param.Description,
		BasePrice:         repository.NumericFromDecimal(param.BasePrice),
		Category:          param.Category,
		Popular:           param.Popular,
		Available:         param.Available,
		ImageUrl:          repository.TextFromString(param.Image),
		DiscountPrice:     repository.NumericFromNullDecimal(param.DiscountPrice),
		DiscountStartDate: repository.TimestamptzFromPtr(param.DiscountStartDate),
		DiscountEndDate:   repository.TimestamptzFromPtr(param.DiscountEndDate),
		DiscountActive:    param.DiscountActive,
		TrackInventory:    param.TrackInventory,
		StockQuantity:     repository.Int4FromPtr(stock),
		LowStockThreshold: threshold,
	}
}
