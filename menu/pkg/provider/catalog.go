// Package provider serves the normalized menu catalog from redis and falls
// back to postgres when the cached snapshot is missing or unreadable.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/raffa/internal/constants"
	"github.com/Alturino/raffa/internal/log"
	"github.com/Alturino/raffa/internal/metrics"
	"github.com/Alturino/raffa/internal/otel"
	"github.com/Alturino/raffa/internal/repository"
	"github.com/Alturino/raffa/menu/pkg/catalog"
)

type CatalogProvider struct {
	queries *repository.Queries
	cache   *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
}

func NewCatalogProvider(
	queries *repository.Queries,
	cache *redis.Client,
	ttl time.Duration,
	m *metrics.Metrics,
) *CatalogProvider {
	return &CatalogProvider{queries: queries, cache: cache, ttl: ttl, metrics: m}
}

// Items returns every menu item, available or not, in menu order.
func (p *CatalogProvider) Items(c context.Context) ([]catalog.Item, error) {
	c, span := otel.Tracer.Start(c, "CatalogProvider Items")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogProvider Items").
		Str(log.KeyCacheKey, constants.CacheKeyCatalog).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding catalog in cache").Logger()
	logger.Trace().Msg("finding catalog in cache")
	cached, err := p.cache.Get(c, constants.CacheKeyCatalog).Bytes()
	if err == nil {
		items := []catalog.Item{}
		if err = json.Unmarshal(cached, &items); err == nil {
			p.metrics.IncCatalogCache(true)
			span.AddEvent("found catalog in cache")
			logger.Debug().Int(log.KeyCatalogSize, len(items)).Msg("found catalog in cache")
			return items, nil
		}
		err = fmt.Errorf("failed unmarshalling cached catalog with error=%w", err)
		logger.Warn().Err(err).Msg(err.Error())
	} else if !errors.Is(err, redis.Nil) {
		err = fmt.Errorf("failed getting catalog from cache with error=%w", err)
		logger.Warn().Err(err).Msg(err.Error())
	}
	p.metrics.IncCatalogCache(false)
	logger.Info().Msg("catalog not found in cache")

	c = logger.WithContext(c)
	return p.Refresh(c)
}

// Load reads the catalog from the database without touching the cache.
func (p *CatalogProvider) Load(c context.Context) ([]catalog.Item, error) {
	c, span := otel.Tracer.Start(c, "CatalogProvider Load")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "CatalogProvider Load").Logger()

	logger = logger.With().Str(log.KeyProcess, "finding menu items in database").Logger()
	logger.Trace().Msg("finding menu items in database")
	menuItems, err := p.queries.ListMenuItems(c)
	if err != nil {
		err = fmt.Errorf("failed finding menu items with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Int(log.KeyCatalogSize, len(menuItems)).Msg("found menu items in database")

	ids := repository.MenuItemIds(menuItems)

	logger = logger.With().Str(log.KeyProcess, "finding variations in database").Logger()
	logger.Trace().Msg("finding variations in database")
	variations, err := p.queries.ListVariationsByMenuItemIds(c, ids)
	if err != nil {
		err = fmt.Errorf("failed finding variations with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Msg("found variations in database")

	logger = logger.With().Str(log.KeyProcess, "finding add-ons in database").Logger()
	logger.Trace().Msg("finding add-ons in database")
	addOns, err := p.queries.ListAddOnsByMenuItemIds(c, ids)
	if err != nil {
		err = fmt.Errorf("failed finding add-ons with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Msg("found add-ons in database")

	return repository.ToCatalogItems(menuItems, variations, addOns), nil
}

// Refresh loads the catalog from the database and writes it to the cache.
// A failed cache write is logged and does not fail the call.
func (p *CatalogProvider) Refresh(c context.Context) ([]catalog.Item, error) {
	c, span := otel.Tracer.Start(c, "CatalogProvider Refresh")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogProvider Refresh").
		Str(log.KeyCacheKey, constants.CacheKeyCatalog).
		Logger()

	c = logger.WithContext(c)
	items, err := p.Load(c)
	if err != nil {
		otel.RecordError(err, span)
		return nil, err
	}

	logger = logger.With().Str(log.KeyProcess, "inserting catalog to cache").Logger()
	logger.Trace().Msg("inserting catalog to cache")
	encoded, err := json.Marshal(items)
	if err != nil {
		err = fmt.Errorf("failed marshalling catalog with error=%w", err)
		logger.Warn().Err(err).Msg(err.Error())
		return items, nil
	}
	if err = p.cache.Set(c, constants.CacheKeyCatalog, encoded, p.ttl).Err(); err != nil {
		err = fmt.Errorf("failed inserting catalog to cache with error=%w", err)
		logger.Warn().Err(err).Msg(err.Error())
		return items, nil
	}
	span.AddEvent("inserted catalog to cache")
	logger.Debug().Int(log.KeyCatalogSize, len(items)).Msg("inserted catalog to cache")

	return items, nil
}

func (p *CatalogProvider) Invalidate(c context.Context) error {
	c, span := otel.Tracer.Start(c, "CatalogProvider Invalidate")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogProvider Invalidate").
		Str(log.KeyCacheKey, constants.CacheKeyCatalog).
		Str(log.KeyProcess, "deleting catalog from cache").
		Logger()

	logger.Trace().Msg("deleting catalog from cache")
	if err := p.cache.Del(c, constants.CacheKeyCatalog).Err(); err != nil {
		err = fmt.Errorf("failed deleting catalog from cache with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Debug().Msg("deleted catalog from cache")
	return nil
}

// Snapshot indexes the current catalog by item id.
func (p *CatalogProvider) Snapshot(c context.Context) (catalog.Snapshot, error) {
	items, err := p.Items(c)
	if err != nil {
		return nil, err
	}
	return catalog.NewSnapshot(items), nil
}
