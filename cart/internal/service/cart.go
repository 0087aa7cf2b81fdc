package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/raffa/cart/pkg/engine"
	"github.com/Alturino/raffa/cart/pkg/request"
	"github.com/Alturino/raffa/cart/pkg/response"
	"github.com/Alturino/raffa/internal/config"
	"github.com/Alturino/raffa/internal/constants"
	inErrors "github.com/Alturino/raffa/internal/errors"
	inHttp "github.com/Alturino/raffa/internal/http"
	"github.com/Alturino/raffa/internal/log"
	"github.com/Alturino/raffa/internal/metrics"
	"github.com/Alturino/raffa/internal/otel"
	"github.com/Alturino/raffa/menu/pkg/catalog"
	orderRequest "github.com/Alturino/raffa/order/pkg/request"
	orderResponse "github.com/Alturino/raffa/order/pkg/response"
)

const maxWatchAttempts = 3

// errUnchanged aborts a mutation without writing the cart back.
var errUnchanged = errors.New("cart unchanged")

type CartService struct {
	cache    *redis.Client
	metrics  *metrics.Metrics
	ttl      time.Duration
	menuURL  string
	orderURL string
	now      func() time.Time
}

func NewCartService(cache *redis.Client, m *metrics.Metrics, cfg *config.Config) CartService {
	return CartService{
		cache:    cache,
		metrics:  m,
		ttl:      cfg.Cart.TTL,
		menuURL:  cfg.Upstream.MenuURL,
		orderURL: cfg.Upstream.OrderURL,
		now:      time.Now,
	}
}

func cartKey(id uuid.UUID) string {
	return constants.CacheKeyCartPrefix + id.String()
}

type getter interface {
	Get(c context.Context, key string) *redis.StringCmd
}

func load(c context.Context, cache getter, key string) ([]engine.Line, error) {
	raw, err := cache.Get(c, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, inErrors.ErrCartNotFound
		}
		return nil, fmt.Errorf("failed getting cart with error=%w", err)
	}
	lines := []engine.Line{}
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("failed unmarshalling cart with error=%w", err)
	}
	return lines, nil
}

func toResponse(id uuid.UUID, cart *engine.Cart) response.Cart {
	return response.Cart{ID: id, Snapshot: cart.Snapshot()}
}

// mutate applies fn to the stored cart inside a WATCH transaction so two
// requests on the same cart never overwrite each other's lines.
func (svc CartService) mutate(
	c context.Context,
	id uuid.UUID,
	items catalog.Snapshot,
	fn func(cart *engine.Cart) error,
) (*engine.Cart, error) {
	key := cartKey(id)
	var cart *engine.Cart
	txf := func(tx *redis.Tx) error {
		lines, err := load(c, tx, key)
		if err != nil {
			return err
		}
		cart = engine.New(items, engine.WithLines(lines), engine.WithClock(svc.now))
		if err := fn(cart); err != nil {
			return err
		}
		encoded, err := json.Marshal(cart.Lines())
		if err != nil {
			return fmt.Errorf("failed marshalling cart with error=%w", err)
		}
		_, err = tx.TxPipelined(c, func(pipe redis.Pipeliner) error {
			pipe.Set(c, key, encoded, svc.ttl)
			return nil
		})
		return err
	}

	for range maxWatchAttempts {
		err := svc.cache.Watch(c, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, errUnchanged) {
			return cart, nil
		}
		if err != nil {
			return nil, err
		}
		return cart, nil
	}
	return nil, fmt.Errorf("failed updating cart after %d attempts with error=%w", maxWatchAttempts, redis.TxFailedErr)
}

type catalogData struct {
	Items []catalog.Item `json:"items"`
}

func (svc CartService) fetchCatalog(c context.Context) (catalog.Snapshot, error) {
	data, err := inHttp.DoJson[catalogData](c, http.MethodGet, svc.menuURL+"/catalog", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed fetching catalog with error=%w", inErrors.ErrUpstream, err)
	}
	return catalog.NewSnapshot(data.Items), nil
}

// resolveSelection looks the requested configuration up in the catalog. An
// unavailable item is rejected unless it is tracked and sold out, which the
// cart reports as a clamp instead.
func resolveSelection(
	items catalog.Snapshot,
	param request.AddItem,
) (catalog.Item, *catalog.Variation, []catalog.SelectedAddOn, error) {
	item, ok := items.Find(param.ItemID)
	if !ok {
		return catalog.Item{}, nil, nil, fmt.Errorf("%w id=%s", inErrors.ErrMenuItemNotFound, param.ItemID)
	}
	if !item.Available {
		if ceiling, tracked := catalog.StockCeiling(item); !tracked || ceiling > 0 {
			return catalog.Item{}, nil, nil, fmt.Errorf("%w name=%s", inErrors.ErrItemUnavailable, item.Name)
		}
	}

	var variation *catalog.Variation
	if param.VariationID != "" {
		found, ok := item.FindVariation(param.VariationID)
		if !ok {
			return catalog.Item{}, nil, nil, fmt.Errorf("%w id=%s", inErrors.ErrVariationNotFound, param.VariationID)
		}
		variation = &found
	}

	addOns := make([]catalog.SelectedAddOn, 0, len(param.AddOns))
	for _, selected := range param.AddOns {
		found, ok := item.FindAddOn(selected.ID)
		if !ok {
			return catalog.Item{}, nil, nil, fmt.Errorf("%w id=%s", inErrors.ErrAddOnNotFound, selected.ID)
		}
		addOns = append(addOns, catalog.SelectedAddOn{AddOn: found, Quantity: max(selected.Quantity, 1)})
	}

	return item, variation, addOns, nil
}

func (svc CartService) CreateCart(c context.Context) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService CreateCart")
	defer span.End()

	id := uuid.New()
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService CreateCart").
		Str(log.KeyCartID, id.String()).
		Str(log.KeyProcess, "creating cart").
		Logger()

	logger.Trace().Msg("creating cart")
	if err := svc.cache.Set(c, cartKey(id), "[]", svc.ttl).Err(); err != nil {
		err = fmt.Errorf("failed creating cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	svc.metrics.IncCartOperation("create")
	logger.Info().Msg("created cart")

	return toResponse(id, engine.New(catalog.Snapshot{})), nil
}

func (svc CartService) GetCart(c context.Context, id uuid.UUID) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService GetCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService GetCart").
		Str(log.KeyCartID, id.String()).
		Str(log.KeyProcess, "loading cart").
		Logger()

	logger.Trace().Msg("loading cart")
	lines, err := load(c, svc.cache, cartKey(id))
	if err != nil {
		err = fmt.Errorf("failed loading cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	cart := engine.New(catalog.Snapshot{}, engine.WithLines(lines))
	logger.Info().
		Int(log.KeyTotalItems, cart.TotalItems()).
		Str(log.KeyTotalPrice, cart.TotalPrice().String()).
		Msg("loaded cart")

	return toResponse(id, cart), nil
}

func (svc CartService) AddItem(c context.Context, id uuid.UUID, param request.AddItem) (response.Mutation, error) {
	c, span := otel.Tracer.Start(c, "CartService AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService AddItem").
		Str(log.KeyCartID, id.String()).
		Str(log.KeyItemID, param.ItemID).
		Int(log.KeyRequestedQuantity, param.Quantity).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "fetching catalog").Logger()
	logger.Trace().Msg("fetching catalog")
	c = logger.WithContext(c)
	items, err := svc.fetchCatalog(c)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Mutation{}, err
	}
	logger.Trace().Int(log.KeyCatalogSize, len(items)).Msg("fetched catalog")

	logger = logger.With().Str(log.KeyProcess, "resolving selection").Logger()
	item, variation, addOns, err := resolveSelection(items, param)
	if err != nil {
		err = fmt.Errorf("failed resolving selection with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Mutation{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "adding item").Logger()
	logger.Trace().Msg("adding item")
	var result engine.Result
	cart, err := svc.mutate(c, id, items, func(cart *engine.Cart) error {
		result = cart.AddItem(item, variation, addOns, param.Quantity)
		return nil
	})
	if err != nil {
		err = fmt.Errorf("failed adding item with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Mutation{}, err
	}
	svc.metrics.IncCartOperation("add")
	if result.Clamped {
		svc.metrics.IncClamped("add")
	}
	logger.Info().
		Str(log.KeyLineID, result.LineID).
		Int(log.KeyQuantity, result.Quantity).
		Bool("clamped", result.Clamped).
		Msg("added item")

	return response.Mutation{Cart: toResponse(id, cart), Result: result}, nil
}

// UpdateQuantity sets the quantity of a line. An unknown line leaves the cart
// untouched and is reported with Result.Found false.
func (svc CartService) UpdateQuantity(
	c context.Context,
	id uuid.UUID,
	lineID string,
	quantity int,
) (response.Mutation, error) {
	c, span := otel.Tracer.Start(c, "CartService UpdateQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService UpdateQuantity").
		Str(log.KeyCartID, id.String()).
		Str(log.KeyLineID, lineID).
		Int(log.KeyRequestedQuantity, quantity).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "fetching catalog").Logger()
	logger.Trace().Msg("fetching catalog")
	c = logger.WithContext(c)
	items, err := svc.fetchCatalog(c)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Mutation{}, err
	}
	logger.Trace().Msg("fetched catalog")

	logger = logger.With().Str(log.KeyProcess, "updating quantity").Logger()
	logger.Trace().Msg("updating quantity")
	var result engine.Result
	cart, err := svc.mutate(c, id, items, func(cart *engine.Cart) error {
		result = cart.UpdateQuantity(lineID, quantity)
		if !result.Found {
			return errUnchanged
		}
		return nil
	})
	if err != nil {
		err = fmt.Errorf("failed updating quantity with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Mutation{}, err
	}
	svc.metrics.IncCartOperation("update")
	if result.Clamped {
		svc.metrics.IncClamped("update")
	}
	logger.Info().
		Bool("found", result.Found).
		Int(log.KeyQuantity, result.Quantity).
		Bool("removed", result.Removed).
		Bool("clamped", result.Clamped).
		Msg("updated quantity")

	return response.Mutation{Cart: toResponse(id, cart), Result: result}, nil
}

// RemoveItem drops the line if present. Removing an unknown line leaves the
// cart unchanged.
func (svc CartService) RemoveItem(c context.Context, id uuid.UUID, lineID string) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService RemoveItem").
		Str(log.KeyCartID, id.String()).
		Str(log.KeyLineID, lineID).
		Str(log.KeyProcess, "removing item").
		Logger()

	logger.Trace().Msg("removing item")
	removed := false
	cart, err := svc.mutate(c, id, catalog.Snapshot{}, func(cart *engine.Cart) error {
		removed = cart.RemoveItem(lineID)
		if !removed {
			return errUnchanged
		}
		return nil
	})
	if err != nil {
		err = fmt.Errorf("failed removing item with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	svc.metrics.IncCartOperation("remove")
	logger.Info().Bool("removed", removed).Msg("removed item")

	return toResponse(id, cart), nil
}

func (svc CartService) Clear(c context.Context, id uuid.UUID) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService Clear")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService Clear").
		Str(log.KeyCartID, id.String()).
		Str(log.KeyProcess, "clearing cart").
		Logger()

	logger.Trace().Msg("clearing cart")
	cart, err := svc.mutate(c, id, catalog.Snapshot{}, func(cart *engine.Cart) error {
		cart.Clear()
		return nil
	})
	if err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	svc.metrics.IncCartOperation("clear")
	logger.Info().Msg("cleared cart")

	return toResponse(id, cart), nil
}

// Checkout forwards the cart snapshot to the order service. The cart is
// emptied only after the order service accepted it.
func (svc CartService) Checkout(
	c context.Context,
	id uuid.UUID,
	customer request.Checkout,
	clientIP string,
) (orderResponse.Checkout, error) {
	c, span := otel.Tracer.Start(c, "CartService Checkout")
	defer span.End()

	key := cartKey(id)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService Checkout").
		Str(log.KeyCartID, id.String()).
		Str(log.KeyRequestIp, clientIP).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "loading cart").Logger()
	logger.Trace().Msg("loading cart")
	lines, err := load(c, svc.cache, key)
	if err != nil {
		err = fmt.Errorf("failed loading cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return orderResponse.Checkout{}, err
	}
	cart := engine.New(catalog.Snapshot{}, engine.WithLines(lines))
	if cart.IsEmpty() {
		err = inErrors.ErrEmptyCart
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return orderResponse.Checkout{}, err
	}
	logger.Trace().Int(log.KeyTotalItems, cart.TotalItems()).Msg("loaded cart")

	logger = logger.With().Str(log.KeyProcess, "placing order").Logger()
	logger.Trace().Msg("placing order")
	c = logger.WithContext(c)
	result, err := inHttp.DoJson[orderResponse.Checkout](
		c,
		http.MethodPost,
		svc.orderURL+"/checkout",
		orderRequest.Checkout{Customer: customer, Cart: cart.Snapshot(), ClientIP: clientIP},
	)
	if err != nil {
		err = fmt.Errorf("failed placing order with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return orderResponse.Checkout{}, err
	}
	logger.Info().Str(log.KeyOrderID, result.Order.ID.String()).Msg("placed order")

	logger = logger.With().Str(log.KeyProcess, "clearing cart").Logger()
	logger.Trace().Msg("clearing cart")
	if err := svc.cache.Set(c, key, "[]", svc.ttl).Err(); err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	} else {
		logger.Trace().Msg("cleared cart")
	}
	svc.metrics.IncCartOperation("checkout")

	return result, nil
}
