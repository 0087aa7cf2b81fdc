package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/raffa/cart/pkg/engine"
	"github.com/Alturino/raffa/internal/config"
	"github.com/Alturino/raffa/internal/constants"
	inErrors "github.com/Alturino/raffa/internal/errors"
	"github.com/Alturino/raffa/internal/log"
	"github.com/Alturino/raffa/internal/metrics"
	"github.com/Alturino/raffa/internal/otel"
	"github.com/Alturino/raffa/internal/repository"
	"github.com/Alturino/raffa/menu/pkg/catalog"
	"github.com/Alturino/raffa/menu/pkg/provider"
	"github.com/Alturino/raffa/order/pkg/checkout"
	"github.com/Alturino/raffa/order/pkg/request"
	"github.com/Alturino/raffa/order/pkg/response"
)

const currencyPlaces = 2

type OrderService struct {
	pool            repository.Pool
	queries         *repository.Queries
	cache           *redis.Client
	provider        *provider.CatalogProvider
	metrics         *metrics.Metrics
	messenger       config.Messenger
	rateLimitWindow time.Duration
	location        *time.Location
	now             func() time.Time
}

func NewOrderService(
	pool repository.Pool,
	queries *repository.Queries,
	cache *redis.Client,
	provider *provider.CatalogProvider,
	m *metrics.Metrics,
	cfg *config.Config,
) (OrderService, error) {
	location, err := time.LoadLocation(cfg.Order.TimeZone)
	if err != nil {
		return OrderService{}, fmt.Errorf("failed loading timezone=%s with error=%w", cfg.Order.TimeZone, err)
	}
	return OrderService{
		pool:            pool,
		queries:         queries,
		cache:           cache,
		provider:        provider,
		metrics:         m,
		messenger:       cfg.Messenger,
		rateLimitWindow: cfg.Order.RateLimitWindow,
		location:        location,
		now:             time.Now,
	}, nil
}

// verifiedLine is a cart line checked against the locked catalog rows.
type verifiedLine struct {
	item      catalog.Item
	itemID    uuid.UUID
	variation *catalog.Variation
	addOns    []catalog.SelectedAddOn
	snapshot  engine.SnapshotLine
}

// Checkout persists the cart as a pending order and returns the messenger
// handoff. Stock of tracked items is decremented in the same transaction and
// an item without enough stock aborts the whole order.
func (svc OrderService) Checkout(c context.Context, param request.Checkout) (response.Checkout, error) {
	c, span := otel.Tracer.Start(c, "OrderService Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService Checkout").
		Str(log.KeyServiceType, param.ServiceType).
		Str(log.KeyRequestIp, param.ClientIP).
		Int(log.KeyTotalItems, param.Cart.TotalItems).
		Logger()

	if len(param.Cart.Lines) == 0 {
		err := inErrors.ErrEmptyCart
		svc.metrics.IncOrderRejected("empty_cart")
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "validating schedule").Logger()
	logger.Trace().Msg("validating schedule")
	err := checkout.ValidateSchedule(param.ServiceType, param.ScheduledDate, param.ScheduledTime, svc.now().In(svc.location))
	if err != nil {
		svc.metrics.IncOrderRejected("invalid_schedule")
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	logger.Trace().Msg("validated schedule")

	logger = logger.With().Str(log.KeyPaymentMethodID, param.PaymentMethod).Str(log.KeyProcess, "finding payment method").Logger()
	logger.Trace().Msg("finding payment method")
	paymentMethod, err := svc.queries.FindPaymentMethodById(c, param.PaymentMethod)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrPaymentMethodNotFound
		}
		err = fmt.Errorf("failed finding payment method with error=%w", err)
		svc.metrics.IncOrderRejected("payment_method")
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	if !paymentMethod.Active {
		err = inErrors.ErrInactivePaymentMethod
		svc.metrics.IncOrderRejected("payment_method")
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	logger.Trace().Msg("found payment method")

	c = logger.WithContext(c)
	release, err := svc.acquireRateLimit(c, param.ClientIP)
	if err != nil {
		if errors.Is(err, inErrors.ErrRateLimited) {
			svc.metrics.IncOrderRejected("rate_limited")
		}
		otel.RecordError(err, span)
		return response.Checkout{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "placing order").Logger()
	logger.Info().Msg("placing order")
	c = logger.WithContext(c)
	details := param.Details()
	order, verified, err := svc.placeOrder(c, details, param.ClientIP, param.Cart)
	if err != nil {
		release(c)
		if errors.Is(err, inErrors.ErrInsufficientStock) {
			svc.metrics.IncOrderRejected("insufficient_stock")
		} else {
			svc.metrics.IncOrderRejected("invalid_cart")
		}
		err = fmt.Errorf("failed placing order with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	svc.metrics.IncOrderPlaced(order.ServiceType)
	logger = logger.With().Str(log.KeyOrderID, order.ID.String()).Logger()
	logger.Info().Msg("placed order")

	if err := svc.provider.Invalidate(c); err != nil {
		logger.Warn().Err(err).Msg("failed invalidating catalog cache")
	}

	message := checkout.Message(details, paymentMethod.Name, verified, svc.location)
	return response.Checkout{
		Order:         order,
		Message:       message,
		MessengerLink: checkout.MessengerLink(svc.messenger.BaseURL, svc.messenger.PageID, message),
	}, nil
}

// acquireRateLimit claims the per ip order slot for the configured window.
// The returned func gives the slot back when the order is not placed.
func (svc OrderService) acquireRateLimit(c context.Context, ip string) (func(context.Context), error) {
	c, span := otel.Tracer.Start(c, "OrderService acquireRateLimit")
	defer span.End()

	noop := func(context.Context) {}
	if ip == "" || svc.rateLimitWindow <= 0 {
		return noop, nil
	}

	key := constants.CacheKeyRateLimitPrefix + ip
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService acquireRateLimit").
		Str(log.KeyCacheKey, key).
		Str(log.KeyProcess, "acquiring rate limit").
		Logger()

	logger.Trace().Msg("acquiring rate limit")
	acquired, err := svc.cache.SetNX(c, key, svc.now().Unix(), svc.rateLimitWindow).Result()
	if err != nil {
		err = fmt.Errorf("failed acquiring rate limit with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return noop, err
	}
	if !acquired {
		err = inErrors.ErrRateLimited
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return noop, err
	}
	logger.Trace().Msg("acquired rate limit")

	return func(c context.Context) {
		if err := svc.cache.Del(context.WithoutCancel(c), key).Err(); err != nil {
			logger.Warn().Err(err).Msg("failed releasing rate limit")
		}
	}, nil
}

func (svc OrderService) placeOrder(
	c context.Context,
	details checkout.Details,
	ip string,
	cart engine.Snapshot,
) (response.Order, engine.Snapshot, error) {
	c, span := otel.Tracer.Start(c, "OrderService placeOrder")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "OrderService placeOrder").Logger()

	var order response.Order
	var verified engine.Snapshot
	err := repository.RunInTx(c, svc.pool, svc.queries, func(q *repository.Queries) error {
		logger := logger.With().Str(log.KeyProcess, "verifying cart").Logger()
		logger.Trace().Msg("verifying cart")
		lines, err := verifyCart(c, q, cart)
		if err != nil {
			err = fmt.Errorf("failed verifying cart with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
		verified = snapshotOf(lines)
		logger.Trace().Str(log.KeyTotalPrice, verified.TotalPrice.String()).Msg("verified cart")

		logger = logger.With().Str(log.KeyProcess, "decrementing stock").Logger()
		logger.Trace().Msg("decrementing stock")
		if err := decrementStock(c, q, lines); err != nil {
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
		logger.Trace().Msg("decremented stock")

		logger = logger.With().Str(log.KeyProcess, "inserting order").Logger()
		logger.Trace().Msg("inserting order")
		inserted, err := q.InsertOrder(c, repository.InsertOrderParams{
			CustomerName:    checkout.CustomerName(details),
			ContactNumber:   details.RecipientContact,
			ServiceType:     details.ServiceType,
			Address:         addressOf(details),
			PickupTime:      repository.TextFromString(checkout.PickupTime(details)),
			PaymentMethod:   details.PaymentMethod,
			ReferenceNumber: repository.TextFromString(details.ReferenceNumber),
			Notes:           repository.TextFromString(checkout.MergeNotes(details.Notes, details.Landmark)),
			Total:           repository.NumericFromDecimal(verified.TotalPrice),
			IpAddress:       repository.TextFromString(ip),
			ReceiptUrl:      repository.TextFromString(details.ReceiptURL),
		})
		if err != nil {
			err = fmt.Errorf("failed inserting order with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
		logger = logger.With().Str(log.KeyOrderID, inserted.ID.String()).Logger()
		logger.Trace().Msg("inserted order")

		logger = logger.With().Str(log.KeyProcess, "inserting order items").Logger()
		logger.Trace().Msg("inserting order items")
		items := make([]repository.OrderItem, 0, len(lines))
		for _, line := range lines {
			params, err := orderItemParams(inserted.ID, line)
			if err != nil {
				logger.Error().Err(err).Msg(err.Error())
				return err
			}
			item, err := q.InsertOrderItem(c, params)
			if err != nil {
				err = fmt.Errorf("failed inserting order item with error=%w", err)
				logger.Error().Err(err).Msg(err.Error())
				return err
			}
			items = append(items, item)
		}
		logger.Trace().Int(log.KeyTotalItems, len(items)).Msg("inserted order items")

		order, err = inserted.Response(items)
		return err
	})
	if err != nil {
		otel.RecordError(err, span)
		return response.Order{}, engine.Snapshot{}, err
	}
	return order, verified, nil
}

// verifyCart locks the ordered menu items and checks every line against
// them. Unit prices are kept as quoted by the cart, totals are recomputed.
func verifyCart(c context.Context, q *repository.Queries, cart engine.Snapshot) ([]verifiedLine, error) {
	ids := make([]uuid.UUID, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		id, err := uuid.Parse(line.ItemID)
		if err != nil {
			return nil, fmt.Errorf("%w: itemId=%s", inErrors.ErrMenuItemNotFound, line.ItemID)
		}
		ids = append(ids, id)
	}

	rows, err := q.FindMenuItemsByIdsForUpdate(c, ids)
	if err != nil {
		return nil, fmt.Errorf("failed locking menu items with error=%w", err)
	}
	variations, err := q.ListVariationsByMenuItemIds(c, ids)
	if err != nil {
		return nil, fmt.Errorf("failed listing variations with error=%w", err)
	}
	addOns, err := q.ListAddOnsByMenuItemIds(c, ids)
	if err != nil {
		return nil, fmt.Errorf("failed listing add-ons with error=%w", err)
	}
	snapshot := catalog.NewSnapshot(repository.ToCatalogItems(rows, variations, addOns))

	lines := make([]verifiedLine, 0, len(cart.Lines))
	for i, line := range cart.Lines {
		item, ok := snapshot.Find(line.ItemID)
		if !ok {
			return nil, fmt.Errorf("%w: itemId=%s", inErrors.ErrMenuItemNotFound, line.ItemID)
		}
		if !item.Available {
			return nil, fmt.Errorf("%w: %s", inErrors.ErrItemUnavailable, item.Name)
		}
		if line.Quantity < 1 {
			return nil, fmt.Errorf("%w: %s", inErrors.ErrInvalidQuantity, item.Name)
		}
		if !line.UnitTotalPrice.IsPositive() {
			return nil, fmt.Errorf("%w: %s", inErrors.ErrInvalidPrice, item.Name)
		}

		verified := verifiedLine{item: item, itemID: ids[i], addOns: []catalog.SelectedAddOn{}}
		if line.VariationID != "" {
			variation, ok := item.FindVariation(line.VariationID)
			if !ok {
				return nil, fmt.Errorf("%w: variationId=%s of %s", inErrors.ErrVariationNotFound, line.VariationID, item.Name)
			}
			verified.variation = &variation
		}
		for _, selected := range line.AddOns {
			addOn, ok := item.FindAddOn(selected.ID)
			if !ok {
				return nil, fmt.Errorf("%w: addOnId=%s of %s", inErrors.ErrAddOnNotFound, selected.ID, item.Name)
			}
			verified.addOns = append(verified.addOns, catalog.SelectedAddOn{AddOn: addOn, Quantity: max(1, selected.Quantity)})
		}

		unitPrice := line.UnitTotalPrice.Round(currencyPlaces)
		verified.snapshot = line
		verified.snapshot.Name = item.Name
		verified.snapshot.UnitTotalPrice = unitPrice
		verified.snapshot.LineTotal = unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(currencyPlaces)
		lines = append(lines, verified)
	}
	return lines, nil
}

// decrementStock takes the ordered quantity of every tracked item out of
// stock, summing lines that share an item.
func decrementStock(c context.Context, q *repository.Queries, lines []verifiedLine) error {
	quantities := map[uuid.UUID]int{}
	tracked := []verifiedLine{}
	for _, line := range lines {
		if !line.item.Inventory.Tracked {
			continue
		}
		if _, ok := quantities[line.itemID]; !ok {
			tracked = append(tracked, line)
		}
		quantities[line.itemID] += line.snapshot.Quantity
	}

	for _, line := range tracked {
		_, err := q.DecrementStock(c, line.itemID, int32(quantities[line.itemID]))
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w for %s", inErrors.ErrInsufficientStock, line.item.Name)
		}
		if err != nil {
			return fmt.Errorf("failed decrementing stock of %s with error=%w", line.item.Name, err)
		}
	}
	return nil
}

func snapshotOf(lines []verifiedLine) engine.Snapshot {
	snapshot := engine.Snapshot{Lines: make([]engine.SnapshotLine, 0, len(lines)), TotalPrice: decimal.Zero}
	for _, line := range lines {
		snapshot.Lines = append(snapshot.Lines, line.snapshot)
		snapshot.TotalItems += line.snapshot.Quantity
		snapshot.TotalPrice = snapshot.TotalPrice.Add(line.snapshot.LineTotal)
	}
	return snapshot
}

func orderItemParams(orderID uuid.UUID, line verifiedLine) (repository.InsertOrderItemParams, error) {
	params := repository.InsertOrderItemParams{
		OrderID:   orderID,
		ItemID:    line.itemID,
		Name:      line.item.Name,
		UnitPrice: repository.NumericFromDecimal(line.snapshot.UnitTotalPrice),
		Quantity:  int32(line.snapshot.Quantity),
		Subtotal:  repository.NumericFromDecimal(line.snapshot.LineTotal),
	}
	if line.variation != nil {
		variation, err := json.Marshal(line.variation)
		if err != nil {
			return params, fmt.Errorf("failed encoding variation with error=%w", err)
		}
		params.Variation = variation
	}
	addOns, err := json.Marshal(line.addOns)
	if err != nil {
		return params, fmt.Errorf("failed encoding add-ons with error=%w", err)
	}
	params.AddOns = addOns
	return params, nil
}

func addressOf(details checkout.Details) pgtype.Text {
	if details.ServiceType != checkout.ServiceTypeDelivery {
		return pgtype.Text{}
	}
	return repository.TextFromString(details.Address)
}
