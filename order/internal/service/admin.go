package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	inErrors "github.com/Alturino/raffa/internal/errors"
	"github.com/Alturino/raffa/internal/log"
	"github.com/Alturino/raffa/internal/otel"
	"github.com/Alturino/raffa/internal/repository"
	"github.com/Alturino/raffa/order/pkg/checkout"
	"github.com/Alturino/raffa/order/pkg/customer"
	"github.com/Alturino/raffa/order/pkg/request"
	"github.com/Alturino/raffa/order/pkg/response"
)

// listOrdersParams turns the filter into query params. Dates are whole days
// in the business time zone and the upper bound is inclusive.
func (svc OrderService) listOrdersParams(filter request.Filter) (repository.ListOrdersParams, error) {
	params := repository.ListOrdersParams{
		Query:       repository.TextFromString(filter.Query),
		Status:      repository.TextFromString(filter.Status),
		ServiceType: repository.TextFromString(filter.ServiceType),
		Sort:        filter.Sort,
	}
	if filter.From != "" {
		from, err := time.ParseInLocation(checkout.DateLayout, filter.From, svc.location)
		if err != nil {
			return params, fmt.Errorf("failed parsing from=%s with error=%w", filter.From, err)
		}
		params.From = pgtype.Timestamptz{Time: from, Valid: true}
	}
	if filter.To != "" {
		to, err := time.ParseInLocation(checkout.DateLayout, filter.To, svc.location)
		if err != nil {
			return params, fmt.Errorf("failed parsing to=%s with error=%w", filter.To, err)
		}
		params.To = pgtype.Timestamptz{Time: to.AddDate(0, 0, 1), Valid: true}
	}
	return params, nil
}

func (svc OrderService) ListOrders(c context.Context, filter request.Filter) ([]response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService ListOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService ListOrders").
		Any(log.KeyFilter, filter).
		Logger()

	params, err := svc.listOrdersParams(filter)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	logger = logger.With().Str(log.KeyProcess, "listing orders").Logger()
	logger.Trace().Msg("listing orders")
	orders, err := svc.queries.ListOrders(c, params)
	if err != nil {
		err = fmt.Errorf("failed listing orders with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Int("orders", len(orders)).Msg("listed orders")

	logger = logger.With().Str(log.KeyProcess, "listing order items").Logger()
	logger.Trace().Msg("listing order items")
	items, err := svc.queries.ListOrderItemsByOrderIds(c, repository.OrderIds(orders))
	if err != nil {
		err = fmt.Errorf("failed listing order items with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Msg("listed order items")

	result, err := repository.ToOrderResponses(orders, items)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Int("orders", len(result)).Msg("listed orders")

	return result, nil
}

func (svc OrderService) FindOrderById(c context.Context, id uuid.UUID) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrderById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService FindOrderById").
		Str(log.KeyOrderID, id.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding order").Logger()
	logger.Trace().Msg("finding order")
	order, err := svc.queries.FindOrderById(c, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrOrderNotFound
		}
		err = fmt.Errorf("failed finding order with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	c = logger.WithContext(c)
	return svc.withItems(c, order)
}

func (svc OrderService) withItems(c context.Context, order repository.Order) (response.Order, error) {
	logger := zerolog.Ctx(c).With().Str(log.KeyProcess, "listing order items").Logger()

	logger.Trace().Msg("listing order items")
	items, err := svc.queries.ListOrderItemsByOrderIds(c, []uuid.UUID{order.ID})
	if err != nil {
		err = fmt.Errorf("failed listing order items with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Trace().Msg("listed order items")

	result, err := order.Response(items)
	if err != nil {
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	return result, nil
}

func (svc OrderService) UpdateOrderStatus(c context.Context, id uuid.UUID, status string) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService UpdateOrderStatus")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService UpdateOrderStatus").
		Str(log.KeyOrderID, id.String()).
		Str(log.KeyOrderStatus, status).
		Logger()

	if !checkout.IsOrderStatus(status) {
		err := fmt.Errorf("unknown order status=%s", status)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "updating order status").Logger()
	logger.Trace().Msg("updating order status")
	order, err := svc.queries.UpdateOrderStatus(c, id, status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrOrderNotFound
		}
		err = fmt.Errorf("failed updating order status with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("updated order status")

	c = logger.WithContext(c)
	return svc.withItems(c, order)
}

func (svc OrderService) DeleteOrder(c context.Context, id uuid.UUID) error {
	c, span := otel.Tracer.Start(c, "OrderService DeleteOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService DeleteOrder").
		Str(log.KeyOrderID, id.String()).
		Str(log.KeyProcess, "deleting order").
		Logger()

	logger.Trace().Msg("deleting order")
	deleted, err := svc.queries.DeleteOrder(c, id)
	if err != nil {
		err = fmt.Errorf("failed deleting order with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if deleted == 0 {
		err = inErrors.ErrOrderNotFound
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("deleted order")

	return nil
}

// DeleteAllOrders clears the order history and returns how many orders were
// removed.
func (svc OrderService) DeleteAllOrders(c context.Context) (int64, error) {
	c, span := otel.Tracer.Start(c, "OrderService DeleteAllOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService DeleteAllOrders").
		Str(log.KeyProcess, "deleting all orders").
		Logger()

	logger.Trace().Msg("deleting all orders")
	deleted, err := svc.queries.DeleteAllOrders(c)
	if err != nil {
		err = fmt.Errorf("failed deleting all orders with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return 0, err
	}
	logger.Info().Int64("deleted", deleted).Msg("deleted all orders")

	return deleted, nil
}

func (svc OrderService) ListCustomers(c context.Context, filter request.CustomerFilter) ([]customer.Customer, error) {
	c, span := otel.Tracer.Start(c, "OrderService ListCustomers")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService ListCustomers").
		Any(log.KeyFilter, filter).
		Logger()

	c = logger.WithContext(c)
	orders, err := svc.ListOrders(c, request.Filter{})
	if err != nil {
		otel.RecordError(err, span)
		return nil, err
	}

	customers := customer.Search(customer.Aggregate(orders), filter.Query)
	customer.Sort(customers, filter.Sort, filter.Direction)
	logger.Info().Int("customers", len(customers)).Msg("listed customers")

	return customers, nil
}
