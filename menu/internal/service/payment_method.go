package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	inErrors "github.com/Alturino/raffa/internal/errors"
	"github.com/Alturino/raffa/internal/log"
	"github.com/Alturino/raffa/internal/otel"
	"github.com/Alturino/raffa/internal/repository"
	"github.com/Alturino/raffa/menu/pkg/request"
	"github.com/Alturino/raffa/menu/pkg/response"
)

func (svc MenuService) ListPaymentMethods(
	c context.Context,
	includeInactive bool,
) ([]response.PaymentMethod, error) {
	c, span := otel.Tracer.Start(c, "MenuService ListPaymentMethods")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "MenuService ListPaymentMethods").
		Str(log.KeyProcess, "finding payment methods in database").
		Logger()

	logger.Trace().Msg("finding payment methods in database")
	methods, err := svc.queries.ListPaymentMethods(c, includeInactive)
	if err != nil {
		err = fmt.Errorf("failed finding payment methods with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("found payment methods in database")

	result := make([]response.PaymentMethod, 0, len(methods))
	for _, method := range methods {
		result = append(result, method.Response())
	}
	return result, nil
}

// SavePaymentMethod inserts the payment method or overwrites the one with
// the same id.
func (svc MenuService) SavePaymentMethod(
	c context.Context,
	param request.PaymentMethod,
) (response.PaymentMethod, error) {
	c, span := otel.Tracer.Start(c, "MenuService SavePaymentMethod")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "MenuService SavePaymentMethod").
		Str(log.KeyPaymentMethodID, param.ID).
		Str(log.KeyProcess, "upserting payment method").
		Logger()

	logger.Trace().Msg("upserting payment method")
	method, err := svc.queries.UpsertPaymentMethod(c, repository.UpsertPaymentMethodParams{
		ID:            param.ID,
		Name:          param.Name,
		AccountNumber: param.AccountNumber,
		AccountName:   param.AccountName,
		QrCodeUrl:     param.QrCodeUrl,
		Active:        param.Active,
		SortOrder:     int32(param.SortOrder),
	})
	if err != nil {
		err = fmt.Errorf("failed upserting payment method with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.PaymentMethod{}, err
	}
	logger.Info().Msg("upserted payment method")

	return method.Response(), nil
}

func (svc MenuService) DeletePaymentMethod(c context.Context, id string) error {
	c, span := otel.Tracer.Start(c, "MenuService DeletePaymentMethod")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "MenuService DeletePaymentMethod").
		Str(log.KeyPaymentMethodID, id).
		Str(log.KeyProcess, "deleting payment method").
		Logger()

	logger.Trace().Msg("deleting payment method")
	affected, err := svc.queries.DeletePaymentMethod(c, id)
	if err != nil {
		err = fmt.Errorf("failed deleting payment method with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if affected == 0 {
		err = inErrors.ErrPaymentMethodNotFound
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("deleted payment method")
	return nil
}
