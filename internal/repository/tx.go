package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/Alturino/raffa/internal/log"
	"github.com/Alturino/raffa/internal/otel"
)

// Pool is satisfied by *pgxpool.Pool and by pgxmock pools in tests.
type Pool interface {
	DBTX
	BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error)
}

// RunInTx runs fn with queries bound to a new transaction. The transaction is
// committed when fn returns nil and rolled back otherwise.
func RunInTx(c context.Context, pool Pool, queries *Queries, fn func(q *Queries) error) error {
	c, span := otel.Tracer.Start(c, "repository RunInTx")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "repository RunInTx").Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing transaction").Logger()
	logger.Trace().Msg("initializing transaction")
	tx, err := pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("initialized transaction")
	defer func() {
		logger := logger.With().Str(log.KeyProcess, "rolling back transaction").Logger()
		if err := tx.Rollback(c); err != nil {
			if errors.Is(err, pgx.ErrTxClosed) {
				return
			}
			err = fmt.Errorf("failed rolling back transaction with error=%w", err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("rolled back transaction")
	}()

	if err = fn(queries.WithTx(tx)); err != nil {
		otel.RecordError(err, span)
		return err
	}

	logger = logger.With().Str(log.KeyProcess, "committing transaction").Logger()
	logger.Trace().Msg("committing transaction")
	if err = tx.Commit(c); err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("committed transaction")
	return nil
}
