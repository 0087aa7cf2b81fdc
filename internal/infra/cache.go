package infra

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/multierr"

	"github.com/Alturino/raffa/internal/config"
	"github.com/Alturino/raffa/internal/log"
	"github.com/Alturino/raffa/internal/otel"
)

const cachePingTimeout = 5 * time.Second

var (
	cacheOnce sync.Once
	cache     *redis.Client
)

func cacheOptions(cfg config.Cache) *redis.Options {
	return &redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(int(cfg.Port))),
		Password: cfg.Password,
		DB:       cfg.Database,
	}
}

// instrumentCache wires redis commands into the otel tracer and meter
// providers installed by InitOtelSdk.
func instrumentCache(client *redis.Client, db int) error {
	attrs := redisotel.WithAttributes(semconv.DBSystemRedis, attribute.Int("db.redis.database_index", db))
	return multierr.Combine(
		redisotel.InstrumentTracing(client, attrs),
		redisotel.InstrumentMetrics(client, attrs),
	)
}

func NewCacheClient(c context.Context, cfg config.Cache) *redis.Client {
	c, span := otel.Tracer.Start(c, "infra NewCacheClient")
	defer span.End()

	cacheOnce.Do(func() {
		options := cacheOptions(cfg)
		logger := zerolog.Ctx(c).
			With().
			Str(log.KeyTag, "infra NewCacheClient").
			Str("addr", options.Addr).
			Int("db", options.DB).
			Logger()

		logger = logger.With().Str(log.KeyProcess, "initializing redis client").Logger()
		logger.Info().Msg("initializing redis client")
		cache = redis.NewClient(options)
		if err := instrumentCache(cache, options.DB); err != nil {
			err = fmt.Errorf("failed instrumenting redis client with error=%w", err)
			otel.RecordError(err, span)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		logger.Info().Msg("initialized redis client")

		logger = logger.With().Str(log.KeyProcess, "pinging redis").Logger()
		logger.Info().Msg("pinging redis")
		pingCtx, cancel := context.WithTimeout(c, cachePingTimeout)
		defer cancel()
		if err := cache.Ping(pingCtx).Err(); err != nil {
			err = fmt.Errorf("failed pinging redis with error=%w", err)
			otel.RecordError(err, span)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		logger.Info().Msg("pinged redis")
	})
	return cache
}
