package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/Alturino/raffa/internal/config"
	"github.com/Alturino/raffa/internal/constants"
	"github.com/Alturino/raffa/internal/infra"
	"github.com/Alturino/raffa/internal/log"
	"github.com/Alturino/raffa/internal/metrics"
	"github.com/Alturino/raffa/internal/otel"
	"github.com/Alturino/raffa/internal/repository"
	"github.com/Alturino/raffa/internal/server"
	"github.com/Alturino/raffa/menu/internal/controller"
	"github.com/Alturino/raffa/menu/internal/service"
	"github.com/Alturino/raffa/menu/pkg/provider"
)

func RunMenuService(c context.Context) {
	c, span := otel.Tracer.Start(c, "RunMenuService")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.AppMenuService).
		Str(log.KeyTag, "main RunMenuService").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg := config.Get(c, constants.AppMenuService)
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	shutdownFuncs, err := otel.InitOtelSdk(c, constants.AppMenuService, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("initialized otel sdk")
	defer func() {
		logger := logger.With().Str(log.KeyProcess, "shutting down otel").Logger()
		logger.Info().Msg("shutting down otel")
		if err := otel.ShutdownOtel(context.WithoutCancel(c), shutdownFuncs); err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()

	logger = logger.With().Str(log.KeyProcess, "initializing database").Logger()
	logger.Info().Msg("initializing database")
	c = logger.WithContext(c)
	db := infra.NewDatabaseClient(c, cfg.Database)
	logger.Info().Msg("initialized database")
	defer func() {
		logger.Info().Msg("shutting down database connection")
		db.Close()
		logger.Info().Msg("shutdown database connection")
	}()

	logger = logger.With().Str(log.KeyProcess, "initializing cache").Logger()
	logger.Info().Msg("initializing cache")
	c = logger.WithContext(c)
	cache := infra.NewCacheClient(c, cfg.Cache)
	logger.Info().Msg("initialized cache")
	defer func() {
		logger.Info().Msg("shutting down cache connection")
		if err := cache.Close(); err != nil {
			err = fmt.Errorf("failed closing cache with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown cache connection")
	}()

	logger = logger.With().Str(log.KeyProcess, "initializing metrics").Logger()
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry, constants.AppMenuService)
	logger.Info().Msg("initialized metrics")

	logger = logger.With().Str(log.KeyProcess, "initializing menuService").Logger()
	logger.Info().Msg("initializing menuService")
	queries := repository.New(db)
	catalogProvider := provider.NewCatalogProvider(queries, cache, cfg.Catalog.CacheTTL, m)
	menuService := service.NewMenuService(db, queries, catalogProvider)
	logger.Info().Msg("initialized menuService")

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	router := server.NewRouter(constants.AppMenuService, m, registry)
	controller.AttachMenuController(router, &menuService)
	logger.Info().Msg("initialized router")

	logger = logger.With().Str(log.KeyProcess, "starting catalog refresher").Logger()
	logger.Info().Msg("starting catalog refresher")
	workerCtx, stopWorker := context.WithCancel(logger.WithContext(c))
	wg := &sync.WaitGroup{}
	wg.Add(1)
	go NewCatalogRefresher(catalogProvider, cfg.Catalog.RefreshInterval).StartWorker(workerCtx, wg)
	logger.Info().Msg("started catalog refresher")

	c = logger.WithContext(c)
	if err := server.Run(c, cfg.Application, router); err != nil {
		otel.RecordError(err, span)
	}
	stopWorker()
	wg.Wait()
	logger.Info().Msg("server completely shutdown")
}
