package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/Alturino/raffa/internal/config"
	"github.com/Alturino/raffa/internal/log"
	"github.com/Alturino/raffa/internal/metrics"
	"github.com/Alturino/raffa/internal/otel"
)

// NewRouter returns a router traced by otelmux, timed by m and exposing
// gatherer on /metrics.
func NewRouter(serviceName string, m *metrics.Metrics, gatherer prometheus.Gatherer) *mux.Router {
	router := mux.NewRouter()
	router.StrictSlash(true)
	router.Use(otelmux.Middleware(serviceName), m.Middleware)
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return router
}

// Run serves handler until c is done and then shuts the server down.
func Run(c context.Context, cfg config.Application, handler http.Handler) error {
	c, span := otel.Tracer.Start(c, "server Run")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "server Run").Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing server").Logger()
	logger.Info().Msg("initializing server")
	baseContext := logger.WithContext(context.WithoutCancel(c))
	server := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		BaseContext:  func(net.Listener) context.Context { return baseContext },
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Info().Msg("initialized server")

	serveErr := make(chan error, 1)
	go func() {
		logger := logger.With().Str(log.KeyProcess, "start server").Logger()
		logger.Info().Msgf("start listening request at %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("encounter error=%w while running server", err)
			return
		}
		serveErr <- nil
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
		return err
	case <-c.Done():
	}

	logger = logger.With().Str(log.KeyProcess, "shutdown server").Logger()
	logger.Info().Msg("received interuption signal shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(c), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		err = fmt.Errorf("failed shutting down server with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("shutdown server")
	return <-serveErr
}
