package cmd

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Alturino/raffa/internal/constants"
	"github.com/Alturino/raffa/internal/log"
	"github.com/Alturino/raffa/menu/pkg/provider"
)

// CatalogRefresher rewrites the cached catalog on a fixed interval so reads
// rarely fall through to the database.
type CatalogRefresher struct {
	provider *provider.CatalogProvider
	interval time.Duration
}

func NewCatalogRefresher(provider *provider.CatalogProvider, interval time.Duration) *CatalogRefresher {
	return &CatalogRefresher{provider: provider, interval: interval}
}

func (wrk CatalogRefresher) StartWorker(c context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogRefresher StartWorker").
		Str(log.KeyProcess, "starting worker").
		Str(log.KeyAppName, constants.AppCatalogRefresher).
		Logger()

	if wrk.interval <= 0 {
		logger.Info().Msg("catalog refresher disabled")
		return
	}

	ticker := time.NewTicker(wrk.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.Done():
			logger.Info().Msg("stopping catalog refresher")
			return
		case <-ticker.C:
			requestID := uuid.NewString()
			logger := logger.With().Str(log.KeyRequestID, requestID).Logger()
			logger.Debug().Msg("refreshing catalog")
			c := log.AttachRequestIDToContext(logger.WithContext(c), requestID)
			items, err := wrk.provider.Refresh(c)
			if err != nil {
				err = fmt.Errorf("failed refreshing catalog with error=%w", err)
				logger.Error().Err(err).Msg(err.Error())
				continue
			}
			logger.Debug().Int(log.KeyCatalogSize, len(items)).Msg("refreshed catalog")
		}
	}
}
