package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/epl-insights/internal/config"
	"github.com/riskibarqy/epl-insights/internal/domain/dataset"
	"github.com/riskibarqy/epl-insights/internal/infrastructure/datasource/csvfile"
	"github.com/riskibarqy/epl-insights/internal/infrastructure/datasource/remote"
	"github.com/riskibarqy/epl-insights/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/epl-insights/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/epl-insights/internal/interfaces/httpapi"
	"github.com/riskibarqy/epl-insights/internal/platform/cache"
	idgen "github.com/riskibarqy/epl-insights/internal/platform/id"
	"github.com/riskibarqy/epl-insights/internal/platform/logging"
	"github.com/riskibarqy/epl-insights/internal/platform/resilience"
	"github.com/riskibarqy/epl-insights/internal/usecase"
)

const archiveWorkerCount = 4

// App owns the HTTP server plus the resources behind it (db pool, worker
// pool). Close releases them after the server has drained.
type App struct {
	Server *http.Server

	closers []func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger, platformLogger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if platformLogger == nil {
		platformLogger = logging.Default()
	}

	app := &App{}

	var cacheStore *cache.Store
	if cfg.CacheEnabled {
		cacheStore = cache.NewStore(cfg.CacheTTL)
	}

	snapshotRepo := memory.NewSnapshotRepository()

	var archiveRepo *postgres.DatasetRepository
	var archivePool *ants.Pool
	if cfg.ArchiveEnabled {
		db, err := openDB(ctx, cfg)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.closers = append(app.closers, func() { _ = db.Close() })
		archiveRepo = postgres.NewDatasetRepository(db)

		archivePool, err = ants.NewPool(archiveWorkerCount, ants.WithNonblocking(true))
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("create archive worker pool: %w", err)
		}
		app.closers = append(app.closers, archivePool.Release)
	}

	codec := csvfile.NewCodec()
	fetcher := remote.NewClient(remote.Config{
		Timeout:      cfg.FetchTimeout,
		MaxRetries:   cfg.FetchMaxRetries,
		MaxBodyBytes: cfg.FetchMaxBodyBytes,
		Circuit: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FetchCircuitEnabled,
			FailureThreshold: cfg.FetchCircuitFailureCount,
			OpenTimeout:      cfg.FetchCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FetchCircuitHalfOpenMaxReq,
		},
	}, platformLogger)

	datasetSvc := usecase.NewDatasetService(
		snapshotRepo,
		archiveRepoOrNil(archiveRepo),
		codec,
		fetcher,
		idgen.NewRandomGenerator(),
		cacheStore,
		archivePool,
		platformLogger,
	)
	tableSvc := usecase.NewTableService(snapshotRepo, cacheStore)
	statsSvc := usecase.NewStatsService(snapshotRepo, cacheStore)
	predictionSvc := usecase.NewPredictionService(snapshotRepo)
	teamSvc := usecase.NewTeamService(snapshotRepo)

	if err := datasetSvc.Bootstrap(ctx, cfg.DatasetPath, cfg.DatasetName); err != nil {
		app.Close()
		return nil, fmt.Errorf("bootstrap dataset: %w", err)
	}

	handler := httpapi.NewHandler(datasetSvc, tableSvc, statsSvc, predictionSvc, teamSvc, logger, cfg.MaxUploadBytes)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	if cfg.HTTPAddr == "" {
		app.Close()
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	app.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return app, nil
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// A typed nil *postgres.DatasetRepository must not reach the service as a
// non-nil interface value.
func archiveRepoOrNil(repo *postgres.DatasetRepository) dataset.ArchiveRepository {
	if repo == nil {
		return nil
	}
	return repo
}
