package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/evalforge/evalforge/internal/cache"
	"github.com/evalforge/evalforge/internal/config"
	"github.com/evalforge/evalforge/internal/domain"
	"github.com/evalforge/evalforge/internal/enrichment"
	"github.com/evalforge/evalforge/internal/handler"
	"github.com/evalforge/evalforge/internal/identity"
	"github.com/evalforge/evalforge/internal/middleware"
	"github.com/evalforge/evalforge/internal/pkg/circuitbreaker"
	"github.com/evalforge/evalforge/internal/pkg/database"
	"github.com/evalforge/evalforge/internal/repository"
	"github.com/evalforge/evalforge/internal/service"
	"github.com/evalforge/evalforge/internal/storage"
)

// Dependencies holds every wired component of the server.
type Dependencies struct {
	Postgres *database.PostgresDB
	Redis    *database.RedisDB

	AuthMiddleware *middleware.AuthMiddleware

	DatasetsHandler       *handler.DatasetsHandler
	MetricsConfigsHandler *handler.MetricsConfigsHandler
	EvalRunsHandler       *handler.EvalRunsHandler
	HealthHandler         *handler.HealthHandler
}

// Close releases held connections
func (d *Dependencies) Close() {
	if d.Postgres != nil {
		d.Postgres.Close()
	}
	if d.Redis != nil {
		d.Redis.Close()
	}
}

func initDependencies(cfg *config.Config, log *zap.Logger, sentryEnabled bool) (*Dependencies, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	postgres, err := database.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	// Redis is required for the distributed cache backend; otherwise it only
	// serves rate limiting and the server can run without it.
	redisDB, err := database.NewRedis(ctx, cfg.Redis)
	if err != nil {
		if cfg.Cache.Backend == config.CacheBackendRedis {
			return nil, fmt.Errorf("redis: %w", err)
		}
		log.Warn("redis unavailable, continuing without rate limiting", zap.Error(err))
		redisDB = nil
	}

	blobs, err := storage.NewMinIOBlobStore(ctx, cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("minio: %w", err)
	}
	tables := storage.NewPostgresTableStore(postgres)

	var cacheStore cache.Store
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		cacheStore = cache.NewRedisStore(redisDB, cfg.Cache.TTL)
	default:
		cacheStore = cache.NewMemoryStore(cfg.Cache.MaxEntries, cfg.Cache.TTL)
	}
	cacheMgr := cache.NewManager(cacheStore, cfg.Cache.FailurePolicy)

	datasets := repository.NewRecordRepository(domain.RecordKindDataSet, tables, blobs, cacheMgr)
	metricsConfigs := repository.NewRecordRepository(domain.RecordKindMetricsConfiguration, tables, blobs, cacheMgr)
	evalRuns := repository.NewRecordRepository(domain.RecordKindEvalRun, tables, blobs, cacheMgr)

	resolver := identity.NewResolver()
	enrichClient := enrichment.NewBreakerClient(enrichment.NewClient(cfg.Enrichment), circuitbreaker.DefaultConfig())
	refValidator := service.NewReferenceValidator(datasets, metricsConfigs)

	datasetService := service.NewDatasetService(datasets, resolver)
	metricsConfigService := service.NewMetricsConfigService(metricsConfigs, resolver)
	evalRunService := service.NewEvalRunService(evalRuns, refValidator, enrichClient, resolver, sentryEnabled)

	return &Dependencies{
		Postgres:              postgres,
		Redis:                 redisDB,
		AuthMiddleware:        middleware.NewAuthMiddleware(cfg.JWT),
		DatasetsHandler:       handler.NewDatasetsHandler(datasetService, log),
		MetricsConfigsHandler: handler.NewMetricsConfigsHandler(metricsConfigService, log),
		EvalRunsHandler:       handler.NewEvalRunsHandler(evalRunService, log),
		HealthHandler:         handler.NewHealthHandler(postgres, redisDB, appVersion),
	}, nil
}
