package application

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"auction_scout/internal/config"
	"auction_scout/internal/domain/service/research"
	"auction_scout/internal/infrastructure/marketplace"
	"auction_scout/internal/infrastructure/persistence"
	"auction_scout/internal/server"
	"auction_scout/internal/worker"
	"auction_scout/pkg/application/connectors"
	"auction_scout/pkg/application/modules"
	"auction_scout/pkg/contextx"
	"auction_scout/pkg/logx"
	"auction_scout/pkg/middlewarex"
)

const (
	fetchTimeout = 30 * time.Second

	taskRefreshStale  = "research:refresh"
	refreshBatchLimit = 100
)

// Run поднимает serve-режим: HTTP API, пробы, метрики и фоновые задачи.
// Останавливается по отмене контекста.
func Run(ctx context.Context) error {
	log := contextx.LoggerFromContextOrDefault(ctx)

	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	// 2. Database
	sqlite := &connectors.SQLite{
		Path:         cfg.SQLite.Path,
		BusyTimeout:  cfg.SQLite.BusyTimeout,
		MaxOpenConns: cfg.SQLite.MaxOpenConns,
	}
	db := sqlite.Client(ctx)
	defer sqlite.Close(ctx)

	if err = persistence.EnsureSchema(ctx, db); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	log.Info("database ready")

	// fail-fast: без Redis не будет ни фоновых задач, ни расписания
	redisConn := &connectors.Redis{
		Username:       cfg.Redis.Username,
		Password:       cfg.Redis.Password,
		Address:        cfg.Redis.Address,
		DatabaseNumber: cfg.Redis.DB,
	}
	redisConn.Client(ctx)
	defer redisConn.Close(ctx)

	// 3. Repositories
	productRepo := persistence.NewProductRepository(db)
	observationRepo := persistence.NewObservationRepository(db)

	// 4. Domain service + fetchers
	svc := research.NewService(productRepo, observationRepo, cfg.Fees, cfg.Research)

	parser := marketplace.NewJSONParser()
	scanner := worker.NewResearchScanner(
		svc,
		productRepo,
		cfg.Research,
		marketplace.NewEBayClient(parser, fetchTimeout, cfg.Server.LogFieldMaxLen),
		marketplace.NewAmazonClient(parser, fetchTimeout, cfg.Server.LogFieldMaxLen),
	)

	// 5. HTTP router
	masker := logx.NewSensitiveDataMasker()

	router := chi.NewRouter()
	router.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, cfg.Server.LogFieldMaxLen),
		middlewarex.ResponseLogging(masker, cfg.Server.LogFieldMaxLen),
	)

	srv := server.NewServer(server.NewProductServer(productRepo, svc, scanner))
	srv.RegisterRoutes(router)

	// 6. Modules
	g, ctx := errgroup.WithContext(ctx)

	modules.HTTPServer{ShutdownTimeout: cfg.Server.ShutdownTimeout}.Run(ctx, g, &http.Server{
		Addr:              cfg.Server.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: time.Second,
	})

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.Server.ProbeListenAddress,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.Server.MetricsListenAddress,
	}.Run(ctx, g)

	modules.AsynqServer{
		RedisUsername: cfg.Redis.Username,
		RedisPassword: cfg.Redis.Password,
		RedisAddress:  cfg.Redis.Address,
		RedisDB:       cfg.Redis.DB,
	}.Run(ctx, g,
		modules.AsynqQueues{"default": 1},
		modules.AsynqHandler{
			Pattern: taskRefreshStale,
			Handle: func(ctx context.Context, _ *asynq.Task) error {
				summary, err := scanner.ScanStale(ctx, refreshBatchLimit)
				if err != nil {
					return fmt.Errorf("scanner.ScanStale: %w", err)
				}

				log.Info("stale refresh completed",
					"succeeded", summary.Succeeded,
					"skipped", summary.Skipped,
				)

				return nil
			},
		},
	)

	modules.AsynqScheduler{
		RedisUsername: cfg.Redis.Username,
		RedisPassword: cfg.Redis.Password,
		RedisAddress:  cfg.Redis.Address,
		RedisDB:       cfg.Redis.DB,
	}.Run(ctx, g, modules.AsynqScheduledTask{
		Cronspec: cfg.Research.RefreshCronspec,
		Task:     asynq.NewTask(taskRefreshStale, nil),
	})

	log.Info("application started")

	if err = g.Wait(); err != nil {
		return fmt.Errorf("g.Wait: %w", err)
	}

	log.Info("application stopped")

	return nil
}
