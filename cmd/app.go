package main

import (
	"context"
	"fmt"
	"time"

	"auction_scout/internal/config"
	"auction_scout/internal/domain/service/research"
	"auction_scout/internal/infrastructure/marketplace"
	"auction_scout/internal/infrastructure/persistence"
	"auction_scout/internal/worker"
	"auction_scout/pkg/application/connectors"
)

const cliFetchTimeout = 30 * time.Second

// app — общая обвязка CLI-команд: конфиг, база, репозитории, сервис.
type app struct {
	cfg          config.Config
	sqlite       *connectors.SQLite
	products     *persistence.ProductRepository
	observations *persistence.ObservationRepository
	service      *research.Service
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	sqlite := &connectors.SQLite{
		Path:         cfg.SQLite.Path,
		BusyTimeout:  cfg.SQLite.BusyTimeout,
		MaxOpenConns: cfg.SQLite.MaxOpenConns,
	}
	db := sqlite.Client(ctx)

	if err = persistence.EnsureSchema(ctx, db); err != nil {
		sqlite.Close(ctx)
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	products := persistence.NewProductRepository(db)
	observations := persistence.NewObservationRepository(db)

	return &app{
		cfg:          cfg,
		sqlite:       sqlite,
		products:     products,
		observations: observations,
		service:      research.NewService(products, observations, cfg.Fees, cfg.Research),
	}, nil
}

func (a *app) scanner() *worker.ResearchScanner {
	parser := marketplace.NewJSONParser()

	return worker.NewResearchScanner(
		a.service,
		a.products,
		a.cfg.Research,
		marketplace.NewEBayClient(parser, cliFetchTimeout, a.cfg.Server.LogFieldMaxLen),
		marketplace.NewAmazonClient(parser, cliFetchTimeout, a.cfg.Server.LogFieldMaxLen),
	)
}

func (a *app) close(ctx context.Context) {
	a.sqlite.Close(ctx)
}
