package worker

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"auction_scout/internal/config"
	"auction_scout/internal/domain"
	"auction_scout/internal/domain/entity"
	"auction_scout/internal/domain/value"
	"auction_scout/pkg/errcodes"
)

// Fetcher — внешний адаптер наблюдений одного маркетплейса.
type Fetcher interface {
	Source() value.Source
	Fetch(ctx context.Context, query value.ProductQuery) ([]entity.RawObservation, error)
}

// sourceGate — весь стейт, разделяемый между запросами к одному
// источнику: токен-бакет межзапросной паузы и circuit breaker.
// Источники изолированы: подвисший eBay не трогает Amazon.
type sourceGate struct {
	fetcher Fetcher
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker

	maxAttempts int
	backoffBase time.Duration
}

func newSourceGate(fetcher Fetcher, cfg config.Research) *sourceGate {
	settings := gobreaker.Settings{
		Name:    fetcher.Source().String(),
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
	}

	return &sourceGate{
		fetcher:     fetcher,
		limiter:     rate.NewLimiter(rate.Every(cfg.RequestInterval), 1),
		breaker:     gobreaker.NewCircuitBreaker(settings),
		maxAttempts: cfg.MaxAttempts,
		backoffBase: cfg.BackoffBase,
	}
}

// fetch — один запрос с ретраями. Транзиентные ошибки повторяются с
// экспоненциальным бэкоффом; открытый breaker отвечает мгновенно.
func (g *sourceGate) fetch(ctx context.Context, query value.ProductQuery) ([]entity.RawObservation, error) {
	source := g.fetcher.Source()

	var lastErr error

	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, g.backoffBase<<(attempt-1)); err != nil {
				return nil, err
			}
		}

		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err //nolint:wrapcheck // context cancellation
		}

		fetchAttempts.WithLabelValues(source.String()).Inc()

		result, err := g.breaker.Execute(func() (any, error) {
			return g.fetcher.Fetch(ctx, query)
		})
		if err == nil {
			return result.([]entity.RawObservation), nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			breakerRejections.WithLabelValues(source.String()).Inc()
			return nil, domain.WrapError(err, errcodes.SourceUnavailable,
				source.String()+" suspended by circuit breaker")
		}

		if ctx.Err() != nil {
			return nil, ctx.Err() //nolint:wrapcheck
		}

		fetchFailures.WithLabelValues(source.String()).Inc()
		lastErr = err

		logger(ctx).Warn("fetch attempt failed",
			"source", source.String(),
			"query", query.String(),
			"attempt", attempt+1,
			"error", err,
		)
	}

	return nil, domain.WrapError(lastErr, errcodes.FetchFailed,
		source.String()+" failed after retries")
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err() //nolint:wrapcheck
	}
}
