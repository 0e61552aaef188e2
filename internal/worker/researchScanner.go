package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"auction_scout/internal/config"
	"auction_scout/internal/domain"
	"auction_scout/internal/domain/entity"
	"auction_scout/internal/domain/service/research"
	"auction_scout/internal/domain/value"
	"auction_scout/pkg/errcodes"
	"auction_scout/pkg/lox"
)

type StaleProductLister interface {
	ListStale(ctx context.Context, cutoff, limit int64) ([]entity.Product, error)
}

// QueryResult — исход одного запроса батча. Err заполнен у пропущенных,
// с конкретной причиной.
type QueryResult struct {
	Query  value.ProductQuery
	Report entity.ResearchReport
	Err    error
}

// BatchSummary — итог прогона: батч не падает из-за одного продукта,
// но вызывающий должен знать, был ли хоть один пригодный результат.
type BatchSummary struct {
	Succeeded int
	Skipped   int
}

func (s BatchSummary) AnyUsable() bool {
	return s.Succeeded > 0
}

// ResearchScanner гоняет батчи запросов через source gates и конвейер
// ресерча. Между запросами общий только стейт гейтов; он безопасен и в
// параллельном режиме.
type ResearchScanner struct {
	service  *research.Service
	products StaleProductLister
	gates    []*sourceGate
	parallel bool
	staleCut time.Duration

	// Control fields
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

func NewResearchScanner(
	svc *research.Service,
	products StaleProductLister,
	cfg config.Research,
	fetchers ...Fetcher,
) *ResearchScanner {
	gates := make([]*sourceGate, 0, len(fetchers))
	for _, f := range fetchers {
		gates = append(gates, newSourceGate(f, cfg))
	}

	return &ResearchScanner{
		service:  svc,
		products: products,
		gates:    gates,
		parallel: cfg.Parallel,
		staleCut: cfg.StalenessWindow,
	}
}

// ResearchOne собирает выдачу всех источников и прогоняет её через
// конвейер. Частичный отказ источника не фатален, полный — да.
func (w *ResearchScanner) ResearchOne(ctx context.Context, query value.ProductQuery) (entity.ResearchReport, error) {
	raws, err := w.collect(ctx, query)
	if err != nil {
		return entity.ResearchReport{}, err
	}

	return w.service.Evaluate(ctx, query, raws)
}

// RunBatch обрабатывает запросы по очереди. Исчерпанные ретраи одного
// запроса не мешают остальным; отмена контекста останавливает выдачу
// новых запросов сразу.
func (w *ResearchScanner) RunBatch(ctx context.Context, queries []value.ProductQuery) ([]QueryResult, BatchSummary) {
	results := make([]QueryResult, 0, len(queries))

	var summary BatchSummary

	for _, query := range queries {
		if ctx.Err() != nil {
			break
		}

		report, err := w.ResearchOne(ctx, query)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}

			summary.Skipped++
			queriesSkipped.WithLabelValues(skipReason(err)).Inc()
			logger(ctx).Warn("query skipped", "query", query.String(), "reason", skipReason(err), "error", err)

			results = append(results, QueryResult{Query: query, Err: err})
			continue
		}

		summary.Succeeded++
		results = append(results, QueryResult{Query: query, Report: report})
	}

	logger(ctx).Info("batch completed", "succeeded", summary.Succeeded, "skipped", summary.Skipped)

	return results, summary
}

// ScanStale — фоновый проход: продукты без свежих наблюдений уходят на
// повторный ресерч.
func (w *ResearchScanner) ScanStale(ctx context.Context, limit int64) (BatchSummary, error) {
	cutoff := time.Now().Add(-w.staleCut).Unix()

	products, err := w.products.ListStale(ctx, cutoff, limit)
	if err != nil {
		return BatchSummary{}, err
	}

	queries := lox.Map(products, func(p entity.Product) value.ProductQuery {
		return value.ProductQuery{
			UPC:   p.UPC,
			Name:  p.Name,
			Brand: p.Brand,
			Model: p.Model,
		}
	})

	_, summary := w.RunBatch(ctx, queries)

	return summary, nil
}

// collect опрашивает источники. Последовательно по умолчанию; в
// параллельном режиме eBay и Amazon идут одновременно — это разные
// rate-домены, внутри источника параллелизма нет.
func (w *ResearchScanner) collect(ctx context.Context, query value.ProductQuery) ([]entity.RawObservation, error) {
	type sourceResult struct {
		raws []entity.RawObservation
		err  error
	}

	results := make([]sourceResult, len(w.gates))

	if w.parallel {
		g, gctx := errgroup.WithContext(ctx)

		for i, gate := range w.gates {
			g.Go(func() error {
				raws, err := gate.fetch(gctx, query)
				results[i] = sourceResult{raws: raws, err: err}
				return nil // ошибка источника не валит группу
			})
		}

		_ = g.Wait()
	} else {
		for i, gate := range w.gates {
			raws, err := gate.fetch(ctx, query)
			results[i] = sourceResult{raws: raws, err: err}
		}
	}

	var (
		raws    []entity.RawObservation
		lastErr error
	)

	for i, res := range results {
		if res.err != nil {
			lastErr = res.err
			logger(ctx).Warn("source failed",
				"source", w.gates[i].fetcher.Source().String(),
				"query", query.String(),
				"error", res.err,
			)
			continue
		}
		raws = append(raws, res.raws...)
	}

	if len(raws) == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, domain.NewError(errcodes.InsufficientData, "sources returned no observations")
	}

	return raws, nil
}

// Start запускает периодический фоновый проход. Run-цикл в стиле
// сканера: остановка — только через Stop или отмену контекста.
func (w *ResearchScanner) Start(ctx context.Context, interval time.Duration, limit int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return errors.New("scanner is already running")
	}

	scanCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel
	w.isRunning = true

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()
		}()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-scanCtx.Done():
				return
			case <-ticker.C:
				if _, err := w.ScanStale(scanCtx, limit); err != nil && scanCtx.Err() == nil {
					logger(scanCtx).Error("stale scan failed", "error", err)
				}
			}
		}
	}()

	return nil
}

func (w *ResearchScanner) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

// IsRunning возвращает текущий статус
func (w *ResearchScanner) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}

func skipReason(err error) string {
	if code, ok := domain.GetCode(err); ok {
		return code.String()
	}
	return "internal"
}
