package research

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"auction_scout/internal/config"
	"auction_scout/internal/domain/entity"
	"auction_scout/internal/domain/value"
)

const processedCacheTTL = time.Hour

type ProductRepository interface {
	Upsert(ctx context.Context, product *entity.Product) error
	GetByUPC(ctx context.Context, upc string) (*entity.Product, error)
	Find(ctx context.Context, query value.ProductQuery) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]entity.Product, error)
}

type ObservationRepository interface {
	Append(ctx context.Context, observations []entity.PriceObservation) (int, error)
	RecentByProduct(ctx context.Context, productKey string, limit int) ([]entity.PriceObservation, error)
}

// Service связывает матчер, агрегатор и калькулятор в конвейер одного
// продукта. Сам конвейер — чистые функции; сайд-эффекты только в
// репозиториях.
type Service struct {
	products     ProductRepository
	observations ObservationRepository
	fees         config.Fees
	research     config.Research

	// повторные скрейпы того же листинга между циклами
	processedCache *cache.Cache

	now func() time.Time
}

func NewService(
	products ProductRepository,
	observations ObservationRepository,
	fees config.Fees,
	research config.Research,
) *Service {
	return &Service{
		products:       products,
		observations:   observations,
		fees:           fees,
		research:       research,
		processedCache: cache.New(processedCacheTTL, 10*time.Minute),
		now:            time.Now,
	}
}

// WithClock подменяет часы в тестах.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Evaluate прогоняет сырую выдачу через весь конвейер и сохраняет
// продукт с его наблюдениями. Повторный прогон по тем же данным даёт
// идентичный отчёт.
func (s *Service) Evaluate(ctx context.Context, query value.ProductQuery, raws []entity.RawObservation) (entity.ResearchReport, error) {
	fresh := s.dropProcessed(raws)

	// вся выдача уже обработана в этом окне: у известного продукта
	// свежих точек не появится, отчёт строится по сохранённым
	if len(raws) > 0 && len(fresh) == 0 {
		if product, err := s.products.Find(ctx, query); err == nil {
			return s.report(ctx, *product)
		}
	}

	matched, err := Match(query, fresh, s.research.MatchThreshold)
	if err != nil {
		return entity.ResearchReport{}, err
	}

	logger(ctx).Debug("match completed",
		"query", query.String(),
		"matched", len(matched.Observations),
		"excluded", matched.Excluded,
		"deduped", matched.Deduped,
	)

	// без UPC ключ продукта выводится из идентичности: чтобы он не
	// плавал между прогонами, уже сохранённая идентичность первична
	if matched.Product.UPC == "" {
		if existing, err := s.products.Find(ctx, query); err == nil {
			matched.Product = mergeIdentity(*existing, matched.Product)
		}
	}

	matched.Product.UpdatedAt = s.now()

	for i := range matched.Observations {
		matched.Observations[i].ProductKey = matched.Product.Key()
	}

	if err := s.products.Upsert(ctx, &matched.Product); err != nil {
		return entity.ResearchReport{}, fmt.Errorf("upsert product: %w", err)
	}

	stored, err := s.observations.Append(ctx, matched.Observations)
	if err != nil {
		return entity.ResearchReport{}, fmt.Errorf("append observations: %w", err)
	}

	if stored < len(matched.Observations) {
		logger(ctx).Debug("observations already stored", "skipped", len(matched.Observations)-stored)
	}

	s.markProcessed(matched.Observations)

	return s.report(ctx, matched.Product)
}

// Reaggregate пересчитывает отчёт по уже сохранённым наблюдениям, без
// единого сетевого запроса.
func (s *Service) Reaggregate(ctx context.Context, upc string) (entity.ResearchReport, error) {
	product, err := s.products.GetByUPC(ctx, upc)
	if err != nil {
		return entity.ResearchReport{}, fmt.Errorf("get product: %w", err)
	}

	return s.report(ctx, *product)
}

// ReaggregateProduct — как Reaggregate, но для уже загруженного продукта.
// Единственный способ пересчитать продукт без UPC.
func (s *Service) ReaggregateProduct(ctx context.Context, product entity.Product) (entity.ResearchReport, error) {
	return s.report(ctx, product)
}

func (s *Service) report(ctx context.Context, product entity.Product) (entity.ResearchReport, error) {
	observations, err := s.observations.RecentByProduct(ctx, product.Key(), s.research.MaxObservations)
	if err != nil {
		return entity.ResearchReport{}, fmt.Errorf("load observations: %w", err)
	}

	stats, err := Aggregate(observations, s.now(), s.research.StalenessWindow)
	if err != nil {
		return entity.ResearchReport{}, err
	}

	estimate, err := BuildEstimate(stats, s.fees)
	if err != nil {
		return entity.ResearchReport{}, err
	}

	return entity.ResearchReport{
		Product:  product,
		Stats:    stats,
		Estimate: estimate,
	}, nil
}

// CurrentMargin — маржа при заданной текущей ставке аукциона.
func (s *Service) CurrentMargin(ctx context.Context, upc string, currentBid float64) (entity.ProfitEstimate, error) {
	report, err := s.Reaggregate(ctx, upc)
	if err != nil {
		return entity.ProfitEstimate{}, err
	}

	return EstimateProfit(report.Stats, currentBid, s.fees)
}

func (s *Service) dropProcessed(raws []entity.RawObservation) []entity.RawObservation {
	kept := raws[:0:0]

	for _, raw := range raws {
		if _, found := s.processedCache.Get(observationKey(raw.Source, raw.Price, raw.ObservedAt)); found {
			continue
		}
		kept = append(kept, raw)
	}

	return kept
}

func (s *Service) markProcessed(observations []entity.PriceObservation) {
	for _, obs := range observations {
		s.processedCache.Set(observationKey(obs.Source, obs.Price, obs.ObservedAt), true, cache.DefaultExpiration)
	}
}

func observationKey(source value.Source, price float64, observedAt time.Time) string {
	return fmt.Sprintf("%s|%.2f|%d", source, price, observedAt.Unix())
}
