package research_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"auction_scout/internal/config"
	"auction_scout/internal/domain"
	"auction_scout/internal/domain/entity"
	"auction_scout/internal/domain/service/research"
	"auction_scout/internal/domain/value"
	"auction_scout/pkg/errcodes"
)

type fakeProducts struct {
	items map[string]entity.Product
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{items: map[string]entity.Product{}}
}

func (f *fakeProducts) Upsert(_ context.Context, product *entity.Product) error {
	f.items[product.Key()] = *product
	return nil
}

func (f *fakeProducts) GetByUPC(_ context.Context, upc string) (*entity.Product, error) {
	for _, p := range f.items {
		if p.UPC == upc && upc != "" {
			return &p, nil
		}
	}
	return nil, domain.NewError(errcodes.ProductNotFound, "product not found")
}

func (f *fakeProducts) Find(_ context.Context, query value.ProductQuery) (*entity.Product, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if query.UPC != "" {
		return f.GetByUPC(context.Background(), query.UPC)
	}

	for _, p := range f.items {
		if query.Name != "" && strings.EqualFold(p.Name, query.Name) {
			return &p, nil
		}
		if query.Name == "" && strings.EqualFold(p.Brand, query.Brand) && strings.EqualFold(p.Model, query.Model) {
			return &p, nil
		}
	}

	return nil, domain.NewError(errcodes.ProductNotFound, "product not found")
}

func (f *fakeProducts) List(_ context.Context, _, _ int) ([]entity.Product, error) {
	all := make([]entity.Product, 0, len(f.items))
	for _, p := range f.items {
		all = append(all, p)
	}
	return all, nil
}

type fakeObservations struct {
	items []entity.PriceObservation
	seen  map[string]bool
}

func newFakeObservations() *fakeObservations {
	return &fakeObservations{seen: map[string]bool{}}
}

func (f *fakeObservations) Append(_ context.Context, observations []entity.PriceObservation) (int, error) {
	stored := 0

	for _, obs := range observations {
		key := fmt.Sprintf("%s|%s|%.2f|%d", obs.ProductKey, obs.Source, obs.Price, obs.ObservedAt.Unix())
		if f.seen[key] {
			continue
		}

		f.seen[key] = true
		f.items = append(f.items, obs)
		stored++
	}

	return stored, nil
}

func (f *fakeObservations) RecentByProduct(_ context.Context, productKey string, limit int) ([]entity.PriceObservation, error) {
	var recent []entity.PriceObservation

	for _, obs := range f.items {
		if obs.ProductKey == productKey {
			recent = append(recent, obs)
		}
	}

	if len(recent) > limit {
		recent = recent[len(recent)-limit:]
	}

	return recent, nil
}

func testResearchConfig() config.Research {
	return config.Research{
		MatchThreshold:  0.5,
		StalenessWindow: 90 * 24 * time.Hour,
		MaxObservations: 50,
	}
}

func soldRaw(price float64, observedAt time.Time) entity.RawObservation {
	return entity.RawObservation{
		Title:      "KitchenAid KSM150 stand mixer",
		UPC:        "012345678905",
		Price:      price,
		Condition:  value.ConditionUsed,
		Status:     value.StatusSold,
		ObservedAt: observedAt,
		Source:     value.SourceEBay,
	}
}

func TestServiceEvaluate(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	products := newFakeProducts()
	observations := newFakeObservations()

	svc := research.NewService(products, observations, testFees(), testResearchConfig()).
		WithClock(func() time.Time { return now })

	query := value.ProductQuery{UPC: "012345678905", Name: "Stand Mixer"}

	raws := []entity.RawObservation{
		soldRaw(180, now.Add(-24*time.Hour)),
		soldRaw(175, now.Add(-48*time.Hour)),
		soldRaw(190, now.Add(-72*time.Hour)),
	}

	report, err := svc.Evaluate(ctx, query, raws)
	rq.NoError(err)

	rq.Equal("012345678905", report.Product.UPC)
	rq.Equal(3, report.Stats.SampleSize)
	rq.Equal(175.0, report.Stats.LowestSold)
	rq.Positive(report.Estimate.RecommendedMaxBid)

	stored, ok := products.items["012345678905"]
	rq.True(ok)
	rq.Equal(now, stored.UpdatedAt)
	rq.Len(observations.items, 3)
}

func TestServiceReaggregateMatchesEvaluate(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	products := newFakeProducts()
	observations := newFakeObservations()

	svc := research.NewService(products, observations, testFees(), testResearchConfig()).
		WithClock(func() time.Time { return now })

	query := value.ProductQuery{UPC: "012345678905", Name: "Stand Mixer"}

	evaluated, err := svc.Evaluate(ctx, query, []entity.RawObservation{
		soldRaw(180, now.Add(-24*time.Hour)),
		soldRaw(175, now.Add(-48*time.Hour)),
	})
	rq.NoError(err)

	// пересчёт по сохранённым данным даёт тот же отчёт
	reaggregated, err := svc.Reaggregate(ctx, "012345678905")
	rq.NoError(err)
	rq.Equal(evaluated.Stats, reaggregated.Stats)
	rq.Equal(evaluated.Estimate, reaggregated.Estimate)
}

func TestServiceEvaluateSkipsProcessedListings(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	products := newFakeProducts()
	observations := newFakeObservations()

	svc := research.NewService(products, observations, testFees(), testResearchConfig()).
		WithClock(func() time.Time { return now })

	query := value.ProductQuery{UPC: "012345678905", Name: "Stand Mixer"}

	first := []entity.RawObservation{
		soldRaw(180, now.Add(-24*time.Hour)),
		soldRaw(175, now.Add(-48*time.Hour)),
	}

	_, err := svc.Evaluate(ctx, query, first)
	rq.NoError(err)
	rq.Len(observations.items, 2)

	// повторный скрейп: те же листинги плюс один новый
	second := append(first, soldRaw(195, now.Add(-time.Hour)))

	report, err := svc.Evaluate(ctx, query, second)
	rq.NoError(err)

	rq.Len(observations.items, 3)
	rq.Equal(3, report.Stats.SampleSize)
}

func TestServiceReaggregateUnknownProduct(t *testing.T) {
	rq := require.New(t)

	svc := research.NewService(newFakeProducts(), newFakeObservations(), testFees(), testResearchConfig())

	_, err := svc.Reaggregate(context.Background(), "000000000000")
	rq.Error(err)
	rq.True(domain.IsCode(err, errcodes.ProductNotFound))
}

func TestServiceCurrentMargin(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	products := newFakeProducts()
	observations := newFakeObservations()

	svc := research.NewService(products, observations, testFees(), testResearchConfig()).
		WithClock(func() time.Time { return now })

	query := value.ProductQuery{UPC: "012345678905", Name: "Stand Mixer"}

	_, err := svc.Evaluate(ctx, query, []entity.RawObservation{
		soldRaw(100, now.Add(-24*time.Hour)),
	})
	rq.NoError(err)

	estimate, err := svc.CurrentMargin(ctx, "012345678905", 40)
	rq.NoError(err)

	rq.Equal(40.0, estimate.AcquisitionCost)
	rq.InDelta(92.0, estimate.ProfitMarginPct, 1e-9)
}

func nameOnlySoldRaw(price float64, observedAt time.Time) entity.RawObservation {
	return entity.RawObservation{
		Title:      "KitchenAid KSM150 stand mixer",
		Brand:      "KitchenAid",
		Model:      "KSM150",
		Price:      price,
		Condition:  value.ConditionUsed,
		Status:     value.StatusSold,
		ObservedAt: observedAt,
		Source:     value.SourceEBay,
	}
}

func TestServiceEvaluateNameOnlyQuery(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	products := newFakeProducts()
	observations := newFakeObservations()

	svc := research.NewService(products, observations, testFees(), testResearchConfig()).
		WithClock(func() time.Time { return now })

	// ни в запросе, ни в выдаче нет UPC — продукт живёт под производным ключом
	query := value.ProductQuery{Name: "KitchenAid KSM150 stand mixer"}

	report, err := svc.Evaluate(ctx, query, []entity.RawObservation{
		nameOnlySoldRaw(180, now.Add(-24*time.Hour)),
		nameOnlySoldRaw(175, now.Add(-48*time.Hour)),
		nameOnlySoldRaw(190, now.Add(-72*time.Hour)),
	})
	rq.NoError(err)

	rq.Empty(report.Product.UPC)
	rq.NotEmpty(report.Product.Key())
	rq.Equal(3, report.Stats.SampleSize)
	rq.Equal(175.0, report.Stats.LowestSold)
	rq.Positive(report.Estimate.RecommendedMaxBid)

	for _, obs := range observations.items {
		rq.Equal(report.Product.Key(), obs.ProductKey)
	}

	// повторный прогон той же выдачи не плодит второй продукт
	_, err = svc.Evaluate(ctx, query, []entity.RawObservation{
		nameOnlySoldRaw(180, now.Add(-24*time.Hour)),
	})
	rq.NoError(err)
	rq.Len(products.items, 1)
}

func TestServiceEvaluateRepeatWithinProcessedWindow(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	products := newFakeProducts()
	observations := newFakeObservations()

	svc := research.NewService(products, observations, testFees(), testResearchConfig()).
		WithClock(func() time.Time { return now })

	query := value.ProductQuery{UPC: "012345678905", Name: "Stand Mixer"}

	raws := []entity.RawObservation{
		soldRaw(180, now.Add(-24*time.Hour)),
		soldRaw(175, now.Add(-48*time.Hour)),
	}

	first, err := svc.Evaluate(ctx, query, raws)
	rq.NoError(err)

	// тот же скрейп целиком повторён: валидный запрос обязан вернуть
	// отчёт по сохранённым наблюдениям, а не ошибку матчинга
	second, err := svc.Evaluate(ctx, query, raws)
	rq.NoError(err)

	rq.Equal(first.Stats, second.Stats)
	rq.Equal(first.Estimate, second.Estimate)
	rq.Len(observations.items, 2)
}
