package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"auction_scout/internal/domain"
	"auction_scout/internal/domain/entity"
	"auction_scout/internal/domain/value"
	"auction_scout/internal/infrastructure/persistence"
	"auction_scout/pkg/dbtest"
	"auction_scout/pkg/errcodes"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := dbtest.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, persistence.EnsureSchema(context.Background(), db))

	return db
}

func testProduct() entity.Product {
	return entity.Product{
		UPC:       "012345678905",
		Name:      "Stand Mixer",
		Brand:     "KitchenAid",
		Model:     "KSM150",
		Category:  "kitchen",
		UpdatedAt: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

func TestProductUpsertAndGet(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := persistence.NewProductRepository(newTestDB(t))

	product := testProduct()
	rq.NoError(repo.Upsert(ctx, &product))

	got, err := repo.GetByUPC(ctx, product.UPC)
	rq.NoError(err)
	rq.Equal(product.Name, got.Name)
	rq.Equal(product.Brand, got.Brand)
}

func TestProductUpsertKeepsKnownFields(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := persistence.NewProductRepository(newTestDB(t))

	product := testProduct()
	rq.NoError(repo.Upsert(ctx, &product))

	// повторный ресерч принёс только UPC и имя
	update := entity.Product{
		UPC:       product.UPC,
		Name:      "KitchenAid KSM150 stand mixer",
		UpdatedAt: product.UpdatedAt.Add(time.Hour),
	}
	rq.NoError(repo.Upsert(ctx, &update))

	got, err := repo.GetByUPC(ctx, product.UPC)
	rq.NoError(err)

	rq.Equal("KitchenAid KSM150 stand mixer", got.Name)
	// пустые поля не затёрли известные значения
	rq.Equal("KitchenAid", got.Brand)
	rq.Equal("KSM150", got.Model)
}

func TestProductUpsertUnidentified(t *testing.T) {
	rq := require.New(t)

	repo := persistence.NewProductRepository(newTestDB(t))

	err := repo.Upsert(context.Background(), &entity.Product{Brand: "KitchenAid"})
	rq.Error(err)
	rq.True(domain.IsCode(err, errcodes.ValidationError))
}

func TestProductGetNotFound(t *testing.T) {
	rq := require.New(t)

	repo := persistence.NewProductRepository(newTestDB(t))

	_, err := repo.GetByUPC(context.Background(), "000000000000")
	rq.Error(err)
	rq.True(domain.IsCode(err, errcodes.ProductNotFound))

	_, err = repo.GetByUPC(context.Background(), "")
	rq.Error(err)
	rq.True(domain.IsCode(err, errcodes.InvalidUPC))
}

func TestProductFind(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := persistence.NewProductRepository(newTestDB(t))

	product := testProduct()
	rq.NoError(repo.Upsert(ctx, &product))

	byName, err := repo.Find(ctx, value.ProductQuery{Name: "stand mixer"})
	rq.NoError(err)
	rq.Equal(product.UPC, byName.UPC)

	byBrandModel, err := repo.Find(ctx, value.ProductQuery{Brand: "kitchenaid", Model: "ksm150"})
	rq.NoError(err)
	rq.Equal(product.UPC, byBrandModel.UPC)

	_, err = repo.Find(ctx, value.ProductQuery{Name: "unknown thing"})
	rq.Error(err)
	rq.True(domain.IsCode(err, errcodes.ProductNotFound))
}

func TestProductList(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := persistence.NewProductRepository(newTestDB(t))

	for _, upc := range []string{"100000000003", "200000000006", "300000000009"} {
		product := testProduct()
		product.UPC = upc
		rq.NoError(repo.Upsert(ctx, &product))
	}

	page, err := repo.List(ctx, 2, 0)
	rq.NoError(err)
	rq.Len(page, 2)
	rq.Equal("100000000003", page[0].UPC)

	rest, err := repo.List(ctx, 2, 2)
	rq.NoError(err)
	rq.Len(rest, 1)

	_, err = repo.List(ctx, 0, 0)
	rq.Error(err)
	rq.True(domain.IsCode(err, errcodes.InvalidPaging))
}

func TestObservationAppendDeduplicates(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	db := newTestDB(t)
	products := persistence.NewProductRepository(db)
	observations := persistence.NewObservationRepository(db)

	product := testProduct()
	rq.NoError(products.Upsert(ctx, &product))

	batch := []entity.PriceObservation{
		{
			ProductKey: product.Key(),
			Source:     value.SourceEBay,
			Price:      180,
			Condition:  value.ConditionUsed,
			Status:     value.StatusSold,
			ObservedAt: product.UpdatedAt.Add(-time.Hour),
		},
		{
			ProductKey: product.Key(),
			Source:     value.SourceEBay,
			Price:      175,
			Condition:  value.ConditionUsed,
			Status:     value.StatusSold,
			ObservedAt: product.UpdatedAt.Add(-2 * time.Hour),
		},
	}

	inserted, err := observations.Append(ctx, batch)
	rq.NoError(err)
	rq.Equal(2, inserted)

	// повторный скрейп тех же листингов молча пропускается
	inserted, err = observations.Append(ctx, batch)
	rq.NoError(err)
	rq.Zero(inserted)

	count, err := observations.CountByProduct(ctx, product.UPC)
	rq.NoError(err)
	rq.Equal(2, count)
}

func TestObservationRecentByProduct(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	db := newTestDB(t)
	products := persistence.NewProductRepository(db)
	observations := persistence.NewObservationRepository(db)

	product := testProduct()
	rq.NoError(products.Upsert(ctx, &product))

	var batch []entity.PriceObservation
	for i := 0; i < 5; i++ {
		batch = append(batch, entity.PriceObservation{
			ProductKey: product.Key(),
			Source:     value.SourceEBay,
			Price:      float64(100 + i),
			Condition:  value.ConditionUsed,
			Status:     value.StatusSold,
			ObservedAt: product.UpdatedAt.Add(-time.Duration(i+1) * time.Hour),
		})
	}

	_, err := observations.Append(ctx, batch)
	rq.NoError(err)

	recent, err := observations.RecentByProduct(ctx, product.UPC, 3)
	rq.NoError(err)
	rq.Len(recent, 3)

	// свежие первыми
	rq.Equal(100.0, recent[0].Price)
	rq.Equal(102.0, recent[2].Price)

	_, err = observations.RecentByProduct(ctx, "", 3)
	rq.Error(err)
	rq.True(domain.IsCode(err, errcodes.ValidationError))
}

func TestListStaleReturnsUnobservedProducts(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	db := newTestDB(t)
	products := persistence.NewProductRepository(db)

	product := testProduct()
	rq.NoError(products.Upsert(ctx, &product))

	cutoff := time.Now().Add(-90 * 24 * time.Hour).Unix()

	stale, err := products.ListStale(ctx, cutoff, 10)
	rq.NoError(err)
	rq.Len(stale, 1)
	rq.Equal(product.UPC, stale[0].UPC)
}

func TestProductUpsertWithoutUPCKeepsDistinctRows(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := persistence.NewProductRepository(newTestDB(t))

	mixer := entity.Product{
		Name:      "KitchenAid KSM150 stand mixer",
		Brand:     "KitchenAid",
		Model:     "KSM150",
		UpdatedAt: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
	drill := entity.Product{
		Name:      "DeWalt DCD771 cordless drill",
		Brand:     "DeWalt",
		Model:     "DCD771",
		UpdatedAt: mixer.UpdatedAt.Add(time.Hour),
	}

	rq.NoError(repo.Upsert(ctx, &mixer))
	rq.NoError(repo.Upsert(ctx, &drill))

	// два продукта без UPC не схлопываются в одну строку
	all, err := repo.List(ctx, 10, 0)
	rq.NoError(err)
	rq.Len(all, 2)

	got, err := repo.Find(ctx, value.ProductQuery{Name: mixer.Name})
	rq.NoError(err)
	rq.Equal("KitchenAid", got.Brand)
	rq.Equal("KSM150", got.Model)
}

func TestObservationsKeyedWithoutUPC(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	db := newTestDB(t)
	products := persistence.NewProductRepository(db)
	observations := persistence.NewObservationRepository(db)

	product := entity.Product{
		Name:      "KitchenAid KSM150 stand mixer",
		Brand:     "KitchenAid",
		Model:     "KSM150",
		UpdatedAt: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
	rq.NoError(products.Upsert(ctx, &product))
	rq.NotEmpty(product.Key())

	batch := []entity.PriceObservation{
		{
			ProductKey: product.Key(),
			Source:     value.SourceEBay,
			Price:      180,
			Condition:  value.ConditionUsed,
			Status:     value.StatusSold,
			ObservedAt: product.UpdatedAt.Add(-time.Hour),
		},
		{
			ProductKey: product.Key(),
			Source:     value.SourceAmazon,
			Price:      175,
			Condition:  value.ConditionUsed,
			Status:     value.StatusSold,
			ObservedAt: product.UpdatedAt.Add(-2 * time.Hour),
		},
	}

	inserted, err := observations.Append(ctx, batch)
	rq.NoError(err)
	rq.Equal(2, inserted)

	recent, err := observations.RecentByProduct(ctx, product.Key(), 10)
	rq.NoError(err)
	rq.Len(recent, 2)
	rq.Equal(180.0, recent[0].Price)
}

func TestObservationTimesSurviveNonUTCZones(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	db := newTestDB(t)
	products := persistence.NewProductRepository(db)
	observations := persistence.NewObservationRepository(db)

	product := testProduct()
	rq.NoError(products.Upsert(ctx, &product))

	zone := time.FixedZone("UTC-7", -7*60*60)
	observedAt := time.Date(2026, 3, 14, 5, 0, 0, 0, zone) // 12:00 UTC

	_, err := observations.Append(ctx, []entity.PriceObservation{{
		ProductKey: product.Key(),
		Source:     value.SourceEBay,
		Price:      180,
		Condition:  value.ConditionUsed,
		Status:     value.StatusSold,
		ObservedAt: observedAt,
	}})
	rq.NoError(err)

	recent, err := observations.RecentByProduct(ctx, product.Key(), 1)
	rq.NoError(err)
	rq.Len(recent, 1)
	// момент времени сохранился, независимо от зоны процесса
	rq.True(recent[0].ObservedAt.Equal(observedAt))

	// свежее наблюдение с зонным временем выводит продукт из кандидатов
	stale, err := products.ListStale(ctx, observedAt.Add(-time.Hour).Unix(), 10)
	rq.NoError(err)
	rq.Empty(stale)

	// а наблюдение старше порога — нет
	stale, err = products.ListStale(ctx, observedAt.Add(time.Hour).Unix(), 10)
	rq.NoError(err)
	rq.Len(stale, 1)
}
