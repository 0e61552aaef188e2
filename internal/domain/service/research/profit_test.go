package research_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"auction_scout/internal/config"
	"auction_scout/internal/domain"
	"auction_scout/internal/domain/entity"
	"auction_scout/internal/domain/service/research"
	"auction_scout/internal/domain/value"
	"auction_scout/pkg/errcodes"
	"auction_scout/pkg/tests"
)

func testFees() config.Fees {
	return config.Fees{
		EBayFeePercent:   10,
		PayPalFeePercent: 2.9,
		PayPalFeeFixed:   0.30,
		ShippingCost:     10,
		TaxRate:          0,
		MinProfitMargin:  35,
		MaxBidPercent:    50,
	}
}

func statsWithLowest(lowest float64) entity.AggregateStats {
	return entity.AggregateStats{
		SampleSize: 5,
		LowestSold: lowest,
		MedianSold: lowest * 1.2,
		MeanSold:   lowest * 1.25,
		Confidence: value.ConfidenceMedium,
	}
}

func TestEstimateProfitSequentialFees(t *testing.T) {
	rq := require.New(t)

	estimate, err := research.EstimateProfit(statsWithLowest(100), 40, testFees())
	rq.NoError(err)

	rq.Equal(100.0, estimate.GrossRevenue)
	rq.InDelta(13.20, estimate.TotalFees, 1e-9) // 10% + 2.9% + $0.30
	rq.Equal(10.0, estimate.ShippingCost)
	rq.Zero(estimate.Tax)
	rq.InDelta(76.80, estimate.NetRevenue, 1e-9)
	rq.InDelta(36.80, estimate.Profit, 1e-9)
	rq.InDelta(92.0, estimate.ProfitMarginPct, 1e-9)
}

func TestEstimateProfitTax(t *testing.T) {
	rq := require.New(t)

	fees := testFees()
	fees.TaxRate = 8.25

	estimate, err := research.EstimateProfit(statsWithLowest(100), 40, fees)
	rq.NoError(err)

	rq.InDelta(8.25, estimate.Tax, 1e-9)
	rq.InDelta(68.55, estimate.NetRevenue, 1e-9)
}

func TestEstimateProfitRejectsNonPositiveCost(t *testing.T) {
	rq := require.New(t)

	_, err := research.EstimateProfit(statsWithLowest(100), 0, testFees())
	rq.Error(err)
	rq.True(domain.IsCode(err, errcodes.ConfigurationError))

	_, err = research.EstimateProfit(statsWithLowest(100), -5, testFees())
	rq.Error(err)
}

func TestEstimateProfitMarginMonotonic(t *testing.T) {
	rq := require.New(t)

	// маржа строго падает с ростом цены закупки
	previous := 1e18
	for _, cost := range []float64{10, 20, 40, 60, 76.80} {
		estimate, err := research.EstimateProfit(statsWithLowest(100), cost, testFees())
		rq.NoError(err)
		rq.Less(estimate.ProfitMarginPct, previous)
		previous = estimate.ProfitMarginPct
	}
}

func TestRecommendBidCapBinds(t *testing.T) {
	rq := require.New(t)

	// net 76.80, margin-решение 56.89, потолок 50% от 100 ниже
	bid, constraint, err := research.RecommendBid(statsWithLowest(100), testFees())
	rq.NoError(err)

	rq.InDelta(50.0, bid, 1e-9)
	rq.Equal(value.ConstraintBidCap, constraint)
}

func TestRecommendBidMarginFloorBinds(t *testing.T) {
	rq := require.New(t)

	fees := testFees()
	fees.MaxBidPercent = 90

	bid, constraint, err := research.RecommendBid(statsWithLowest(100), fees)
	rq.NoError(err)

	rq.InDelta(76.80/1.35, bid, 1e-9)
	rq.Equal(value.ConstraintMarginFloor, constraint)
}

func TestRecommendBidNotProfitable(t *testing.T) {
	rq := require.New(t)

	fees := testFees()
	fees.ShippingCost = 200 // издержки выше базы продажи

	_, _, err := research.RecommendBid(statsWithLowest(100), fees)
	rq.Error(err)
	rq.True(domain.IsCode(err, errcodes.NotProfitable))
}

func TestBuildEstimateHonorsMarginFloor(t *testing.T) {
	rq := require.New(t)

	random := tests.NewRandomizer()

	for i := 0; i < 200; i++ {
		lowest := 20 + random.Float64()*2000
		maxBid := 30 + random.Float64()*70

		fees := testFees()
		fees.MaxBidPercent = maxBid

		estimate, err := research.BuildEstimate(statsWithLowest(lowest), fees)
		rq.NoError(err)

		// ставка никогда не выше потолка, маржа никогда не ниже пола
		rq.LessOrEqual(estimate.RecommendedMaxBid, maxBid/100*lowest+1e-9)
		rq.GreaterOrEqual(estimate.ProfitMarginPct, fees.MinProfitMargin-1e-9)
		rq.Equal(estimate.AcquisitionCost, estimate.RecommendedMaxBid)
	}
}

func TestBuildEstimateInsufficientBasis(t *testing.T) {
	rq := require.New(t)

	_, err := research.BuildEstimate(entity.AggregateStats{}, testFees())
	rq.Error(err)
	rq.True(domain.IsCode(err, errcodes.InsufficientData))
}
