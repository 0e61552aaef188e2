package research

import (
	"fmt"

	"auction_scout/internal/config"
	"auction_scout/internal/domain"
	"auction_scout/internal/domain/entity"
	"auction_scout/internal/domain/value"
	"auction_scout/pkg/errcodes"
)

// Выручка считается от lowest_sold, не от медианы и не от среднего —
// консервативная база не завышает достижимую цену продажи.

// EstimateProfit применяет модель издержек к заданной цене закупки.
// Порядок строго последовательный: комиссия маркетплейса, платёжная
// комиссия, доставка, налог, и только потом маржа.
func EstimateProfit(stats entity.AggregateStats, acquisitionCost float64, fees config.Fees) (entity.ProfitEstimate, error) {
	if acquisitionCost <= 0 {
		return entity.ProfitEstimate{}, domain.NewError(errcodes.ConfigurationError,
			fmt.Sprintf("acquisition cost must be positive, got %.2f", acquisitionCost))
	}

	gross := stats.LowestSold
	if gross <= 0 {
		return entity.ProfitEstimate{}, domain.NewError(errcodes.InsufficientData,
			"aggregate has no sold price basis")
	}

	totalFees, tax, net := netRevenue(gross, fees)

	profit := net - acquisitionCost
	margin := profit / acquisitionCost * 100

	return entity.ProfitEstimate{
		AcquisitionCost: acquisitionCost,
		GrossRevenue:    gross,
		TotalFees:       totalFees,
		ShippingCost:    fees.ShippingCost,
		Tax:             tax,
		NetRevenue:      net,
		Profit:          profit,
		ProfitMarginPct: margin,
	}, nil
}

// RecommendBid решает обратную задачу: цена закупки, при которой маржа
// ровно равна полу, срезанная потолком max_bid_percent от lowest_sold.
// Возвращается и сработавшее ограничение, чтобы вызывающий знал, какой
// лимит оказался обязывающим.
func RecommendBid(stats entity.AggregateStats, fees config.Fees) (float64, value.BindingConstraint, error) {
	gross := stats.LowestSold
	if gross <= 0 {
		return 0, "", domain.NewError(errcodes.InsufficientData,
			"aggregate has no sold price basis")
	}

	_, _, net := netRevenue(gross, fees)

	// margin(cost) = (net-cost)/cost*100 = minMargin  =>  cost = net/(1+m/100)
	marginBid := net / (1 + fees.MinProfitMargin/100)
	capBid := fees.MaxBidPercent / 100 * gross

	bid := marginBid
	constraint := value.ConstraintMarginFloor

	if capBid < marginBid {
		bid = capBid
		constraint = value.ConstraintBidCap
	}

	if bid <= 0 {
		return 0, "", domain.NewError(errcodes.NotProfitable,
			"not profitable at any bid: fees, shipping and tax exceed the sale basis")
	}

	return bid, constraint, nil
}

// BuildEstimate — полная карточка для отчёта: профит, посчитанный в точке
// рекомендованной ставки. Маржа в этой точке по построению не ниже пола.
func BuildEstimate(stats entity.AggregateStats, fees config.Fees) (entity.ProfitEstimate, error) {
	bid, constraint, err := RecommendBid(stats, fees)
	if err != nil {
		return entity.ProfitEstimate{}, err
	}

	estimate, err := EstimateProfit(stats, bid, fees)
	if err != nil {
		return entity.ProfitEstimate{}, err
	}

	estimate.RecommendedMaxBid = bid
	estimate.BindingConstraint = constraint

	return estimate, nil
}

func netRevenue(gross float64, fees config.Fees) (totalFees, tax, net float64) {
	marketplaceFee := gross * fees.EBayFeePercent / 100
	paymentFee := gross*fees.PayPalFeePercent/100 + fees.PayPalFeeFixed

	totalFees = marketplaceFee + paymentFee
	tax = gross * fees.TaxRate / 100
	net = gross - totalFees - fees.ShippingCost - tax

	return totalFees, tax, net
}
