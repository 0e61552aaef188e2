package server

import (
	"git.appkode.ru/pub/go/failure"

	"auction_scout/internal/domain"
	"auction_scout/internal/domain/entity"
	"auction_scout/internal/domain/value"
	"auction_scout/pkg/errcodes"
	"auction_scout/pkg/lox"
	"auction_scout/pkg/rest"
)

func newRESTProduct(product entity.Product) rest.Product {
	return rest.Product{
		UPC:      product.UPC,
		Name:     product.Name,
		Brand:    product.Brand,
		Model:    product.Model,
		Category: product.Category,
	}
}

func newRESTProductList(products []entity.Product) rest.ProductList {
	return rest.ProductList{Items: lox.Map(products, newRESTProduct)}
}

func newRESTStats(stats entity.AggregateStats) rest.PriceStats {
	return rest.PriceStats{
		SampleSize:     stats.SampleSize,
		LowestSold:     stats.LowestSold,
		MedianSold:     stats.MedianSold,
		MeanSold:       stats.MeanSold,
		Confidence:     stats.Confidence.String(),
		OutliersCut:    stats.OutliersCut,
		ActiveFallback: stats.ActiveFallback,
	}
}

func newRESTEstimate(estimate entity.ProfitEstimate) rest.ProfitEstimate {
	return rest.ProfitEstimate{
		AcquisitionCost:   estimate.AcquisitionCost,
		GrossRevenue:      estimate.GrossRevenue,
		TotalFees:         estimate.TotalFees,
		ShippingCost:      estimate.ShippingCost,
		Tax:               estimate.Tax,
		NetRevenue:        estimate.NetRevenue,
		Profit:            estimate.Profit,
		ProfitMarginPct:   estimate.ProfitMarginPct,
		RecommendedMaxBid: estimate.RecommendedMaxBid,
		BindingConstraint: estimate.BindingConstraint.String(),
	}
}

func newRESTReport(report entity.ResearchReport) rest.ResearchReport {
	return rest.ResearchReport{
		Product:  newRESTProduct(report.Product),
		Stats:    newRESTStats(report.Stats),
		Estimate: newRESTEstimate(report.Estimate),
	}
}

func newDomainQuery(request rest.ResearchRequest) (value.ProductQuery, error) {
	query := value.ProductQuery{
		UPC:   request.UPC,
		Name:  request.Name,
		Brand: request.Brand,
		Model: request.Model,
	}

	if err := query.Validate(); err != nil {
		return value.ProductQuery{}, err
	}

	return query, nil
}

// asHTTPError переводит доменные коды в failure-ошибки, чтобы reply
// выставил корректный HTTP статус.
func asHTTPError(err error) error {
	code, ok := domain.GetCode(err)
	if !ok {
		return err
	}

	switch code {
	case errcodes.ProductNotFound, errcodes.MatchNotFound, errcodes.NotFound:
		return failure.NewNotFoundError(err.Error(), failure.WithCode(code))
	case errcodes.InvalidUPC, errcodes.InvalidQuery, errcodes.ValidationError:
		return failure.NewInvalidArgumentError(err.Error(), failure.WithCode(code))
	case errcodes.InsufficientData, errcodes.NotProfitable:
		return failure.NewUnprocessableEntityError(err.Error(), failure.WithCode(code))
	default:
		return err
	}
}
