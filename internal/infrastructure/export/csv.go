package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"auction_scout/internal/domain"
	"auction_scout/internal/domain/entity"
	"auction_scout/pkg/errcodes"
)

// заголовок плоской записи для табличного вывода
var columns = []string{ //nolint:gochecknoglobals
	"upc",
	"name",
	"brand",
	"model",
	"lowest_sold",
	"median_sold",
	"mean_sold",
	"sample_size",
	"confidence",
	"recommended_max_bid",
	"profit_margin_pct",
	"binding_constraint",
}

// WriteCSV выгружает отчёты в CSV, по строке на продукт.
func WriteCSV(w io.Writer, reports []entity.ResearchReport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(columns); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to write csv header")
	}

	for _, report := range reports {
		row := []string{
			report.Product.UPC,
			report.Product.Name,
			report.Product.Brand,
			report.Product.Model,
			money(report.Stats.LowestSold),
			money(report.Stats.MedianSold),
			money(report.Stats.MeanSold),
			strconv.Itoa(report.Stats.SampleSize),
			report.Stats.Confidence.String(),
			money(report.Estimate.RecommendedMaxBid),
			fmt.Sprintf("%.1f", report.Estimate.ProfitMarginPct),
			report.Estimate.BindingConstraint.String(),
		}

		if err := cw.Write(row); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to write csv row")
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to flush csv")
	}
	return nil
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
