package export_test

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/require"

	"auction_scout/internal/domain/entity"
	"auction_scout/internal/domain/value"
	"auction_scout/internal/infrastructure/export"
)

func TestWriteCSV(t *testing.T) {
	rq := require.New(t)

	reports := []entity.ResearchReport{
		{
			Product: entity.Product{
				UPC:   "012345678905",
				Name:  "Stand Mixer",
				Brand: "KitchenAid",
				Model: "KSM150",
			},
			Stats: entity.AggregateStats{
				SampleSize: 4,
				LowestSold: 175,
				MedianSold: 182.5,
				MeanSold:   181.25,
				Confidence: value.ConfidenceMedium,
			},
			Estimate: entity.ProfitEstimate{
				RecommendedMaxBid: 87.5,
				ProfitMarginPct:   48.3,
				BindingConstraint: value.ConstraintBidCap,
			},
		},
	}

	var buf bytes.Buffer
	rq.NoError(export.WriteCSV(&buf, reports))

	rows, err := csv.NewReader(&buf).ReadAll()
	rq.NoError(err)
	rq.Len(rows, 2)

	rq.Equal("upc", rows[0][0])
	rq.Equal("binding_constraint", rows[0][len(rows[0])-1])

	rq.Equal([]string{
		"012345678905", "Stand Mixer", "KitchenAid", "KSM150",
		"175.00", "182.50", "181.25", "4", "medium",
		"87.50", "48.3", "bid_cap",
	}, rows[1])
}

func TestWriteCSVEmpty(t *testing.T) {
	rq := require.New(t)

	var buf bytes.Buffer
	rq.NoError(export.WriteCSV(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	rq.NoError(err)
	rq.Len(rows, 1) // только заголовок
}
