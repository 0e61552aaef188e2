package entity

import "auction_scout/internal/domain/value"

// AggregateStats — сводка по наблюдениям одного продукта. Считается заново
// на каждый запрос, в БД как источник истины не хранится.
type AggregateStats struct {
	SampleSize     int              `json:"sample_size"`
	LowestSold     float64          `json:"lowest_sold"`
	MedianSold     float64          `json:"median_sold"`
	MeanSold       float64          `json:"mean_sold"`
	Confidence     value.Confidence `json:"confidence"`
	OutliersCut    int              `json:"filtered_outlier_count"`
	ActiveFallback bool             `json:"active_fallback"` // нет Sold, считали по Active
}
