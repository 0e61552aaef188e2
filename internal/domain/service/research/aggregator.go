package research

import (
	"math"
	"sort"
	"time"

	"auction_scout/internal/domain"
	"auction_scout/internal/domain/entity"
	"auction_scout/internal/domain/value"
	"auction_scout/pkg/errcodes"
)

// IQR-фильтр включается только от пяти точек: меньше — не отличить
// выброс от настоящего разброса.
const minSamplesForOutlierFilter = 5

const (
	confidenceMediumFloor = 0.35
	confidenceHighFloor   = 0.65
)

// Aggregate сводит наблюдения продукта в AggregateStats. База — только
// Sold; без единой продажи падаем на Active с принудительно низкой
// уверенностью (активные листинги — не реализованные цены).
func Aggregate(observations []entity.PriceObservation, now time.Time, staleness time.Duration) (entity.AggregateStats, error) {
	var sold, active []float64

	cutoff := now.Add(-staleness)

	for _, obs := range observations {
		if obs.ObservedAt.Before(cutoff) || obs.ObservedAt.After(now) {
			continue
		}

		switch obs.Status {
		case value.StatusSold:
			sold = append(sold, obs.Price)
		case value.StatusActive:
			active = append(active, obs.Price)
		}
	}

	basis := sold
	fallback := false

	if len(basis) == 0 {
		basis = active
		fallback = true
	}

	if len(basis) == 0 {
		return entity.AggregateStats{}, domain.NewError(errcodes.InsufficientData,
			"no usable observations after filtering")
	}

	sort.Float64s(basis)

	outliersCut := 0
	// фильтр выбросов применяется только к продажам: активные цены —
	// хотелки продавцов, их разброс ни о чём не говорит
	if !fallback && len(basis) >= minSamplesForOutlierFilter {
		basis, outliersCut = trimOutliers(basis)
	}

	mean := meanOf(basis)
	stats := entity.AggregateStats{
		SampleSize:     len(basis),
		LowestSold:     basis[0],
		MedianSold:     medianOf(basis),
		MeanSold:       mean,
		OutliersCut:    outliersCut,
		ActiveFallback: fallback,
	}

	stats.Confidence = confidenceBand(len(basis), stdevOf(basis, mean), mean, fallback)

	return stats, nil
}

// trimOutliers выбрасывает точки за пределами 1.5×IQR. Вход отсортирован.
func trimOutliers(sorted []float64) ([]float64, int) {
	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1

	lo := q1 - 1.5*iqr
	hi := q3 + 1.5*iqr

	kept := sorted[:0:0]
	for _, v := range sorted {
		if v >= lo && v <= hi {
			kept = append(kept, v)
		}
	}

	return kept, len(sorted) - len(kept)
}

// confidenceBand: растёт с размером выборки, падает с относительным
// разбросом. score = n/(n+3) × 1/(1+cv). Детерминирована по построению.
func confidenceBand(n int, stdev, mean float64, fallback bool) value.Confidence {
	if fallback {
		return value.ConfidenceLow
	}

	cv := 0.0
	if mean > 0 {
		cv = stdev / mean
	}

	score := float64(n) / float64(n+3) / (1 + cv)

	switch {
	case score >= confidenceHighFloor:
		return value.ConfidenceHigh
	case score >= confidenceMediumFloor:
		return value.ConfidenceMedium
	default:
		return value.ConfidenceLow
	}
}

// quantile — линейная интерполяция по отсортированной выборке.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))

	if lo == hi {
		return sorted[lo]
	}

	return sorted[lo] + (pos-float64(lo))*(sorted[hi]-sorted[lo])
}

func meanOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func medianOf(sorted []float64) float64 {
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func stdevOf(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}

	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}

	return math.Sqrt(sum / float64(len(values)-1))
}
