package research

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"auction_scout/internal/domain"
	"auction_scout/internal/domain/entity"
	"auction_scout/internal/domain/value"
	"auction_scout/pkg/errcodes"
)

// Окно, в котором два наблюдения одного источника с одинаковой ценой
// считаются повторным скрейпом одного листинга.
const dedupWindow = 2 * time.Minute

// MatchResult — канонический продукт и наблюдения, признанные его ценами.
type MatchResult struct {
	Product      entity.Product
	Observations []entity.PriceObservation
	Excluded     int // не прошли порог схожести
	Deduped      int // схлопнуты как повторный скрейп
}

// Match сводит запрос и сырую выдачу источников к одному продукту.
// Точный UPC авторитетен и выключает fuzzy-матчинг; без UPC работает
// пересечение нормализованных токенов brand+model+name. Наблюдения ниже
// порога отбрасываются молча: ложный матч портит финансовый результат,
// недобор — нет.
func Match(query value.ProductQuery, raws []entity.RawObservation, threshold float64) (MatchResult, error) {
	if err := query.Validate(); err != nil {
		return MatchResult{}, err
	}

	var (
		matched  []entity.RawObservation
		excluded int
	)

	if query.UPC != "" {
		for _, raw := range raws {
			if raw.UPC == query.UPC {
				matched = append(matched, raw)
			} else {
				excluded++
			}
		}
	} else {
		queryTokens := tokenize(query.Brand + " " + query.Model + " " + query.Name)

		for _, raw := range raws {
			score := overlapScore(queryTokens, tokenize(raw.Brand+" "+raw.Model+" "+raw.Title))
			if score >= threshold {
				matched = append(matched, raw)
			} else {
				excluded++
			}
		}

		// tie-break канонического имени: лучший скор, затем свежесть
		sort.SliceStable(matched, func(i, j int) bool {
			si := overlapScore(queryTokens, tokenize(matched[i].Brand+" "+matched[i].Model+" "+matched[i].Title))
			sj := overlapScore(queryTokens, tokenize(matched[j].Brand+" "+matched[j].Model+" "+matched[j].Title))
			if si != sj {
				return si > sj
			}
			return matched[i].ObservedAt.After(matched[j].ObservedAt)
		})
	}

	if len(matched) == 0 {
		return MatchResult{}, domain.NewError(errcodes.MatchNotFound,
			"no observation cleared the match threshold for "+query.String())
	}

	deduped, collapsed := dedupe(matched)
	product := canonicalProduct(query, deduped[0])

	observations := make([]entity.PriceObservation, 0, len(deduped))
	for _, raw := range deduped {
		observations = append(observations, entity.PriceObservation{
			ProductKey: product.Key(),
			Source:     raw.Source,
			Price:      raw.Price,
			Condition:  raw.Condition,
			Status:     raw.Status,
			ObservedAt: raw.ObservedAt,
		})
	}

	return MatchResult{
		Product:      product,
		Observations: observations,
		Excluded:     excluded,
		Deduped:      collapsed,
	}, nil
}

// canonicalProduct собирает идентичность: поля запроса первичны, дыры
// заполняются из наилучшего наблюдения.
func canonicalProduct(query value.ProductQuery, best entity.RawObservation) entity.Product {
	product := entity.Product{
		UPC:   query.UPC,
		Name:  query.Name,
		Brand: query.Brand,
		Model: query.Model,
	}

	if product.UPC == "" {
		product.UPC = best.UPC
	}
	if product.Name == "" {
		product.Name = best.Title
	}
	if product.Brand == "" {
		product.Brand = best.Brand
	}
	if product.Model == "" {
		product.Model = best.Model
	}

	return product
}

// mergeIdentity сохраняет уже известную идентичность: поля существующей
// записи первичны, свежий матч лишь заполняет дыры. Так повторный ресёрч
// без UPC попадает в ту же строку продукта, а не плодит новые.
func mergeIdentity(existing, fresh entity.Product) entity.Product {
	merged := existing

	if merged.UPC == "" {
		merged.UPC = fresh.UPC
	}
	if merged.Name == "" {
		merged.Name = fresh.Name
	}
	if merged.Brand == "" {
		merged.Brand = fresh.Brand
	}
	if merged.Model == "" {
		merged.Model = fresh.Model
	}
	if merged.Category == "" {
		merged.Category = fresh.Category
	}

	return merged
}

func dedupe(raws []entity.RawObservation) ([]entity.RawObservation, int) {
	kept := make([]entity.RawObservation, 0, len(raws))
	collapsed := 0

	for _, raw := range raws {
		duplicate := false
		for _, seen := range kept {
			if raw.Source == seen.Source && raw.Price == seen.Price &&
				absDuration(raw.ObservedAt.Sub(seen.ObservedAt)) <= dedupWindow {
				duplicate = true
				break
			}
		}
		if duplicate {
			collapsed++
			continue
		}
		kept = append(kept, raw)
	}

	return kept, collapsed
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// tokenize нормализует строку: нижний регистр, пунктуация выбрасывается.
func tokenize(s string) map[string]struct{} {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return unicode.ToLower(r)
		default:
			return ' '
		}
	}, s)

	tokens := make(map[string]struct{})
	for _, t := range strings.Fields(cleaned) {
		tokens[t] = struct{}{}
	}

	return tokens
}

// overlapScore — мера Жаккара по множествам токенов.
func overlapScore(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	common := 0
	for t := range a {
		if _, ok := b[t]; ok {
			common++
		}
	}

	union := len(a) + len(b) - common

	return float64(common) / float64(union)
}
