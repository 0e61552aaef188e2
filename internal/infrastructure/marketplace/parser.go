package marketplace

import (
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"

	"auction_scout/internal/domain/entity"
	"auction_scout/internal/domain/value"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// wireRecord — строка выдачи в том виде, в каком её отдаёт скрейпящий
// прокси (см. контракт Fetched-Observation Adapter).
type wireRecord struct {
	Title      string    `json:"title"`
	Brand      string    `json:"brand"`
	Model      string    `json:"model"`
	UPC        string    `json:"upc"`
	Price      float64   `json:"price"`
	Condition  string    `json:"condition"`
	ObservedAt time.Time `json:"observed_at"`
}

// JSONParser разбирает JSON-массив записей. Прямой HTML-разбор выдачи
// маркетплейсов сюда сознательно не входит: источники меняют вёрстку
// чаще, чем контракт прокси.
type JSONParser struct{}

func NewJSONParser() JSONParser {
	return JSONParser{}
}

func (JSONParser) Parse(r io.Reader, source value.Source, status value.ListingStatus) ([]entity.RawObservation, error) {
	var records []wireRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, err
	}

	raws := make([]entity.RawObservation, 0, len(records))

	for _, rec := range records {
		if rec.Price <= 0 {
			continue
		}

		condition := value.Condition(rec.Condition)
		if condition != value.ConditionNew && condition != value.ConditionUsed {
			condition = value.ConditionUnknown
		}

		raws = append(raws, entity.RawObservation{
			Title:      rec.Title,
			Brand:      rec.Brand,
			Model:      rec.Model,
			UPC:        rec.UPC,
			Price:      rec.Price,
			Condition:  condition,
			Status:     status,
			ObservedAt: rec.ObservedAt,
			Source:     source,
		})
	}

	return raws, nil
}
