package entity

import (
	"time"

	"auction_scout/internal/domain/value"
)

// RawObservation — запись из выдачи маркетплейса до матчинга: заголовок и
// идентификаторы в том виде, в каком их отдал источник.
type RawObservation struct {
	Title      string              `json:"title"`
	Brand      string              `json:"brand,omitempty"`
	Model      string              `json:"model,omitempty"`
	UPC        string              `json:"upc,omitempty"`
	Price      float64             `json:"price"`
	Condition  value.Condition     `json:"condition"`
	Status     value.ListingStatus `json:"status"`
	ObservedAt time.Time           `json:"observed_at"`
	Source     value.Source        `json:"source"`
}

// PriceObservation — ценовая точка, привязанная к каноническому продукту
// через Product.Key. После сохранения не изменяется, новые наблюдения
// дописываются сверху.
type PriceObservation struct {
	ID         int64               `json:"id"`
	ProductKey string              `json:"product_key"`
	Source     value.Source        `json:"source"`
	Price      float64             `json:"price"`
	Condition  value.Condition     `json:"condition"`
	Status     value.ListingStatus `json:"status"`
	ObservedAt time.Time           `json:"observed_at"`
}
