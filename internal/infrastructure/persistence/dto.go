package persistence

import (
	"time"

	"auction_scout/internal/domain/entity"
	"auction_scout/internal/domain/value"
)

// productSchema — представление таблицы products в БД. Времена — unix
// epoch, наружу отдаются в UTC.
type productSchema struct {
	Key       string `db:"key"`
	UPC       string `db:"upc"`
	Name      string `db:"name"`
	Brand     string `db:"brand"`
	Model     string `db:"model"`
	Category  string `db:"category"`
	UpdatedAt int64  `db:"updated_at"`
}

func fromProduct(e *entity.Product) *productSchema {
	return &productSchema{
		Key:       e.Key(),
		UPC:       e.UPC,
		Name:      e.Name,
		Brand:     e.Brand,
		Model:     e.Model,
		Category:  e.Category,
		UpdatedAt: e.UpdatedAt.Unix(),
	}
}

func (s *productSchema) toDomain() *entity.Product {
	return &entity.Product{
		UPC:       s.UPC,
		Name:      s.Name,
		Brand:     s.Brand,
		Model:     s.Model,
		Category:  s.Category,
		UpdatedAt: time.Unix(s.UpdatedAt, 0).UTC(),
	}
}

// observationSchema — представление таблицы price_observations.
type observationSchema struct {
	ID         int64   `db:"id"`
	ProductKey string  `db:"product_key"`
	Source     string  `db:"source"`
	Price      float64 `db:"price"`
	Condition  string  `db:"condition"`
	Status     string  `db:"status"`
	ObservedAt int64   `db:"observed_at"`
}

func fromObservation(e *entity.PriceObservation) *observationSchema {
	return &observationSchema{
		ID:         e.ID,
		ProductKey: e.ProductKey,
		Source:     e.Source.String(),
		Price:      e.Price,
		Condition:  e.Condition.String(),
		Status:     e.Status.String(),
		ObservedAt: e.ObservedAt.Unix(),
	}
}

func (s *observationSchema) toDomain() *entity.PriceObservation {
	return &entity.PriceObservation{
		ID:         s.ID,
		ProductKey: s.ProductKey,
		Source:     value.Source(s.Source),
		Price:      s.Price,
		Condition:  value.Condition(s.Condition),
		Status:     value.ListingStatus(s.Status),
		ObservedAt: time.Unix(s.ObservedAt, 0).UTC(),
	}
}
