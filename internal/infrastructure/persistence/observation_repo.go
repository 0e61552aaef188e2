package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"auction_scout/internal/domain"
	"auction_scout/internal/domain/entity"
	"auction_scout/pkg/errcodes"
)

type ObservationRepository struct {
	db *sqlx.DB
}

func NewObservationRepository(db *sqlx.DB) *ObservationRepository {
	return &ObservationRepository{db: db}
}

// Append дописывает наблюдения. Записи иммутабельны: конфликт по
// (product_key, source, price, observed_at) значит повторный скрейп,
// такая строка молча пропускается. Возвращает число реально вставленных.
func (r *ObservationRepository) Append(ctx context.Context, observations []entity.PriceObservation) (int, error) {
	if len(observations) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `
		INSERT INTO price_observations (product_key, source, price, condition, status, observed_at)
		VALUES (:product_key, :source, :price, :condition, :status, :observed_at)
		ON CONFLICT (product_key, source, price, observed_at) DO NOTHING`

	inserted := 0

	for i := range observations {
		res, err := tx.NamedExecContext(ctx, query, fromObservation(&observations[i]))
		if err != nil {
			return 0, domain.WrapError(err, errcodes.InternalServerError, "failed to append observation")
		}

		if rows, _ := res.RowsAffected(); rows > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return inserted, nil
}

// RecentByProduct отдаёт последние limit наблюдений продукта, свежие
// первыми — контракт чтения для ре-агрегации. Ключ — Product.Key, так
// что продукты без UPC читаются наравне с остальными.
func (r *ObservationRepository) RecentByProduct(ctx context.Context, productKey string, limit int) ([]entity.PriceObservation, error) {
	if productKey == "" {
		return nil, domain.NewError(errcodes.ValidationError, "product key is empty")
	}
	if limit <= 0 {
		return nil, domain.NewError(errcodes.InvalidPaging, "limit must be positive")
	}

	var schemas []observationSchema
	query := `
		SELECT * FROM price_observations
		WHERE product_key = ?
		ORDER BY observed_at DESC
		LIMIT ?`

	if err := r.db.SelectContext(ctx, &schemas, query, productKey, limit); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to load observations")
	}

	result := make([]entity.PriceObservation, 0, len(schemas))
	for _, s := range schemas {
		result = append(result, *s.toDomain())
	}
	return result, nil
}

// CountByProduct — сколько всего наблюдений накоплено по продукту.
func (r *ObservationRepository) CountByProduct(ctx context.Context, productKey string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM price_observations WHERE product_key = ?`, productKey); err != nil {
		return 0, domain.WrapError(err, errcodes.InternalServerError, "failed to count observations")
	}
	return count, nil
}
