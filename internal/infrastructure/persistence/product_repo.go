package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"auction_scout/internal/domain"
	"auction_scout/internal/domain/entity"
	"auction_scout/internal/domain/value"
	"auction_scout/pkg/errcodes"
)

type ProductRepository struct {
	db *sqlx.DB
}

func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// withTx выполняет функцию в транзакции.
func (r *ProductRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}
	return nil
}

// Upsert создаёт продукт или обновляет его атрибуты по каноническому
// ключу. Продукты без UPC живут каждый под своим ключом и не пересекаются.
// Пустые поля пришедшей записи не затирают уже известные значения.
func (r *ProductRepository) Upsert(ctx context.Context, product *entity.Product) error {
	if !product.Identified() {
		return domain.NewError(errcodes.ValidationError, "product needs at least upc or name")
	}

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		schema := fromProduct(product)

		query := `
			INSERT INTO products (key, upc, name, brand, model, category, updated_at)
			VALUES (:key, :upc, :name, :brand, :model, :category, :updated_at)
			ON CONFLICT (key) DO UPDATE SET
				upc        = CASE WHEN excluded.upc      != '' THEN excluded.upc      ELSE products.upc      END,
				name       = CASE WHEN excluded.name     != '' THEN excluded.name     ELSE products.name     END,
				brand      = CASE WHEN excluded.brand    != '' THEN excluded.brand    ELSE products.brand    END,
				model      = CASE WHEN excluded.model    != '' THEN excluded.model    ELSE products.model    END,
				category   = CASE WHEN excluded.category != '' THEN excluded.category ELSE products.category END,
				updated_at = excluded.updated_at`

		if _, err := tx.NamedExecContext(ctx, query, schema); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to upsert product")
		}
		return nil
	})
}

func (r *ProductRepository) GetByUPC(ctx context.Context, upc string) (*entity.Product, error) {
	if upc == "" {
		return nil, domain.NewError(errcodes.InvalidUPC, "upc is empty")
	}

	var schema productSchema
	if err := r.db.GetContext(ctx, &schema, `SELECT * FROM products WHERE upc = ?`, upc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.ProductNotFound, "product not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get product")
	}

	return schema.toDomain(), nil
}

// Find ищет продукт тем же приоритетом, что и матчер: UPC, затем name,
// затем brand+model.
func (r *ProductRepository) Find(ctx context.Context, query value.ProductQuery) (*entity.Product, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if query.UPC != "" {
		return r.GetByUPC(ctx, query.UPC)
	}

	var (
		schema productSchema
		err    error
	)

	if query.Name != "" {
		err = r.db.GetContext(ctx, &schema,
			`SELECT * FROM products WHERE LOWER(name) = LOWER(?) ORDER BY updated_at DESC LIMIT 1`,
			query.Name)
	} else {
		err = r.db.GetContext(ctx, &schema,
			`SELECT * FROM products WHERE LOWER(brand) = LOWER(?) AND LOWER(model) = LOWER(?) ORDER BY updated_at DESC LIMIT 1`,
			query.Brand, query.Model)
	}

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.ProductNotFound, "product not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to find product")
	}

	return schema.toDomain(), nil
}

func (r *ProductRepository) List(ctx context.Context, limit, offset int) ([]entity.Product, error) {
	if limit <= 0 {
		return nil, domain.NewError(errcodes.InvalidPaging, "limit must be positive")
	}

	var schemas []productSchema
	if err := r.db.SelectContext(ctx, &schemas,
		`SELECT * FROM products ORDER BY key ASC LIMIT ? OFFSET ?`, limit, offset); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list products")
	}

	result := make([]entity.Product, 0, len(schemas))
	for _, s := range schemas {
		result = append(result, *s.toDomain())
	}
	return result, nil
}

// ListStale возвращает продукты, у которых нет наблюдений свежее cutoff —
// кандидаты на фоновый ре-ресерч.
func (r *ProductRepository) ListStale(ctx context.Context, cutoff, limit int64) ([]entity.Product, error) {
	var schemas []productSchema
	query := `
		SELECT p.* FROM products p
		WHERE NOT EXISTS (
			SELECT 1 FROM price_observations o
			WHERE o.product_key = p.key AND o.observed_at >= ?
		)
		ORDER BY p.updated_at ASC
		LIMIT ?`

	if err := r.db.SelectContext(ctx, &schemas, query, cutoff, limit); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list stale products")
	}

	result := make([]entity.Product, 0, len(schemas))
	for _, s := range schemas {
		result = append(result, *s.toDomain())
	}
	return result, nil
}
