package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"auction_scout/internal/domain"
	"auction_scout/pkg/errcodes"
)

// Продукты хранятся под каноническим ключом (Product.Key): UPC, когда он
// есть, иначе слаг идентичности — продукты без UPC не должны схлопываться
// в одну строку. Времена хранятся как unix epoch, чтобы сравнение в SQL
// не зависело ни от формата текста, ни от зоны процесса.
const schema = `
CREATE TABLE IF NOT EXISTS products (
    key        TEXT PRIMARY KEY,
    upc        TEXT NOT NULL DEFAULT '',
    name       TEXT NOT NULL,
    brand      TEXT NOT NULL DEFAULT '',
    model      TEXT NOT NULL DEFAULT '',
    category   TEXT NOT NULL DEFAULT '',
    updated_at INTEGER NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_products_upc
    ON products (upc) WHERE upc != '';

CREATE TABLE IF NOT EXISTS price_observations (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    product_key TEXT NOT NULL REFERENCES products(key),
    source      TEXT NOT NULL CHECK (source IN ('ebay','amazon')),
    price       REAL NOT NULL CHECK (price > 0),
    condition   TEXT NOT NULL,
    status      TEXT NOT NULL CHECK (status IN ('sold','active')),
    observed_at INTEGER NOT NULL,
    UNIQUE (product_key, source, price, observed_at)
);

CREATE INDEX IF NOT EXISTS idx_observations_product
    ON price_observations (product_key, observed_at DESC);
`

// EnsureSchema создаёт таблицы при первом открытии файла БД.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to ensure schema")
	}
	return nil
}
