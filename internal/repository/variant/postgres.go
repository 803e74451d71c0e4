package variant

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"storefront/internal/domain"
	"storefront/internal/logger"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, log *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger.OrNop(log)}
}

// numeric_value_out_of_range, raised when stock + amount overflows the integer column.
const sqlstateOutOfRange = "22003"

const variantColumns = `id, product_id, color, size, image_product, image_detail, image_cart, stock`

func (r *postgresRepo) ListByProduct(ctx context.Context, productID int64) ([]domain.Variant, error) {
	const q = `
SELECT ` + variantColumns + `
FROM variants
WHERE product_id = $1
ORDER BY id
`
	rows, err := r.pool.Query(ctx, q, productID)
	if err != nil {
		r.logger.Error("variant repo: list", zap.Int64("product_id", productID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	variants := []domain.Variant{}
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, err
		}
		variants = append(variants, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return variants, nil
}

// Upsert inserts a variant or refreshes images and stock of the one with the same product, color and size.
func (r *postgresRepo) Upsert(ctx context.Context, v domain.Variant) (*domain.Variant, error) {
	const q = `
INSERT INTO variants (product_id, color, size, image_product, image_detail, image_cart, stock)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (product_id, color, size) DO UPDATE SET
    image_product = EXCLUDED.image_product,
    image_detail = EXCLUDED.image_detail,
    image_cart = EXCLUDED.image_cart,
    stock = EXCLUDED.stock
RETURNING ` + variantColumns
	out, err := scanVariant(r.pool.QueryRow(ctx, q,
		v.ProductID, v.Color, v.Size, v.ImageProduct, v.ImageDetail, v.ImageCart, v.Stock))
	if err != nil {
		r.logger.Error("variant repo: upsert", zap.Int64("product_id", v.ProductID), zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) SetStock(ctx context.Context, id int64, value int) (int, error) {
	return r.updateStock(ctx, "set", `UPDATE variants SET stock = $2 WHERE id = $1 RETURNING stock`, id, value)
}

func (r *postgresRepo) IncreaseStock(ctx context.Context, id int64, amount int) (int, error) {
	return r.updateStock(ctx, "increase", `UPDATE variants SET stock = stock + $2 WHERE id = $1 RETURNING stock`, id, amount)
}

// DecreaseStock floors at zero in the same statement that subtracts. The arithmetic runs in
// bigint so any positive amount clamps instead of failing to encode as int4.
func (r *postgresRepo) DecreaseStock(ctx context.Context, id int64, amount int) (int, error) {
	return r.updateStock(ctx, "decrease", `UPDATE variants SET stock = GREATEST(stock::bigint - $2::bigint, 0) WHERE id = $1 RETURNING stock`, id, amount)
}

func (r *postgresRepo) updateStock(ctx context.Context, op, q string, id int64, n int) (int, error) {
	var stock int
	if err := r.pool.QueryRow(ctx, q, id, n).Scan(&stock); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("variant repo: stock not found", zap.String("op", op), zap.Int64("variant_id", id))
			return 0, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == sqlstateOutOfRange {
			r.logger.Debug("variant repo: stock out of range", zap.String("op", op), zap.Int64("variant_id", id), zap.Int("n", n))
			return 0, domain.NewValidationError("amount", "would take stock past its maximum")
		}
		r.logger.Error("variant repo: stock", zap.String("op", op), zap.Int64("variant_id", id), zap.Error(err))
		return 0, err
	}
	r.logger.Debug("variant repo: stock updated", zap.String("op", op), zap.Int64("variant_id", id), zap.Int("n", n), zap.Int("stock", stock))
	return stock, nil
}

func scanVariant(row pgx.Row) (*domain.Variant, error) {
	var v domain.Variant
	if err := row.Scan(&v.ID, &v.ProductID, &v.Color, &v.Size, &v.ImageProduct, &v.ImageDetail, &v.ImageCart, &v.Stock); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}
