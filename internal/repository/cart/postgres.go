package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"storefront/internal/domain"
	"storefront/internal/logger"
)

// numeric_value_out_of_range
const sqlstateOutOfRange = "22003"

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, log *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger.OrNop(log)}
}

// Merge adds in.Quantity to the line for in.Key in one statement. A new line takes in.AddedAt
// and, when in.CategoryID is nil, the product's category; an existing line keeps both.
// An accumulated quantity past the integer column's range is a ValidationError.
func (r *postgresRepo) Merge(ctx context.Context, in MergeLineInput) (*domain.CartLine, error) {
	const q = `
INSERT INTO cart_lines (user_id, product_id, variant_id, category_id, quantity, added_at)
VALUES ($1, $2, $3, COALESCE($4, (SELECT category_id FROM products WHERE id = $2)), $5, $6)
ON CONFLICT (user_id, product_id, variant_id) DO UPDATE
SET quantity = cart_lines.quantity + EXCLUDED.quantity
RETURNING id, user_id, product_id, variant_id, category_id, quantity, added_at
`
	var line domain.CartLine
	err := r.pool.QueryRow(ctx, q,
		in.Key.UserID,
		in.Key.ProductID,
		in.Key.VariantID,
		in.CategoryID,
		in.Quantity,
		in.AddedAt,
	).Scan(
		&line.ID,
		&line.UserID,
		&line.ProductID,
		&line.VariantID,
		&line.CategoryID,
		&line.Quantity,
		&line.AddedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == sqlstateOutOfRange {
			r.logger.Debug("cart repo: merge overflow", keyFields(in.Key, zap.Int("quantity", in.Quantity))...)
			return nil, domain.NewValidationError("quantity", "would take the line past its maximum")
		}
		r.logger.Error("cart repo: merge", keyFields(in.Key, zap.Error(err))...)
		return nil, err
	}
	r.logger.Debug("cart repo: merged", keyFields(in.Key, zap.Int("quantity", line.Quantity))...)
	return &line, nil
}

// Replace sets the line quantity to exactly quantity, inserting the line when absent.
// It returns 0 when the product does not exist.
func (r *postgresRepo) Replace(ctx context.Context, key LineKey, quantity int, addedAt time.Time) (int64, error) {
	const q = `
INSERT INTO cart_lines (user_id, product_id, variant_id, category_id, quantity, added_at)
SELECT $1::bigint, p.id, $3::bigint, p.category_id, $4::integer, $5::timestamptz
FROM products p
WHERE p.id = $2
ON CONFLICT (user_id, product_id, variant_id) DO UPDATE
SET quantity = EXCLUDED.quantity
`
	tag, err := r.pool.Exec(ctx, q, key.UserID, key.ProductID, key.VariantID, quantity, addedAt)
	if err != nil {
		r.logger.Error("cart repo: replace", keyFields(key, zap.Error(err))...)
		return 0, err
	}
	r.logger.Debug("cart repo: replaced", keyFields(key, zap.Int("quantity", quantity), zap.Int64("affected", tag.RowsAffected()))...)
	return tag.RowsAffected(), nil
}

func (r *postgresRepo) Delete(ctx context.Context, key LineKey) (int64, error) {
	const q = `
DELETE FROM cart_lines
WHERE user_id = $1 AND product_id = $2 AND variant_id IS NOT DISTINCT FROM $3
`
	tag, err := r.pool.Exec(ctx, q, key.UserID, key.ProductID, key.VariantID)
	if err != nil {
		r.logger.Error("cart repo: delete", keyFields(key, zap.Error(err))...)
		return 0, err
	}
	r.logger.Debug("cart repo: deleted", keyFields(key, zap.Int64("affected", tag.RowsAffected()))...)
	return tag.RowsAffected(), nil
}

// ListByUser returns the user's lines with product and variant details, leaving out lines whose
// variant has no stock left. Lines without a variant are always returned.
func (r *postgresRepo) ListByUser(ctx context.Context, userID int64) ([]domain.CartItem, error) {
	const q = `
SELECT c.id, c.user_id, c.product_id, c.variant_id, c.category_id, c.quantity, c.added_at,
       p.name, p.price::text, p.seller_phone,
       v.color, v.size, v.image_cart, v.stock
FROM cart_lines c
JOIN products p ON p.id = c.product_id
LEFT JOIN variants v ON v.id = c.variant_id
WHERE c.user_id = $1 AND (v.stock IS NULL OR v.stock > 0)
ORDER BY c.added_at, c.id
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		r.logger.Error("cart repo: list", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		var (
			item  domain.CartItem
			price string
		)
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ProductID,
			&item.VariantID,
			&item.CategoryID,
			&item.Quantity,
			&item.AddedAt,
			&item.ProductName,
			&price,
			&item.SellerPhone,
			&item.Color,
			&item.Size,
			&item.ImageCart,
			&item.Stock,
		); err != nil {
			return nil, err
		}
		if item.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("cart repo: parse price %q: %w", price, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("cart repo: list rows", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("cart repo: list", zap.Int64("user_id", userID), zap.Int("count", len(items)))
	return items, nil
}

func keyFields(key LineKey, extra ...zap.Field) []zap.Field {
	fields := []zap.Field{
		zap.Int64("user_id", key.UserID),
		zap.Int64("product_id", key.ProductID),
	}
	if key.VariantID != nil {
		fields = append(fields, zap.Int64("variant_id", *key.VariantID))
	}
	return append(fields, extra...)
}
