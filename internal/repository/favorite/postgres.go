package favorite

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
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

// Add is idempotent: adding an existing favorite is a no-op.
func (r *postgresRepo) Add(ctx context.Context, userID, productID int64) error {
	const q = `
INSERT INTO favorites (user_id, product_id)
VALUES ($1, $2)
ON CONFLICT (user_id, product_id) DO NOTHING
`
	if _, err := r.pool.Exec(ctx, q, userID, productID); err != nil {
		r.logger.Error("favorite repo: add", zap.Int64("user_id", userID), zap.Int64("product_id", productID), zap.Error(err))
		return err
	}
	return nil
}

func (r *postgresRepo) Remove(ctx context.Context, userID, productID int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM favorites WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		r.logger.Error("favorite repo: remove", zap.Int64("user_id", userID), zap.Int64("product_id", productID), zap.Error(err))
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListProducts returns the user's favorite products, each with the product image of its first variant.
func (r *postgresRepo) ListProducts(ctx context.Context, userID int64) ([]domain.Product, error) {
	const q = `
SELECT p.id, COALESCE(p.key, ''), p.name, p.price::text, p.favorite, p.seller_phone, p.category_id, p.created_at,
       (SELECT v.image_product FROM variants v WHERE v.product_id = p.id ORDER BY v.id LIMIT 1)
FROM favorites f
JOIN products p ON p.id = f.product_id
WHERE f.user_id = $1
ORDER BY f.created_at, p.id
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		r.logger.Error("favorite repo: list", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var (
			p     domain.Product
			price string
		)
		if err := rows.Scan(&p.ID, &p.Key, &p.Name, &price, &p.Favorite, &p.SellerPhone, &p.CategoryID, &p.CreatedAt, &p.ImageProduct); err != nil {
			return nil, err
		}
		if p.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("favorite repo: parse price %q: %w", price, err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}
