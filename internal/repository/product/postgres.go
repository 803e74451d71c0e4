package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
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

const productColumns = `id, COALESCE(key, ''), name, price::text, favorite, seller_phone, category_id, created_at`

// List returns every product, or only those of categoryID when it is set.
func (r *postgresRepo) List(ctx context.Context, categoryID *int64) ([]domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE $1::bigint IS NULL OR category_id = $1
ORDER BY id
`
	rows, err := r.pool.Query(ctx, q, categoryID)
	if err != nil {
		r.logger.Error("product repo: list", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("product repo: list rows", zap.Error(err))
		return nil, err
	}
	r.logger.Debug("product repo: list", zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE id = $1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			r.logger.Error("product repo: get", zap.Int64("id", id), zap.Error(err))
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) SetFavorite(ctx context.Context, id int64, favorite bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE products SET favorite = $2 WHERE id = $1`, id, favorite)
	if err != nil {
		r.logger.Error("product repo: set favorite", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateWithVariants inserts a product and all of its variants in one transaction.
func (r *postgresRepo) CreateWithVariants(ctx context.Context, p domain.Product, variants []domain.Variant) (*domain.Product, []domain.Variant, error) {
	const insertProduct = `
INSERT INTO products (key, name, price, favorite, seller_phone, category_id)
VALUES (NULLIF($1, ''), $2, $3::numeric, $4, $5, $6)
RETURNING ` + productColumns
	const insertVariant = `
INSERT INTO variants (product_id, color, size, image_product, image_detail, image_cart, stock)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id
`
	var (
		created *domain.Product
		out     = make([]domain.Variant, 0, len(variants))
	)
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		created, err = scanProduct(tx.QueryRow(ctx, insertProduct,
			p.Key, p.Name, p.Price.String(), p.Favorite, p.SellerPhone, p.CategoryID))
		if err != nil {
			return fmt.Errorf("insert product: %w", err)
		}
		for _, v := range variants {
			v.ProductID = created.ID
			if err := tx.QueryRow(ctx, insertVariant,
				v.ProductID, v.Color, v.Size, v.ImageProduct, v.ImageDetail, v.ImageCart, v.Stock,
			).Scan(&v.ID); err != nil {
				return fmt.Errorf("insert variant %s/%s: %w", v.Color, v.Size, err)
			}
			out = append(out, v)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("product repo: create", zap.String("name", p.Name), zap.Error(err))
		return nil, nil, err
	}
	r.logger.Info("product repo: created", zap.Int64("id", created.ID), zap.Int("variants", len(out)))
	return created, out, nil
}

// Upsert inserts or refreshes the product identified by p.Key.
func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if p.Key == "" {
		return nil, errors.New("product repo: upsert requires a key")
	}
	const q = `
INSERT INTO products (key, name, price, seller_phone, category_id)
VALUES ($1, $2, $3::numeric, $4, $5)
ON CONFLICT (key) DO UPDATE SET
    name = EXCLUDED.name,
    price = EXCLUDED.price,
    seller_phone = EXCLUDED.seller_phone,
    category_id = EXCLUDED.category_id
RETURNING ` + productColumns
	out, err := scanProduct(r.pool.QueryRow(ctx, q, p.Key, p.Name, p.Price.String(), p.SellerPhone, p.CategoryID))
	if err != nil {
		r.logger.Error("product repo: upsert", zap.String("key", p.Key), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("product repo: upserted", zap.String("key", out.Key), zap.Int64("id", out.ID))
	return out, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p     domain.Product
		price string
	)
	if err := row.Scan(&p.ID, &p.Key, &p.Name, &price, &p.Favorite, &p.SellerPhone, &p.CategoryID, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var err error
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("parse price %q: %w", price, err)
	}
	return &p, nil
}
