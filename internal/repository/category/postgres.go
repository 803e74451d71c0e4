package category

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Category, error) {
	const q = `
SELECT id, name, created_at
FROM categories
ORDER BY name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Upsert returns the category called name, creating it when needed.
func (r *postgresRepo) Upsert(ctx context.Context, name string) (*domain.Category, error) {
	const q = `
INSERT INTO categories (name)
VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id, name, created_at
`
	var out domain.Category
	if err := r.pool.QueryRow(ctx, q, name).Scan(&out.ID, &out.Name, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}
