package product

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	List(ctx context.Context, categoryID *int64) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	SetFavorite(ctx context.Context, id int64, favorite bool) error
	CreateWithVariants(ctx context.Context, p domain.Product, variants []domain.Variant) (*domain.Product, []domain.Variant, error)
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}
