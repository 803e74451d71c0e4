package category

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Category, error)
	Upsert(ctx context.Context, name string) (*domain.Category, error)
}
