package favorite

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	Add(ctx context.Context, userID, productID int64) error
	Remove(ctx context.Context, userID, productID int64) (int64, error)
	ListProducts(ctx context.Context, userID int64) ([]domain.Product, error)
}
