package variant

import (
	"context"

	"storefront/internal/domain"
)

// Repository reads variants and applies atomic stock updates. Stock methods return the
// resulting stock and domain.ErrNotFound when the variant does not exist.
type Repository interface {
	ListByProduct(ctx context.Context, productID int64) ([]domain.Variant, error)
	Upsert(ctx context.Context, v domain.Variant) (*domain.Variant, error)
	SetStock(ctx context.Context, id int64, value int) (int, error)
	IncreaseStock(ctx context.Context, id int64, amount int) (int, error)
	DecreaseStock(ctx context.Context, id int64, amount int) (int, error)
}
