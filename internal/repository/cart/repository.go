package cart

import (
	"context"
	"time"

	"storefront/internal/domain"
)

// LineKey identifies a cart line. VariantID nil is the "no variant" key value.
type LineKey struct {
	UserID    int64
	ProductID int64
	VariantID *int64
}

// MergeLineInput describes a quantity to add to a line, creating it when absent.
type MergeLineInput struct {
	Key        LineKey
	CategoryID *int64
	Quantity   int
	AddedAt    time.Time
}

type Repository interface {
	Merge(ctx context.Context, in MergeLineInput) (*domain.CartLine, error)
	Replace(ctx context.Context, key LineKey, quantity int, addedAt time.Time) (int64, error)
	Delete(ctx context.Context, key LineKey) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.CartItem, error)
}
