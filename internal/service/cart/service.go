package cart

import (
	"context"
	"fmt"
	"math"
	"time"

	"storefront/internal/domain"
	cartrepo "storefront/internal/repository/cart"
)

// Service reconciles cart lines: merging additions into existing lines and applying
// explicit quantity changes. Each operation is a single atomic store statement.
type Service struct {
	repo lineRepo
	now  func() time.Time
}

type lineRepo interface {
	Merge(ctx context.Context, in cartrepo.MergeLineInput) (*domain.CartLine, error)
	Replace(ctx context.Context, key cartrepo.LineKey, quantity int, addedAt time.Time) (int64, error)
	Delete(ctx context.Context, key cartrepo.LineKey) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.CartItem, error)
}

// MaxQuantity is the largest quantity a cart line can hold.
const MaxQuantity = math.MaxInt32

func New(repo cartrepo.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// AddInput is the payload of an add-to-cart request. A missing or zero Quantity adds one unit.
type AddInput struct {
	UserID     int64
	ProductID  int64
	VariantID  *int64
	CategoryID *int64
	Quantity   int
}

// QuantityInput is the payload of an explicit quantity change. Quantity <= 0 removes the line.
type QuantityInput struct {
	UserID    int64
	ProductID int64
	VariantID *int64
	Quantity  int
}

// AddToCart adds Quantity units to the user's line for the product/variant, creating the
// line when it does not exist. Existing lines keep their added_at and category.
func (s *Service) AddToCart(ctx context.Context, in AddInput) (*domain.CartLine, error) {
	if err := validateOwner(in.UserID, in.ProductID); err != nil {
		return nil, err
	}
	qty := in.Quantity
	switch {
	case qty < 0:
		return nil, domain.NewValidationError("quantity", "must not be negative")
	case qty > MaxQuantity:
		return nil, errQuantityTooLarge
	case qty == 0:
		qty = 1
	}
	return s.repo.Merge(ctx, cartrepo.MergeLineInput{
		Key:        cartrepo.LineKey{UserID: in.UserID, ProductID: in.ProductID, VariantID: in.VariantID},
		CategoryID: in.CategoryID,
		Quantity:   qty,
		AddedAt:    s.now(),
	})
}

// SetCartQuantity overwrites the line quantity, or deletes the line when Quantity <= 0.
// A result with Affected == 0 means no line (or, on insert, no product) matched.
func (s *Service) SetCartQuantity(ctx context.Context, in QuantityInput) (domain.QuantityResult, error) {
	if err := validateOwner(in.UserID, in.ProductID); err != nil {
		return domain.QuantityResult{}, err
	}
	key := cartrepo.LineKey{UserID: in.UserID, ProductID: in.ProductID, VariantID: in.VariantID}
	if in.Quantity <= 0 {
		n, err := s.repo.Delete(ctx, key)
		if err != nil {
			return domain.QuantityResult{}, err
		}
		return domain.QuantityResult{Deleted: true, Affected: n}, nil
	}
	if in.Quantity > MaxQuantity {
		return domain.QuantityResult{}, errQuantityTooLarge
	}
	n, err := s.repo.Replace(ctx, key, in.Quantity, s.now())
	if err != nil {
		return domain.QuantityResult{}, err
	}
	return domain.QuantityResult{Affected: n}, nil
}

// ListCart returns the user's lines whose variant is still in stock. Never nil.
func (s *Service) ListCart(ctx context.Context, userID int64) ([]domain.CartItem, error) {
	if userID <= 0 {
		return nil, domain.NewValidationError("user_id", "must be a positive integer")
	}
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	return items, nil
}

var errQuantityTooLarge = domain.NewValidationError("quantity", fmt.Sprintf("must be at most %d", MaxQuantity))

func validateOwner(userID, productID int64) error {
	if userID <= 0 {
		return domain.NewValidationError("user_id", "must be a positive integer")
	}
	if productID <= 0 {
		return domain.NewValidationError("product_id", "must be a positive integer")
	}
	return nil
}
