package stock

import (
	"context"
	"fmt"
	"math"

	"storefront/internal/domain"
	variantrepo "storefront/internal/repository/variant"
)

// Service is the stock ledger: absolute and relative adjustments of a variant's stock.
// Decreases clamp at zero inside the store statement.
type Service struct {
	repo stockRepo
}

type stockRepo interface {
	SetStock(ctx context.Context, id int64, value int) (int, error)
	IncreaseStock(ctx context.Context, id int64, amount int) (int, error)
	DecreaseStock(ctx context.Context, id int64, amount int) (int, error)
}

// MaxStock is the largest stock level a variant can hold.
const MaxStock = math.MaxInt32

func New(repo variantrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) SetStock(ctx context.Context, variantID int64, value int) (domain.StockLevel, error) {
	if err := validateVariant(variantID); err != nil {
		return domain.StockLevel{}, err
	}
	if value < 0 {
		return domain.StockLevel{}, domain.NewValidationError("stock", "must be zero or greater")
	}
	if value > MaxStock {
		return domain.StockLevel{}, domain.NewValidationError("stock", fmt.Sprintf("must be at most %d", MaxStock))
	}
	return s.apply(ctx, variantID, value, s.repo.SetStock)
}

func (s *Service) IncreaseStock(ctx context.Context, variantID int64, amount int) (domain.StockLevel, error) {
	if err := validateAdjustment(variantID, amount); err != nil {
		return domain.StockLevel{}, err
	}
	if amount > MaxStock {
		return domain.StockLevel{}, domain.NewValidationError("amount", fmt.Sprintf("must be at most %d", MaxStock))
	}
	return s.apply(ctx, variantID, amount, s.repo.IncreaseStock)
}

// DecreaseStock subtracts amount, never going below zero. Overdraws of any size are absorbed.
func (s *Service) DecreaseStock(ctx context.Context, variantID int64, amount int) (domain.StockLevel, error) {
	if err := validateAdjustment(variantID, amount); err != nil {
		return domain.StockLevel{}, err
	}
	return s.apply(ctx, variantID, amount, s.repo.DecreaseStock)
}

func (s *Service) apply(ctx context.Context, variantID int64, n int, op func(context.Context, int64, int) (int, error)) (domain.StockLevel, error) {
	stock, err := op(ctx, variantID, n)
	if err != nil {
		return domain.StockLevel{}, err
	}
	return domain.StockLevel{VariantID: variantID, Stock: stock}, nil
}

func validateVariant(id int64) error {
	if id <= 0 {
		return domain.NewValidationError("id", "must be a positive integer")
	}
	return nil
}

func validateAdjustment(id int64, amount int) error {
	if err := validateVariant(id); err != nil {
		return err
	}
	if amount <= 0 {
		return domain.NewValidationError("amount", "must be greater than zero")
	}
	return nil
}
