package favorite

import (
	"context"

	"storefront/internal/domain"
	favoriterepo "storefront/internal/repository/favorite"
)

type Service struct {
	repo favoriterepo.Repository
}

func New(repo favoriterepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Add(ctx context.Context, userID, productID int64) error {
	if err := validate(userID, productID); err != nil {
		return err
	}
	return s.repo.Add(ctx, userID, productID)
}

// Remove deletes a favorite; removing one that does not exist is domain.ErrNotFound.
func (s *Service) Remove(ctx context.Context, userID, productID int64) error {
	if err := validate(userID, productID); err != nil {
		return err
	}
	n, err := s.repo.Remove(ctx, userID, productID)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID int64) ([]domain.Product, error) {
	if userID <= 0 {
		return nil, domain.NewValidationError("user_id", "must be a positive integer")
	}
	return s.repo.ListProducts(ctx, userID)
}

func validate(userID, productID int64) error {
	if userID <= 0 {
		return domain.NewValidationError("user_id", "must be a positive integer")
	}
	if productID <= 0 {
		return domain.NewValidationError("product_id", "must be a positive integer")
	}
	return nil
}
