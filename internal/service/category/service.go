package category

import (
	"context"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/repository/category"
)

type Service struct {
	repo category.Repository
}

func New(repo category.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx)
}

// Ensure returns the category with the given name, creating it if needed.
func (s *Service) Ensure(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	return s.repo.Upsert(ctx, name)
}
