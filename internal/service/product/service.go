package product

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"
	variantrepo "storefront/internal/repository/variant"
)

type Service struct {
	repo     productRepo
	variants variantLister
}

type productRepo interface {
	List(ctx context.Context, categoryID *int64) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	SetFavorite(ctx context.Context, id int64, favorite bool) error
	CreateWithVariants(ctx context.Context, p domain.Product, variants []domain.Variant) (*domain.Product, []domain.Variant, error)
}

type variantLister interface {
	ListByProduct(ctx context.Context, productID int64) ([]domain.Variant, error)
}

func New(repo productrepo.Repository, variants variantrepo.Repository) *Service {
	return &Service{repo: repo, variants: variants}
}

// CreateInput describes a new product and the variants created with it.
type CreateInput struct {
	Key         string
	Name        string
	Price       decimal.Decimal
	SellerPhone string
	CategoryID  *int64
	Variants    []VariantInput
}

type VariantInput struct {
	Color        string
	Size         string
	ImageProduct string
	ImageDetail  string
	ImageCart    string
	Stock        int
}

// ProductDetail is a product together with its variants.
type ProductDetail struct {
	domain.Product
	Variants []domain.Variant `json:"variants"`
}

func (s *Service) List(ctx context.Context, categoryID *int64) ([]domain.Product, error) {
	if categoryID != nil && *categoryID <= 0 {
		return nil, domain.NewValidationError("category_id", "must be a positive integer")
	}
	return s.repo.List(ctx, categoryID)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Variants lists the variants of an existing product; an unknown product is ErrNotFound.
func (s *Service) Variants(ctx context.Context, productID int64) ([]domain.Variant, error) {
	if _, err := s.Get(ctx, productID); err != nil {
		return nil, err
	}
	return s.variants.ListByProduct(ctx, productID)
}

func (s *Service) SetFavorite(ctx context.Context, id int64, favorite bool) error {
	if err := validateID(id); err != nil {
		return err
	}
	return s.repo.SetFavorite(ctx, id, favorite)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*ProductDetail, error) {
	p, variants, err := normalizeCreate(in)
	if err != nil {
		return nil, err
	}
	created, createdVariants, err := s.repo.CreateWithVariants(ctx, p, variants)
	if err != nil {
		return nil, err
	}
	return &ProductDetail{Product: *created, Variants: createdVariants}, nil
}

func normalizeCreate(in CreateInput) (domain.Product, []domain.Variant, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Product{}, nil, domain.NewValidationError("name", "is required")
	}
	if in.Price.IsNegative() {
		return domain.Product{}, nil, domain.NewValidationError("price", "must not be negative")
	}
	if in.CategoryID != nil && *in.CategoryID <= 0 {
		return domain.Product{}, nil, domain.NewValidationError("category_id", "must be a positive integer")
	}
	p := domain.Product{
		Key:         strings.TrimSpace(in.Key),
		Name:        name,
		Price:       in.Price,
		SellerPhone: strings.TrimSpace(in.SellerPhone),
		CategoryID:  in.CategoryID,
	}

	seen := make(map[string]struct{}, len(in.Variants))
	variants := make([]domain.Variant, 0, len(in.Variants))
	for i, v := range in.Variants {
		color, size := strings.TrimSpace(v.Color), strings.TrimSpace(v.Size)
		if v.Stock < 0 || v.Stock > math.MaxInt32 {
			return domain.Product{}, nil, domain.NewValidationError(fmt.Sprintf("variants[%d].stock", i), fmt.Sprintf("must be between 0 and %d", math.MaxInt32))
		}
		k := strings.ToLower(color) + "\x00" + strings.ToLower(size)
		if _, dup := seen[k]; dup {
			return domain.Product{}, nil, domain.NewValidationError(fmt.Sprintf("variants[%d]", i), "duplicate color/size")
		}
		seen[k] = struct{}{}
		variants = append(variants, domain.Variant{
			Color:        color,
			Size:         size,
			ImageProduct: v.ImageProduct,
			ImageDetail:  v.ImageDetail,
			ImageCart:    v.ImageCart,
			Stock:        v.Stock,
		})
	}
	return p, variants, nil
}

func validateID(id int64) error {
	if id <= 0 {
		return domain.NewValidationError("id", "must be a positive integer")
	}
	return nil
}
