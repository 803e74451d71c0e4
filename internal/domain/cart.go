package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one user's chosen quantity of a product variant.
// VariantID is nil for products sold without variants.
type CartLine struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	ProductID  int64     `json:"productId"`
	VariantID  *int64    `json:"variantId"`
	CategoryID *int64    `json:"categoryId"`
	Quantity   int       `json:"quantity"`
	AddedAt    time.Time `json:"addedAt"`
}

// CartItem is a CartLine joined with the product and variant details shown in the cart.
type CartItem struct {
	CartLine
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	SellerPhone string          `json:"sellerPhone"`
	Color       *string         `json:"color"`
	Size        *string         `json:"size"`
	ImageCart   *string         `json:"imageCart"`
	Stock       *int            `json:"stock"`
}

// QuantityResult describes the outcome of an explicit quantity change.
// Affected is zero when no cart line matched the key.
type QuantityResult struct {
	Deleted  bool  `json:"deleted"`
	Affected int64 `json:"affected"`
}
