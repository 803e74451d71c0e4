package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. ImageProduct is only filled by favorite listings.
type Product struct {
	ID           int64           `json:"id"`
	Key          string          `json:"key,omitempty"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Favorite     bool            `json:"favorite"`
	SellerPhone  string          `json:"sellerPhone"`
	CategoryID   *int64          `json:"categoryId"`
	ImageProduct *string         `json:"imageProduct,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Variant is a color/size configuration of a product with its own stock count.
type Variant struct {
	ID           int64  `json:"id"`
	ProductID    int64  `json:"productId"`
	Color        string `json:"color"`
	Size         string `json:"size"`
	ImageProduct string `json:"imageProduct,omitempty"`
	ImageDetail  string `json:"imageDetail,omitempty"`
	ImageCart    string `json:"imageCart,omitempty"`
	Stock        int    `json:"stock"`
}

// StockLevel is the stock of a variant after a ledger operation.
type StockLevel struct {
	VariantID int64 `json:"variantId"`
	Stock     int   `json:"stock"`
}
