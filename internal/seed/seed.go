package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"storefront/internal/logger"
)

// DemoPassword is the password of the seeded demo user.
const DemoPassword = "Demo1234"

type productSeed struct {
	Key         string
	Name        string
	Price       string
	SellerPhone string
	Category    string
	Variants    []variantSeed
}

type variantSeed struct {
	Color string
	Size  string
	Image string
	Stock int
}

var products = []productSeed{
	{
		Key:         "demo-shirt",
		Name:        "Demo T-Shirt",
		Price:       "19.99",
		SellerPhone: "081200000001",
		Category:    "Shirts",
		Variants: []variantSeed{
			{Color: "white", Size: "M", Image: "demo-shirt-white.png", Stock: 25},
			{Color: "white", Size: "L", Image: "demo-shirt-white.png", Stock: 10},
			{Color: "black", Size: "M", Image: "demo-shirt-black.png", Stock: 0},
		},
	},
	{
		Key:         "demo-mug",
		Name:        "Demo Mug",
		Price:       "12.99",
		SellerPhone: "081200000002",
		Category:    "Kitchen",
		Variants: []variantSeed{
			{Color: "blue", Size: "350ml", Image: "demo-mug-blue.png", Stock: 40},
		},
	},
	{
		Key:         "demo-gift-card",
		Name:        "Demo Gift Card",
		Price:       "50.00",
		SellerPhone: "081200000002",
		Category:    "Gifts",
	},
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT;
// existing stock levels are refreshed to the seeded values.
func Apply(ctx context.Context, pool *pgxpool.Pool, log *zap.Logger) error {
	log = logger.OrNop(log)

	for _, p := range products {
		categoryID, err := ensureCategory(ctx, pool, p.Category)
		if err != nil {
			return fmt.Errorf("ensure category %s: %w", p.Category, err)
		}
		productID, err := upsertProduct(ctx, pool, categoryID, p)
		if err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Key, err)
		}
		for _, v := range p.Variants {
			if err := upsertVariant(ctx, pool, productID, v); err != nil {
				return fmt.Errorf("upsert variant %s/%s of %s: %w", v.Color, v.Size, p.Key, err)
			}
		}
		log.Info("seeded product", zap.String("key", p.Key), zap.Int64("id", productID), zap.Int("variants", len(p.Variants)))
	}

	if err := ensureUser(ctx, pool, "demo@example.com"); err != nil {
		return fmt.Errorf("ensure demo user: %w", err)
	}
	log.Info("seeded demo user", zap.String("email", "demo@example.com"))
	return nil
}

func ensureCategory(ctx context.Context, pool *pgxpool.Pool, name string) (int64, error) {
	const q = `
INSERT INTO categories (name)
VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id
`
	var id int64
	if err := pool.QueryRow(ctx, q, name).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, categoryID int64, p productSeed) (int64, error) {
	const q = `
INSERT INTO products (key, name, price, seller_phone, category_id)
VALUES ($1, $2, $3::numeric, $4, $5)
ON CONFLICT (key) DO UPDATE
SET name = EXCLUDED.name,
    price = EXCLUDED.price,
    seller_phone = EXCLUDED.seller_phone,
    category_id = EXCLUDED.category_id
RETURNING id
`
	var id int64
	if err := pool.QueryRow(ctx, q, p.Key, p.Name, p.Price, p.SellerPhone, categoryID).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func upsertVariant(ctx context.Context, pool *pgxpool.Pool, productID int64, v variantSeed) error {
	const q = `
INSERT INTO variants (product_id, color, size, image_product, image_detail, image_cart, stock)
VALUES ($1, $2, $3, $4, $4, $4, $5)
ON CONFLICT (product_id, color, size) DO UPDATE
SET image_product = EXCLUDED.image_product,
    image_detail = EXCLUDED.image_detail,
    image_cart = EXCLUDED.image_cart,
    stock = EXCLUDED.stock
`
	_, err := pool.Exec(ctx, q, productID, v.Color, v.Size, v.Image, v.Stock)
	return err
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, email string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO users (name, gender, address, phone, email, password_hash)
VALUES ('Demo User', 'other', 'Demo Street 1', '081200000000', $1, $2)
ON CONFLICT ((lower(email))) DO NOTHING
`
	_, err = pool.Exec(ctx, q, email, string(hash))
	return err
}
