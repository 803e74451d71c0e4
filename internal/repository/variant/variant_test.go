package variant

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"storefront/internal/domain"
	"storefront/internal/testutil/pgtest"
)

func seedVariant(ctx context.Context, t *testing.T, pool *pgxpool.Pool, stock int) (productID, variantID int64) {
	t.Helper()
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO products (name, price) VALUES ('Mug', 12.50) RETURNING id`).Scan(&productID))
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO variants (product_id, color, size, stock) VALUES ($1, 'white', 'std', $2) RETURNING id`,
		productID, stock).Scan(&variantID))
	return productID, variantID
}

func TestPostgres_DecreaseClampsAtZero(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t)
	_, id := seedVariant(ctx, t, pool, 3)
	repo := NewPostgres(pool, nil)

	stock, err := repo.DecreaseStock(ctx, id, 1_000_000)
	require.NoError(t, err)
	assert.Equal(t, 0, stock)
}

func TestPostgres_DecreaseClampsAmountsBeyondInt4(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t)
	_, id := seedVariant(ctx, t, pool, 7)
	repo := NewPostgres(pool, nil)

	stock, err := repo.DecreaseStock(ctx, id, 3_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, 0, stock)
}

func TestPostgres_IncreaseOverflowIsValidation(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t)
	_, id := seedVariant(ctx, t, pool, math.MaxInt32-1)
	repo := NewPostgres(pool, nil)

	_, err := repo.IncreaseStock(ctx, id, 5)
	assert.True(t, domain.IsValidation(err), "got %v", err)

	var stock int
	require.NoError(t, pool.QueryRow(ctx, `SELECT stock FROM variants WHERE id = $1`, id).Scan(&stock))
	assert.Equal(t, math.MaxInt32-1, stock)
}

func TestPostgres_IncreaseThenDecrease(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t)
	_, id := seedVariant(ctx, t, pool, 0)
	repo := NewPostgres(pool, nil)

	stock, err := repo.IncreaseStock(ctx, id, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, stock)

	stock, err = repo.DecreaseStock(ctx, id, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, stock)

	stock, err = repo.SetStock(ctx, id, 40)
	require.NoError(t, err)
	assert.Equal(t, 40, stock)
}

func TestPostgres_StockUnknownVariant(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t)
	repo := NewPostgres(pool, nil)

	_, err := repo.SetStock(ctx, 999, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.IncreaseStock(ctx, 999, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.DecreaseStock(ctx, 999, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgres_ConcurrentDecreasesNeverGoNegative(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t)
	_, id := seedVariant(ctx, t, pool, 10)
	repo := NewPostgres(pool, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.DecreaseStock(ctx, id, 3)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var stock int
	require.NoError(t, pool.QueryRow(ctx, `SELECT stock FROM variants WHERE id = $1`, id).Scan(&stock))
	assert.Equal(t, 0, stock)
}

func TestPostgres_UpsertAndList(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t)
	productID, _ := seedVariant(ctx, t, pool, 1)
	repo := NewPostgres(pool, nil)

	created, err := repo.Upsert(ctx, domain.Variant{ProductID: productID, Color: "black", Size: "std", ImageCart: "a.png", Stock: 4})
	require.NoError(t, err)
	updated, err := repo.Upsert(ctx, domain.Variant{ProductID: productID, Color: "black", Size: "std", ImageCart: "b.png", Stock: 9})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "b.png", updated.ImageCart)
	assert.Equal(t, 9, updated.Stock)

	list, err := repo.ListByProduct(ctx, productID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
