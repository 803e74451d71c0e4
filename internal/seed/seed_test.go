package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"storefront/internal/testutil/pgtest"
)

func TestApply_Idempotent(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t)

	require.NoError(t, Apply(ctx, pool, nil))
	require.NoError(t, Apply(ctx, pool, nil))

	var categories, productCount, variants, users int
	require.NoError(t, pool.QueryRow(ctx, `
SELECT (SELECT count(*) FROM categories),
       (SELECT count(*) FROM products),
       (SELECT count(*) FROM variants),
       (SELECT count(*) FROM users)`).Scan(&categories, &productCount, &variants, &users))
	assert.Equal(t, 3, categories)
	assert.Equal(t, len(products), productCount)
	assert.Equal(t, 4, variants)
	assert.Equal(t, 1, users)
}
