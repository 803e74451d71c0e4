// Package pgtest provides a migrated PostgreSQL database for integration tests.
//
// When TEST_DB_DSN is set that database is used (run such suites with -p 1, packages
// truncate shared tables). Otherwise one postgres:16-alpine container is started per test
// binary and reused by every test in it. Tests are skipped when no Docker provider is reachable.
package pgtest

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"storefront/internal/migrate"
)

var (
	once   sync.Once
	dsn    string
	dsnErr error
)

// Pool returns a pool on a freshly truncated, migrated database. The pool is closed on cleanup.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	if os.Getenv("TEST_DB_DSN") == "" {
		testcontainers.SkipIfProviderIsNotHealthy(t)
	}
	once.Do(func() { dsn, dsnErr = start(ctx) })
	require.NoError(t, dsnErr, "start test database")

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err, "connect test database")
	t.Cleanup(pool.Close)

	require.NoError(t, migrate.Apply(ctx, pool, nil), "apply migrations")
	Reset(t, pool)
	return pool
}

// Reset empties every table and restarts identities.
func Reset(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`TRUNCATE favorites, cart_lines, variants, products, users, categories RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "truncate tables")
}

func start(ctx context.Context) (string, error) {
	if v := os.Getenv("TEST_DB_DSN"); v != "" {
		return v, nil
	}
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("storefront_test"),
		tcpostgres.WithUsername("storefront"),
		tcpostgres.WithPassword("storefront"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return "", err
	}
	return container.ConnectionString(ctx, "sslmode=disable")
}
