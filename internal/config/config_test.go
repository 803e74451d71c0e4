package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, 5*time.Second, cfg.DBStatementTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("DB_STATEMENT_TIMEOUT", "750ms")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://shop.example, https://admin.example ,")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, int32(25), cfg.DBMaxConns)
	assert.Equal(t, 750*time.Millisecond, cfg.DBStatementTimeout)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"https://shop.example", "https://admin.example"}, cfg.CORSAllowOrigins)
	assert.False(t, cfg.MetricsEnabled)
}
