package config

import (
	"bytes"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	var buf bytes.Buffer
	cfg := Load(zerolog.New(&buf))

	assert.Equal(t, "5432", cfg.PostgresPort)
	assert.Equal(t, 3, cfg.MaxClickAttempts)
	assert.Equal(t, 40, cfg.MaxScrollRounds)
	assert.Equal(t, "./routes.json", cfg.RoutesFile)

	// The missing-.env notice goes through the structured logger.
	assert.Contains(t, buf.String(), ".env")
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("MAX_CLICK_ATTEMPTS", "7")
	t.Setenv("SCROLL_SETTLE_MS", "250")
	t.Setenv("CLICK_TIMEOUT_MS", "not-a-number")

	cfg := Load(zerolog.Nop())

	assert.Equal(t, 7, cfg.MaxClickAttempts)
	assert.Equal(t, 250, cfg.ScrollSettleMs)
	assert.Equal(t, 10000, cfg.ClickTimeoutMs, "unparseable values fall back to the default")
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost:     "db",
		PostgresPort:     "5433",
		PostgresUser:     "u",
		PostgresPassword: "p",
		PostgresDB:       "redbus",
		PostgresSSLMode:  "disable",
	}

	assert.Equal(t,
		"host=db port=5433 user=u password=p dbname=redbus sslmode=disable",
		cfg.DSN())
}
