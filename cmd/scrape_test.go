package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunScrapeReturnsErrorInsteadOfExiting(t *testing.T) {
	// A setup failure surfaces as an error so deferred teardown in callers
	// still runs; the process exit happens in Execute.
	t.Setenv("ROUTES_FILE", filepath.Join(t.TempDir(), "missing.json"))

	err := runScrape(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "routes file")
}
