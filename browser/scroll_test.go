package browser

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoader(maxRounds int) *Loader {
	return &Loader{
		Settle:    time.Millisecond,
		MaxRounds: maxRounds,
		Log:       zerolog.Nop(),
	}
}

// extentSequence returns a probe that walks the given extents and then
// repeats the last one forever.
func extentSequence(extents ...int64) func(context.Context) (int64, error) {
	i := 0
	return func(context.Context) (int64, error) {
		if i < len(extents) {
			v := extents[i]
			i++
			return v, nil
		}
		return extents[len(extents)-1], nil
	}
}

func noScroll(context.Context) error { return nil }

func TestLoaderConvergence(t *testing.T) {
	// 1000 → 2000 → 3000 → 3000: converged on the third scroll round.
	probe := extentSequence(1000, 2000, 3000, 3000)

	rounds, err := newTestLoader(10).LoadAll(context.Background(), probe, noScroll)
	require.NoError(t, err)
	assert.Equal(t, 3, rounds)
}

func TestLoaderConvergesImmediatelyOnStaticPage(t *testing.T) {
	probe := extentSequence(1500)

	rounds, err := newTestLoader(10).LoadAll(context.Background(), probe, noScroll)
	require.NoError(t, err)
	assert.Equal(t, 1, rounds)
}

func TestLoaderTerminatesWithoutConvergence(t *testing.T) {
	// The probe grows forever; the round cap must stop the loop.
	extent := int64(0)
	probe := func(context.Context) (int64, error) {
		extent += 500
		return extent, nil
	}

	rounds, err := newTestLoader(5).LoadAll(context.Background(), probe, noScroll)

	var perr *PaginationError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 5, rounds)
	assert.Equal(t, 5, perr.Rounds)
	assert.Greater(t, perr.LastExtent, int64(0))
}

func TestLoaderHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	probe := func(context.Context) (int64, error) {
		calls++
		if calls == 2 {
			cancel()
		}
		return int64(calls * 100), nil
	}

	_, err := newTestLoader(10).LoadAll(ctx, probe, noScroll)
	assert.ErrorIs(t, err, context.Canceled)
}
