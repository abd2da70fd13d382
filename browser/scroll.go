package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Loader drives an infinite-scroll page until its content stops growing.
// Termination is convergence: two consecutive extent probes returning the
// same value. The round cap keeps a page that never converges from hanging
// the run.
type Loader struct {
	Settle    time.Duration
	MaxRounds int
	Log       zerolog.Logger
}

// LoadAll scrolls until convergence and returns the number of rounds used.
// Exhausting MaxRounds without convergence returns a PaginationError.
func (l *Loader) LoadAll(ctx context.Context, probe func(context.Context) (int64, error), scroll func(context.Context) error) (int, error) {
	last, err := probe(ctx)
	if err != nil {
		return 0, fmt.Errorf("probe content extent: %w", err)
	}

	for round := 1; round <= l.MaxRounds; round++ {
		if err := scroll(ctx); err != nil {
			return round, fmt.Errorf("scroll: %w", err)
		}
		if err := sleep(ctx, l.Settle); err != nil {
			return round, err
		}
		next, err := probe(ctx)
		if err != nil {
			return round, fmt.Errorf("probe content extent: %w", err)
		}
		if next == last {
			l.Log.Debug().Int("rounds", round).Int64("extent", next).Msg("listing converged")
			return round, nil
		}
		last = next
	}

	return l.MaxRounds, &PaginationError{Rounds: l.MaxRounds, LastExtent: last}
}
