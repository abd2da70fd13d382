package browser

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Retrier wraps single UI actions with bounded retry over transient
// failures. Between attempts it waits a settle interval and refreshes the
// page, which recovers stale-element and half-rendered states.
type Retrier struct {
	MaxAttempts int
	Settle      time.Duration
	PerAttempt  time.Duration
	Log         zerolog.Logger
}

// Click drives one control to a successful click or returns an
// InteractionError once the attempt budget is spent. An absent element
// (ErrElementMissing) is not a transient condition and propagates
// immediately.
func (r *Retrier) Click(ctx context.Context, s Session, selector string) error {
	attempts := r.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var last error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := r.attempt(ctx, s, selector)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrElementMissing) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		last = err

		if attempt == attempts {
			break
		}
		r.Log.Warn().
			Str("selector", selector).
			Int("attempt", attempt).
			Int("max", attempts).
			Err(err).
			Msg("click failed, refreshing and retrying")
		if err := sleep(ctx, r.Settle); err != nil {
			return err
		}
		if err := s.Refresh(ctx); err != nil {
			last = err
		}
	}

	return &InteractionError{Op: "click " + selector, Attempts: attempts, Cause: last}
}

func (r *Retrier) attempt(ctx context.Context, s Session, selector string) error {
	if r.PerAttempt > 0 {
		actx, cancel := context.WithTimeout(ctx, r.PerAttempt)
		defer cancel()
		return s.Click(actx, selector)
	}
	return s.Click(ctx, selector)
}
