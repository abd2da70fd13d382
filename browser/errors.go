package browser

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrElementMissing marks a control that is genuinely absent from the page,
// as opposed to one that is present but not yet interactable. It is never
// retried.
var ErrElementMissing = errors.New("element not found on page")

// InteractionError reports a UI action that kept failing transiently until
// the attempt budget ran out.
type InteractionError struct {
	Op       string
	Attempts int
	Cause    error
}

func (e *InteractionError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts: %v", e.Op, e.Attempts, e.Cause)
}

func (e *InteractionError) Unwrap() error { return e.Cause }

// PaginationError reports a scroll loop that never saw two equal content
// extents within its round budget.
type PaginationError struct {
	Rounds     int
	LastExtent int64
}

func (e *PaginationError) Error() string {
	return fmt.Sprintf("page kept growing after %d scroll rounds (last extent %d)", e.Rounds, e.LastExtent)
}

// sleep waits for d or until ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
