package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSession scripts Click outcomes and records calls.
type fakeSession struct {
	clickErrs []error
	clicks    int
	refreshes int
}

func (f *fakeSession) Click(ctx context.Context, selector string) error {
	f.clicks++
	if f.clicks <= len(f.clickErrs) {
		return f.clickErrs[f.clicks-1]
	}
	return nil
}

func (f *fakeSession) Refresh(ctx context.Context) error {
	f.refreshes++
	return nil
}

func (f *fakeSession) Navigate(ctx context.Context, url string) error { return nil }

func (f *fakeSession) Text(ctx context.Context, selector string) (string, error) { return "", nil }

func (f *fakeSession) ContentExtent(ctx context.Context) (int64, error) { return 0, nil }

func (f *fakeSession) ScrollToBottom(ctx context.Context) error { return nil }

func (f *fakeSession) ItemsHTML(ctx context.Context, selector string) ([]string, error) {
	return nil, nil
}

func newTestRetrier(maxAttempts int) *Retrier {
	return &Retrier{
		MaxAttempts: maxAttempts,
		Settle:      time.Millisecond,
		Log:         zerolog.Nop(),
	}
}

func TestRetrierSucceedsAfterTransientFailures(t *testing.T) {
	transient := errors.New("element not interactable")
	session := &fakeSession{clickErrs: []error{transient, transient}}

	err := newTestRetrier(3).Click(context.Background(), session, ".btn-apply")
	require.NoError(t, err)
	assert.Equal(t, 3, session.clicks)
	assert.Equal(t, 2, session.refreshes, "each retry is preceded by a refresh")
}

func TestRetrierExhaustsAttempts(t *testing.T) {
	transient := errors.New("stale element reference")
	session := &fakeSession{clickErrs: []error{transient, transient, transient}}

	err := newTestRetrier(3).Click(context.Background(), session, ".btn-apply")

	var ierr *InteractionError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, 3, ierr.Attempts)
	assert.ErrorIs(t, err, transient)
	assert.Equal(t, 3, session.clicks)
}

func TestRetrierRetriesTimedOutAttempt(t *testing.T) {
	// A click whose readiness wait ran out of its per-attempt budget is a
	// transient condition, not a missing element.
	session := &fakeSession{clickErrs: []error{context.DeadlineExceeded}}

	err := newTestRetrier(3).Click(context.Background(), session, ".btn-apply")
	require.NoError(t, err)
	assert.Equal(t, 2, session.clicks)
	assert.Equal(t, 1, session.refreshes)
}

func TestRetrierDoesNotRetryMissingElement(t *testing.T) {
	session := &fakeSession{clickErrs: []error{ErrElementMissing}}

	err := newTestRetrier(3).Click(context.Background(), session, ".gone")
	assert.ErrorIs(t, err, ErrElementMissing)
	assert.Equal(t, 1, session.clicks)
	assert.Equal(t, 0, session.refreshes)
}

func TestRetrierStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	transient := errors.New("not yet interactable")
	session := &fakeSession{clickErrs: []error{transient, transient, transient}}

	err := newTestRetrier(3).Click(ctx, session, ".btn-apply")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, session.clicks)
}
