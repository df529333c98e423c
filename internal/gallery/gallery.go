// Package gallery rebuilds what every frame currently shows from the
// unordered submission history.
package gallery

import (
	"context"
	"image"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/example/spraywall/internal/artwork"
)

// Fetcher lists submission records in any order.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]artwork.Record, error)
}

// RetryPolicy bounds how hard Load tries an unreachable store.
type RetryPolicy struct {
	Attempts        int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy retries three times, from 200ms up to 2s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, InitialInterval: 200 * time.Millisecond, MaxInterval: 2 * time.Second}
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.Multiplier = 2
	b.MaxElapsedTime = 0
	b.Reset()
	attempts := p.Attempts
	if attempts < 0 {
		attempts = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts)), ctx)
}

// Reconstructor loads the display state.
type Reconstructor struct {
	fetcher Fetcher
	retry   RetryPolicy
	logger  zerolog.Logger
}

// Option customises a Reconstructor.
type Option func(*Reconstructor)

// WithRetry overrides DefaultRetryPolicy.
func WithRetry(p RetryPolicy) Option {
	return func(r *Reconstructor) { r.retry = p }
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Reconstructor) { r.logger = logger }
}

// New returns a Reconstructor reading from f.
func New(f Fetcher, opts ...Option) *Reconstructor {
	r := &Reconstructor{fetcher: f, retry: DefaultRetryPolicy(), logger: log.Logger}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Load fetches the history and reduces it. An unreachable store is retried
// per the policy and then yields an all-empty state; Load never fails.
func (r *Reconstructor) Load(ctx context.Context) artwork.DisplayState {
	var recs []artwork.Record
	attempt := 0
	op := func() error {
		attempt++
		var err error
		recs, err = r.fetcher.FetchAll(ctx)
		return err
	}
	notify := func(err error, wait time.Duration) {
		r.logger.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", wait).Msg("gallery fetch failed")
	}
	if err := backoff.RetryNotify(op, r.retry.backOff(ctx), notify); err != nil {
		r.logger.Warn().Err(err).Int("attempt", attempt).Msg("gallery unavailable, showing empty frames")
		return artwork.EmptyDisplayState()
	}
	return Reduce(recs)
}

// Occupant decodes the artwork frame idx currently displays. It returns nil
// for an empty or unknown frame.
func (r *Reconstructor) Occupant(ctx context.Context, idx int) (image.Image, error) {
	if !artwork.ValidFrame(idx) {
		return nil, nil
	}
	rec := r.Load(ctx)[idx]
	if rec == nil {
		return nil, nil
	}
	return rec.Image()
}

// Reduce applies the latest-per-frame rule: for each frame the record with
// the greatest CreatedAt wins, ties going to the greatest ID. Records with
// out-of-range frames are ignored. Input order does not matter.
func Reduce(recs []artwork.Record) artwork.DisplayState {
	state := artwork.EmptyDisplayState()
	for i := range recs {
		rec := recs[i]
		if !artwork.ValidFrame(rec.FrameIndex) {
			continue
		}
		if cur := state[rec.FrameIndex]; cur == nil || rec.Newer(*cur) {
			state[rec.FrameIndex] = &rec
		}
	}
	return state
}
