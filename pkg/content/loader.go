package content

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/rmax-ai/haze/pkg/clock"
	"github.com/rmax-ai/haze/pkg/metrics"
	"github.com/rmax-ai/haze/pkg/playback"
)

// Retry delays double from retryBase up to retryMax, each spread by
// +/- retryJitter of itself.
const (
	retryBase   = 100 * time.Millisecond
	retryMax    = 5 * time.Second
	retryJitter = 0.2
)

// Loader fetches datasets from a Source once and shares the result.
//
// Failed fetches are retried with exponential delays until one succeeds or
// the context passed to Load is cancelled. The returned Future resolves on
// the loader's goroutine; UI callers must hop back onto their own event
// loop.
type Loader struct {
	source  Source
	clock   clock.Clock
	timeout time.Duration

	base, max time.Duration
	jitter    float64
	rng       *rand.Rand

	once   sync.Once
	future *playback.Future[*Datasets]
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithClock sets the clock used to wait between retries.
func WithClock(c clock.Clock) LoaderOption {
	return func(l *Loader) { l.clock = c }
}

// WithRetryDelays sets the first retry delay and the ceiling it doubles
// up to.
func WithRetryDelays(base, max time.Duration) LoaderOption {
	return func(l *Loader) { l.base, l.max = base, max }
}

// WithJitter sets the fraction each delay is randomly spread by, drawn
// from rng. Zero disables jitter.
func WithJitter(fraction float64, rng *rand.Rand) LoaderOption {
	return func(l *Loader) {
		l.jitter = fraction
		if rng != nil {
			l.rng = rng
		}
	}
}

// WithAttemptTimeout bounds each fetch. Zero means no per-attempt bound.
func WithAttemptTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) { l.timeout = d }
}

// NewLoader creates a loader for source.
func NewLoader(source Source, opts ...LoaderOption) *Loader {
	l := &Loader{
		source: source,
		clock:  clock.Real(),
		base:   retryBase,
		max:    retryMax,
		jitter: retryJitter,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		future: playback.NewFuture[*Datasets](),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load starts fetching on the first call and returns the shared Future.
// Later calls return the same Future and ignore their context.
func (l *Loader) Load(ctx context.Context) *playback.Future[*Datasets] {
	l.once.Do(func() {
		go l.run(ctx)
	})
	return l.future
}

// retryDelay is the wait after the given failed attempt (0-based).
func (l *Loader) retryDelay(attempt int) time.Duration {
	delay := l.base
	for i := 0; i < attempt && delay < l.max; i++ {
		delay *= 2
	}
	delay = min(delay, l.max)
	if l.jitter > 0 {
		delay += time.Duration(float64(delay) * (l.rng.Float64()*2 - 1) * l.jitter)
	}
	return max(delay, 0)
}

func (l *Loader) run(ctx context.Context) {
	name := l.source.Name()
	for attempt := 0; ; attempt++ {
		ds, err := l.fetch(ctx)
		if err == nil {
			metrics.DatasetLoads.WithLabelValues(name, "success").Inc()
			slog.Debug("datasets loaded", "source", name, "attempts", attempt+1)
			l.future.Resolve(ds, nil)
			return
		}
		if ctx.Err() != nil {
			metrics.DatasetLoads.WithLabelValues(name, "cancelled").Inc()
			l.future.Resolve(nil, ctx.Err())
			return
		}
		metrics.DatasetLoads.WithLabelValues(name, "error").Inc()

		wait := l.retryDelay(attempt)
		slog.Warn("dataset fetch failed, retrying", "source", name, "attempt", attempt+1, "wait", wait, "error", err)

		if err := l.sleep(ctx, wait); err != nil {
			metrics.DatasetLoads.WithLabelValues(name, "cancelled").Inc()
			l.future.Resolve(nil, err)
			return
		}
	}
}

func (l *Loader) fetch(ctx context.Context) (*Datasets, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	ds, err := l.source.Datasets(ctx)
	if err != nil {
		return nil, err
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

func (l *Loader) sleep(ctx context.Context, d time.Duration) error {
	woke := make(chan struct{})
	t := l.clock.AfterFunc(d, func() { close(woke) })
	select {
	case <-woke:
		return nil
	case <-ctx.Done():
		t.Stop()
		return ctx.Err()
	}
}
