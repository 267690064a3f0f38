package ingest

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/scanmark/internal/hook"
)

// DefaultConcurrency is the number of URLs handled in parallel when no
// limit is configured.
const DefaultConcurrency = 8

// Feeder hands URLs to a hook function with bounded concurrency.
type Feeder struct {
	concurrency int
	logger      *slog.Logger
}

// FeederOption configures a Feeder.
type FeederOption func(*Feeder)

// WithConcurrency sets the maximum number of URLs handled at once.
// Non-positive values are ignored.
func WithConcurrency(n int) FeederOption {
	return func(f *Feeder) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) FeederOption {
	return func(f *Feeder) {
		f.logger = logger
	}
}

// NewFeeder creates a Feeder.
func NewFeeder(opts ...FeederOption) *Feeder {
	f := &Feeder{concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// Feed calls fn once for every URL in urls. It stops handing out new URLs
// when ctx is cancelled and returns the context error in that case. The
// returned count is the number of URLs actually handled.
func (f *Feeder) Feed(ctx context.Context, urls []string, fn hook.URLFunc) (int, error) {
	f.logger.Debug("feeding URLs",
		"total", len(urls),
		"concurrency", f.concurrency,
	)
	start := time.Now()

	var handled atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	for _, u := range urls {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			fn(u)
			handled.Add(1)
			return nil
		})
	}

	// gctx is always cancelled once Wait returns; only the caller's context
	// tells whether feeding was interrupted.
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	f.logger.Debug("feeding complete",
		"handled", handled.Load(),
		"elapsed", time.Since(start),
	)
	return int(handled.Load()), err
}
