// Package poller runs the bridge's fixed-interval fetch→publish loop.
//
// One goroutine owns the loop; cancellation of the context passed to
// [Poller.Run] is the only shutdown signal. In-flight fetch or publish
// calls are never aborted — cancellation is honored at cycle and wait
// granularity.
package poller

import (
	"context"
	"log/slog"
	"time"

	"github.com/nugget/econet-bridge/internal/econet"
	"github.com/nugget/econet-bridge/internal/mqtt"
)

// Source produces one telemetry snapshot per call.
type Source interface {
	Fetch(ctx context.Context) (econet.Document, error)
}

// Sink consumes one telemetry snapshot.
type Sink interface {
	PublishAll(ctx context.Context, doc econet.Document) mqtt.Result
}

// Poller drives the poll cycle: fetch a document, hand it to the sink,
// wait one interval, repeat until the context is cancelled.
type Poller struct {
	source   Source
	sink     Sink
	interval time.Duration
	logger   *slog.Logger
}

// New creates a Poller. A non-positive interval defaults to 10 seconds.
func New(source Source, sink Sink, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Poller{
		source:   source,
		sink:     sink,
		interval: interval,
		logger:   logger,
	}
}

// Run executes poll cycles until ctx is cancelled, then returns. The
// first cycle runs immediately; each subsequent cycle after one
// interval. The caller owns post-loop teardown (offline publish and
// broker disconnect).
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("poll loop started", "interval", p.interval)

	for {
		if ctx.Err() != nil {
			p.logger.Info("poll loop stopped")
			return
		}

		p.cycle(ctx)

		if !p.wait(ctx) {
			p.logger.Info("poll loop stopped")
			return
		}
	}
}

// cycle runs one fetch→publish pass. A panic anywhere in the body is
// recovered at this boundary and logged, so one malformed cycle never
// takes the loop or the process down.
func (p *Poller) cycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("poll cycle panicked", "panic", r)
		}
	}()

	p.logger.Debug("polling econet endpoint")

	doc, err := p.source.Fetch(ctx)
	if err != nil {
		// A cancelled fetch during shutdown is not a telemetry failure.
		if ctx.Err() != nil {
			return
		}
		p.logger.Error("telemetry fetch failed", "error", err)
		return
	}

	p.sink.PublishAll(ctx, doc)
}

// wait sleeps one poll interval. Returns false when ctx was cancelled
// during the wait; cancellation is observed immediately.
func (p *Poller) wait(ctx context.Context) bool {
	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
