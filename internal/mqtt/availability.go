package mqtt

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Availability payload tokens. These exact strings are wired into the
// will message and every discovery registration, so they never vary.
const (
	PayloadOnline  = "online"
	PayloadOffline = "offline"
)

// Availability owns the retained presence topic and its two-state
// machine: Offline (initial) → Online on broker connect → Offline on
// graceful shutdown. Abrupt disconnects never transition this state
// explicitly — the broker's will registration covers them.
//
// HandleConnect is invoked from the transport's connection goroutine
// while HandleShutdown runs on the main shutdown path; the state value
// is atomic and no other state is shared, so both are safe to call
// from their respective contexts.
type Availability struct {
	broker Broker
	topic  string
	logger *slog.Logger
	online atomic.Bool
}

// NewAvailability creates the manager in the Offline state.
func NewAvailability(broker Broker, topic string, logger *slog.Logger) *Availability {
	return &Availability{
		broker: broker,
		topic:  topic,
		logger: logger,
	}
}

// HandleConnect publishes retained "online" and transitions to Online.
// A publish failure keeps the state Offline and is logged; the next
// reconnect retries.
func (a *Availability) HandleConnect(ctx context.Context) {
	if err := a.broker.Publish(ctx, a.topic, []byte(PayloadOnline), true); err != nil {
		a.logger.Error("availability online publish failed", "topic", a.topic, "error", err)
		return
	}
	a.online.Store(true)
	a.logger.Info("availability published", "topic", a.topic, "state", PayloadOnline)
}

// HandleShutdown publishes retained "offline" and transitions to
// Offline. Called exactly once on the graceful shutdown path, before
// the broker connection closes.
func (a *Availability) HandleShutdown(ctx context.Context) {
	if err := a.broker.Publish(ctx, a.topic, []byte(PayloadOffline), true); err != nil {
		a.logger.Error("availability offline publish failed", "topic", a.topic, "error", err)
	} else {
		a.logger.Info("availability published", "topic", a.topic, "state", PayloadOffline)
	}
	a.online.Store(false)
}

// Online reports the current state.
func (a *Availability) Online() bool {
	return a.online.Load()
}
