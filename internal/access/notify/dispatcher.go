package notify

import (
	"context"
	"log/slog"
	"time"
)

const (
	defaultBuffer  = 64
	deliverTimeout = 10 * time.Second
)

// Dispatcher fans committed events out to a Notifier from a background
// worker. Dispatch never blocks the mutating path: when the buffer is full
// the event is dropped and logged, matching the fire-and-forget contract.
type Dispatcher struct {
	notifier Notifier
	logger   *slog.Logger
	inbox    chan Event

	stopCh chan struct{}
	doneCh chan struct{}
}

func NewDispatcher(notifier Notifier, logger *slog.Logger, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = defaultBuffer
	}

	return &Dispatcher{
		notifier: notifier,
		logger:   logger,
		inbox:    make(chan Event, buffer),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background delivery worker. Call Stop() to shut it down.
func (d *Dispatcher) Start() {
	go d.run()
	d.logger.Info("notification dispatcher started", "buffer", cap(d.inbox))
}

// Stop drains nothing: in-flight delivery finishes, queued events are
// discarded. Blocks until the worker exits.
func (d *Dispatcher) Stop() {
	close(d.stopCh)
	<-d.doneCh
	d.logger.Info("notification dispatcher stopped")
}

// Dispatch enqueues an event without blocking. Call it only after the state
// change has committed.
func (d *Dispatcher) Dispatch(ev Event) {
	if ev.Occurred.IsZero() {
		ev.Occurred = time.Now().UTC()
	}

	select {
	case d.inbox <- ev:
	default:
		d.logger.Warn("notification dropped, buffer full",
			"kind", string(ev.Kind),
			"user_id", ev.UserID,
		)
	}
}

func (d *Dispatcher) run() {
	defer close(d.doneCh)

	for {
		select {
		case <-d.stopCh:
			return
		case ev := <-d.inbox:
			d.deliver(ev)
		}
	}
}

func (d *Dispatcher) deliver(ev Event) {
	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()

	if err := d.notifier.Notify(ctx, ev); err != nil {
		// Best-effort only. Log and move on, never retry.
		d.logger.Warn("notification delivery failed",
			"kind", string(ev.Kind),
			"user_id", ev.UserID,
			"error", err,
		)
	}
}
