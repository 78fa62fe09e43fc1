package queue

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/c2developers/creatorhub/internal/core/ports"
	"github.com/c2developers/creatorhub/internal/pkg/metrics"
)

const channelBuffer = 64

// Dispatcher applies provider events to a handler from a single worker, so
// events are handled one at a time in arrival order and provider listener
// callbacks never run controller code.
type Dispatcher struct {
	events  chan ports.ProviderEvent
	handler ports.ProviderEventHandler
	log     zerolog.Logger

	stopOnce sync.Once
	done     chan struct{}
}

// NewDispatcher creates a Dispatcher feeding handler.
func NewDispatcher(handler ports.ProviderEventHandler, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		events:  make(chan ports.ProviderEvent, channelBuffer),
		handler: handler,
		log:     log.With().Str("component", "dispatcher").Logger(),
		done:    make(chan struct{}),
	}
}

// Start launches the worker goroutine. The worker stops when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	go d.run(ctx)
}

// Enqueue hands an event to the worker. It blocks while the buffer is full and
// drops the event once the dispatcher has stopped.
func (d *Dispatcher) Enqueue(event ports.ProviderEvent) {
	select {
	case <-d.done:
		d.log.Debug().Str("event", string(event.Kind)).Msg("dispatcher stopped, event dropped")
		return
	default:
	}
	select {
	case <-d.done:
		d.log.Debug().Str("event", string(event.Kind)).Msg("dispatcher stopped, event dropped")
	case d.events <- event:
		metrics.ProviderEventsQueueDepth.Inc()
	}
}

// Done is closed once the worker has exited.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

func (d *Dispatcher) run(ctx context.Context) {
	defer d.stopOnce.Do(func() { close(d.done) })
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-d.events:
			metrics.ProviderEventsQueueDepth.Dec()
			if err := d.handler.HandleProviderEvent(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("event", string(event.Kind)).
					Uint64("generation", event.Generation).
					Msg("provider event failed")
			}
		}
	}
}
