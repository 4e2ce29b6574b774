package notifications

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/covenantnet/covenant-go/model/covenant"
	"github.com/covenantnet/covenant-go/module"
	"github.com/covenantnet/covenant-go/module/counters"
)

// BufferedConsumer decouples slow consumers from the engines' commit path.
// HandleEvent enqueues the event and returns immediately; a single worker
// routine drains the queue and forwards the events, in log order, to the
// wrapped consumer. Events with a sequence number at or below the last
// delivered one are dropped, so a consumer wired through multiple paths
// still sees every event exactly once.
type BufferedConsumer struct {
	log       zerolog.Logger
	queue     *EventQueue
	notifier  module.Notifier
	next      EventConsumer
	delivered counters.StrictMonotonousCounter
	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

var _ EventConsumer = (*BufferedConsumer)(nil)
var _ module.ReadyDoneAware = (*BufferedConsumer)(nil)

func NewBufferedConsumer(log zerolog.Logger, capacity int, next EventConsumer) *BufferedConsumer {
	c := &BufferedConsumer{
		log:       log.With().Str("component", "buffered_event_consumer").Logger(),
		queue:     NewEventQueue(capacity),
		notifier:  module.NewNotifier(),
		next:      next,
		delivered: counters.NewMonotonousCounter(0),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	return c
}

func (c *BufferedConsumer) HandleEvent(event *covenant.Event) {
	if !c.queue.Push(event) {
		c.log.Warn().
			Uint64("sequence", event.Sequence).
			Str("event_type", string(event.Type)).
			Msg("event queue full, dropping notification")
		return
	}
	c.notifier.Notify()
}

// Ready starts the delivery worker and returns a channel that closes once it
// is running. Repeated calls do not spawn further workers.
func (c *BufferedConsumer) Ready() <-chan struct{} {
	ready := make(chan struct{})
	c.startOnce.Do(func() {
		go c.processLoop()
	})
	close(ready)
	return ready
}

// Done stops the delivery worker and returns a channel that closes once it
// has exited. Queued events that were not yet delivered are dropped.
func (c *BufferedConsumer) Done() <-chan struct{} {
	c.stopOnce.Do(func() {
		close(c.stop)
		// when the worker never started, release waiters here and make a
		// later Ready a no-op
		c.startOnce.Do(func() {
			close(c.done)
		})
	})
	return c.done
}

func (c *BufferedConsumer) processLoop() {
	defer close(c.done)
	for {
		select {
		case <-c.stop:
			return
		case <-c.notifier.Channel():
			c.deliverQueued()
		}
	}
}

func (c *BufferedConsumer) deliverQueued() {
	for {
		event, ok := c.queue.Pop()
		if !ok {
			return
		}
		if !c.delivered.Set(event.Sequence) {
			continue
		}
		c.next.HandleEvent(event)
	}
}
