package notifications

import (
	"github.com/covenantnet/covenant-go/model/covenant"
)

// EventConsumer consumes the events committed by the engines, in log order.
//
// HandleEvent is called on the committing call's goroutine, after the
// transaction that appended the event has committed. Implementations must be
// concurrency safe and non-blocking; consumers that do real work should be
// wrapped in a BufferedConsumer.
type EventConsumer interface {
	HandleEvent(event *covenant.Event)
}
